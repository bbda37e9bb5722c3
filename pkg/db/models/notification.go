package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification stores in-app messages created as side effects of order and
// complaint state changes.
type Notification struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientID uuid.UUID  `gorm:"column:recipient_id;type:uuid;not null;index"`
	Message     string     `gorm:"column:message;type:text;not null"`
	ReadAt      *time.Time `gorm:"column:read_at;type:timestamptz"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;default:now()"`
}
