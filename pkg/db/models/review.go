package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a client's rating of a dish, gated on proof of purchase. One row
// per (client, dish); resubmissions overwrite rating and comment.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID  uuid.UUID `gorm:"column:client_id;type:uuid;not null;uniqueIndex:idx_reviews_client_dish"`
	DishID    uuid.UUID `gorm:"column:dish_id;type:uuid;not null;uniqueIndex:idx_reviews_client_dish"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
