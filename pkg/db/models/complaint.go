package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// Complaint is a client-filed dispute tied to an order and, when resolvable,
// a specific dish and its cook. Unique per (client, order, dish).
type Complaint struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID    uuid.UUID             `gorm:"column:client_id;type:uuid;not null;uniqueIndex:idx_complaints_client_order_dish"`
	OrderID     uuid.UUID             `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_complaints_client_order_dish"`
	DishID      *uuid.UUID            `gorm:"column:dish_id;type:uuid;uniqueIndex:idx_complaints_client_order_dish"`
	CookID      *uuid.UUID            `gorm:"column:cook_id;type:uuid;index"`
	Reason      enums.ComplaintReason `gorm:"column:reason;type:text;not null;default:'other'"`
	Description string                `gorm:"column:description;not null;default:''"`
	Status      enums.ComplaintStatus `gorm:"column:status;type:text;not null;default:'open'"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
