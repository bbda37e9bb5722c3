package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// Order is a committed, priced set of dish line items with a delivery status.
// Orders are never deleted.
type Order struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID          uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	Status            enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	TotalCents        int               `gorm:"column:total_cents;not null"`
	CheckoutSessionID *string           `gorm:"column:checkout_session_id;uniqueIndex"`
	Lines             []OrderLine       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment           *Payment          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLine snapshots a cart line at confirmation time. Immutable once
// created; the dish name and unit price are copied so later catalog edits
// cannot rewrite history.
type OrderLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	DishID         uuid.UUID `gorm:"column:dish_id;type:uuid;not null"`
	DishName       string    `gorm:"column:dish_name;not null"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	SubtotalCents  int       `gorm:"column:subtotal_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
