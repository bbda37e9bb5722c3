package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single open cart a client accumulates lines into. One row per
// client, created lazily on first access.
type Cart struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientID  uuid.UUID  `gorm:"column:client_id;type:uuid;not null;uniqueIndex"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartLine holds one dish selection with the unit price captured at the time
// the dish was first added.
type CartLine struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_dish"`
	DishID         uuid.UUID `gorm:"column:dish_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_dish"`
	Quantity       int       `gorm:"column:quantity;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Note           string    `gorm:"column:note;not null;default:''"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SubtotalCents is the derived line amount; never persisted.
func (l CartLine) SubtotalCents() int {
	return l.Quantity * l.UnitPriceCents
}
