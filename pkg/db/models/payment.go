package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// Payment is the settlement record tied 1:1 to an order.
type Payment struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	AmountCents    int                 `gorm:"column:amount_cents;not null"`
	Status         enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Method         enums.PaymentMethod `gorm:"column:method;type:text;not null;default:'credit_card'"`
	TransactionRef string              `gorm:"column:transaction_ref;not null;default:''"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
