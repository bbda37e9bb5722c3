package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Dish represents a cook-owned catalog listing with a live stock count.
type Dish struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CookID      uuid.UUID      `gorm:"column:cook_id;type:uuid;not null;index"`
	Name        string         `gorm:"column:name;not null"`
	Description string         `gorm:"column:description;not null;default:''"`
	Ingredients string         `gorm:"column:ingredients;not null;default:''"`
	PriceCents  int            `gorm:"column:price_cents;not null"`
	Stock       int            `gorm:"column:stock;not null;default:0"`
	City        string         `gorm:"column:city;not null;default:''"`
	Address     string         `gorm:"column:address;not null;default:''"`
	Tags        pq.StringArray `gorm:"column:tags;type:text[]"`
	IsActive    bool           `gorm:"column:is_active;not null;default:true"`
	PhotoURL    *string        `gorm:"column:photo_url"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
