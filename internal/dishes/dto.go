package dishes

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/money"
)

// DishDTO is the transport shape for catalog entries.
type DishDTO struct {
	ID          uuid.UUID `json:"id"`
	CookID      uuid.UUID `json:"cook_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Ingredients string    `json:"ingredients,omitempty"`
	Price       string    `json:"price"`
	PriceCents  int       `json:"price_cents"`
	Stock       int       `json:"stock"`
	City        string    `json:"city,omitempty"`
	Address     string    `json:"address,omitempty"`
	Tags        []string  `json:"tags"`
	IsActive    bool      `json:"is_active"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDishRequest is the payload cooks submit for a new dish.
type CreateDishRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Ingredients string   `json:"ingredients" validate:"max=2000"`
	Price       string   `json:"price" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	City        string   `json:"city" validate:"max=120"`
	Address     string   `json:"address" validate:"max=300"`
	Tags        []string `json:"tags" validate:"max=20,dive,max=50"`
	PhotoURL    string   `json:"photo_url" validate:"max=500"`
}

// UpdateDishRequest carries optional dish fields; nil means leave unchanged.
type UpdateDishRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Ingredients *string   `json:"ingredients,omitempty" validate:"omitempty,max=2000"`
	Price       *string   `json:"price,omitempty"`
	Stock       *int      `json:"stock,omitempty" validate:"omitempty,gte=0"`
	City        *string   `json:"city,omitempty" validate:"omitempty,max=120"`
	Address     *string   `json:"address,omitempty" validate:"omitempty,max=300"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	IsActive    *bool     `json:"is_active,omitempty"`
	PhotoURL    *string   `json:"photo_url,omitempty" validate:"omitempty,max=500"`
}

// ListParams configures catalog pagination and filters.
type ListParams struct {
	City   string
	Limit  int
	Cursor string
}

// ListResult wraps a dish page plus the cursor for the next page.
type ListResult struct {
	Items  []DishDTO `json:"items"`
	Cursor string    `json:"cursor"`
}

func FromModel(d *models.Dish) *DishDTO {
	if d == nil {
		return nil
	}
	tags := []string(d.Tags)
	if tags == nil {
		tags = []string{}
	}
	return &DishDTO{
		ID:          d.ID,
		CookID:      d.CookID,
		Name:        d.Name,
		Description: d.Description,
		Ingredients: d.Ingredients,
		Price:       money.FormatCents(d.PriceCents),
		PriceCents:  d.PriceCents,
		Stock:       d.Stock,
		City:        d.City,
		Address:     d.Address,
		Tags:        tags,
		IsActive:    d.IsActive,
		PhotoURL:    deref(d.PhotoURL),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func fromModels(rows []models.Dish) []DishDTO {
	out := make([]DishDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (r CreateDishRequest) toModel(cookID uuid.UUID, priceCents int) *models.Dish {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return &models.Dish{
		CookID:      cookID,
		Name:        r.Name,
		Description: r.Description,
		Ingredients: r.Ingredients,
		PriceCents:  priceCents,
		Stock:       r.Stock,
		City:        r.City,
		Address:     r.Address,
		Tags:        pq.StringArray(tags),
		IsActive:    true,
		PhotoURL:    ptr(r.PhotoURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
