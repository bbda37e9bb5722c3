package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/money"
)

// CartLineDTO is the JSON shape of a single cart line.
type CartLineDTO struct {
	ID             uuid.UUID `json:"id"`
	DishID         uuid.UUID `json:"dish_id"`
	Quantity       int       `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	UnitPriceCents int       `json:"unit_price_cents"`
	SubtotalCents  int       `json:"subtotal_cents"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CartDTO is the full cart view returned by every cart operation. The total
// is derived from the lines and never stored.
type CartDTO struct {
	ID         uuid.UUID     `json:"id"`
	Lines      []CartLineDTO `json:"lines"`
	TotalCents int           `json:"total_cents"`
	Total      string        `json:"total"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// AddItemRequest adds a dish to the cart or increments an existing line.
type AddItemRequest struct {
	DishID   string `json:"dish_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Note     string `json:"note" validate:"omitempty,max=500"`
}

// UpdateItemRequest overwrites a line's quantity; zero removes the line.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// FromModel maps a cart row and its lines into the response shape.
func FromModel(cart *models.Cart) *CartDTO {
	lines := make([]CartLineDTO, 0, len(cart.Lines))
	total := 0
	for _, line := range cart.Lines {
		subtotal := line.SubtotalCents()
		total += subtotal
		lines = append(lines, CartLineDTO{
			ID:             line.ID,
			DishID:         line.DishID,
			Quantity:       line.Quantity,
			UnitPrice:      money.FormatCents(line.UnitPriceCents),
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  subtotal,
			Note:           line.Note,
			CreatedAt:      line.CreatedAt,
		})
	}
	return &CartDTO{
		ID:         cart.ID,
		Lines:      lines,
		TotalCents: total,
		Total:      money.FormatCents(total),
		UpdatedAt:  cart.UpdatedAt,
	}
}
