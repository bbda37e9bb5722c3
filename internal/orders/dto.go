package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	"github.com/wakelni/wakelni-backend/pkg/money"
)

// OrderLineDTO is the JSON shape of an immutable order line snapshot.
type OrderLineDTO struct {
	ID             uuid.UUID `json:"id"`
	DishID         uuid.UUID `json:"dish_id"`
	DishName       string    `json:"dish_name"`
	Quantity       int       `json:"quantity"`
	UnitPrice      string    `json:"unit_price"`
	UnitPriceCents int       `json:"unit_price_cents"`
	SubtotalCents  int       `json:"subtotal_cents"`
}

// OrderDTO is the order view returned to clients and cooks.
type OrderDTO struct {
	ID                uuid.UUID         `json:"id"`
	ClientID          uuid.UUID         `json:"client_id"`
	Status            enums.OrderStatus `json:"status"`
	Total             string            `json:"total"`
	TotalCents        int               `json:"total_cents"`
	CheckoutSessionID *string           `json:"checkout_session_id,omitempty"`
	Lines             []OrderLineDTO    `json:"lines"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// ChangeStatusRequest advances the delivery flow one step.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=preparing delivering delivered"`
}

// ListParams filters the order listing.
type ListParams struct {
	Limit  int
	Cursor string
}

// ListResult is a page of orders plus the cursor for the next page.
type ListResult struct {
	Items  []OrderDTO `json:"items"`
	Cursor string     `json:"cursor,omitempty"`
}

// FromModel maps an order row and its lines into the response shape.
func FromModel(order *models.Order) *OrderDTO {
	lines := make([]OrderLineDTO, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineDTO{
			ID:             line.ID,
			DishID:         line.DishID,
			DishName:       line.DishName,
			Quantity:       line.Quantity,
			UnitPrice:      money.FormatCents(line.UnitPriceCents),
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents,
		})
	}
	return &OrderDTO{
		ID:                order.ID,
		ClientID:          order.ClientID,
		Status:            order.Status,
		Total:             money.FormatCents(order.TotalCents),
		TotalCents:        order.TotalCents,
		CheckoutSessionID: order.CheckoutSessionID,
		Lines:             lines,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func fromModels(rows []models.Order) []OrderDTO {
	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items
}
