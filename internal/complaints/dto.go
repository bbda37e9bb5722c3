package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// ComplaintDTO is the JSON shape of a filed complaint.
type ComplaintDTO struct {
	ID          uuid.UUID             `json:"id"`
	ClientID    uuid.UUID             `json:"client_id"`
	OrderID     uuid.UUID             `json:"order_id"`
	DishID      *uuid.UUID            `json:"dish_id,omitempty"`
	CookID      *uuid.UUID            `json:"cook_id,omitempty"`
	Reason      enums.ComplaintReason `json:"reason"`
	Description string                `json:"description,omitempty"`
	Status      enums.ComplaintStatus `json:"status"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CreateComplaintRequest files a complaint against an order; dish_id is
// optional and defaults to the order's first line.
type CreateComplaintRequest struct {
	OrderID     string `json:"order_id" validate:"required,uuid"`
	Reason      string `json:"reason" validate:"required,oneof=dish_quality delivery_delay order_error other"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	DishID      string `json:"dish_id" validate:"omitempty,uuid"`
}

// ChangeStatusRequest moves a complaint to any status of the enum.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open read in_progress resolved rejected"`
}

// FromModel maps a complaint row into the response shape.
func FromModel(complaint *models.Complaint) *ComplaintDTO {
	return &ComplaintDTO{
		ID:          complaint.ID,
		ClientID:    complaint.ClientID,
		OrderID:     complaint.OrderID,
		DishID:      complaint.DishID,
		CookID:      complaint.CookID,
		Reason:      complaint.Reason,
		Description: complaint.Description,
		Status:      complaint.Status,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
}

func fromModels(rows []models.Complaint) []ComplaintDTO {
	items := make([]ComplaintDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items
}
