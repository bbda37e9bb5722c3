package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
)

// ReviewDTO is the JSON shape of a dish review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	ClientID  uuid.UUID `json:"client_id"`
	DishID    uuid.UUID `json:"dish_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitReviewRequest creates or overwrites the client's review of a dish.
type SubmitReviewRequest struct {
	DishID  string `json:"dish_id" validate:"required,uuid"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}

// FromModel maps a review row into the response shape.
func FromModel(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        review.ID,
		ClientID:  review.ClientID,
		DishID:    review.DishID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func fromModels(rows []models.Review) []ReviewDTO {
	items := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items
}
