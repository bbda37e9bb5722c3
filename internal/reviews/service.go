package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
)

// Service gates review submission on proof of purchase and serves the read
// surfaces for clients, visitors and cooks.
type Service interface {
	Submit(ctx context.Context, clientID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error)
	Mine(ctx context.Context, clientID, dishID uuid.UUID) (*ReviewDTO, error)
	ByDish(ctx context.Context, dishID uuid.UUID) ([]ReviewDTO, error)
	Received(ctx context.Context, cookID uuid.UUID) ([]ReviewDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a review service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

// Submit upserts the client's review of a dish. Resubmission overwrites the
// previous rating and comment.
func (s *service) Submit(ctx context.Context, clientID uuid.UUID, req SubmitReviewRequest) (*ReviewDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	dishID, err := uuid.Parse(strings.TrimSpace(req.DishID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish_id must be a valid uuid")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	received, err := s.repo.ClientReceivedDish(ctx, clientID, dishID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}
	if !received {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "you can only review dishes from delivered orders")
	}

	review := &models.Review{
		ClientID: clientID,
		DishID:   dishID,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save review")
	}

	saved, err := s.repo.FindByClientAndDish(ctx, clientID, dishID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload review")
	}
	return FromModel(saved), nil
}

// Mine returns the client's review for a dish, or not-found.
func (s *service) Mine(ctx context.Context, clientID, dishID uuid.UUID) (*ReviewDTO, error) {
	if clientID == uuid.Nil || dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id and dish id are required")
	}
	review, err := s.repo.FindByClientAndDish(ctx, clientID, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load review")
	}
	return FromModel(review), nil
}

// ByDish lists a dish's reviews newest first. Public surface.
func (s *service) ByDish(ctx context.Context, dishID uuid.UUID) ([]ReviewDTO, error) {
	if dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id is required")
	}
	rows, err := s.repo.ListByDish(ctx, dishID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return fromModels(rows), nil
}

// Received lists the reviews left across the cook's dishes.
func (s *service) Received(ctx context.Context, cookID uuid.UUID) ([]ReviewDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cook id is required")
	}
	rows, err := s.repo.ListByCook(ctx, cookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received reviews")
	}
	return fromModels(rows), nil
}
