package dishes

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/money"
	"github.com/wakelni/wakelni-backend/pkg/pagination"
)

// Service defines dish catalog operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, dishID uuid.UUID, actorID uuid.UUID) (*DishDTO, error)
	Mine(ctx context.Context, cookID uuid.UUID) ([]DishDTO, error)
	Create(ctx context.Context, cookID uuid.UUID, req CreateDishRequest) (*DishDTO, error)
	Update(ctx context.Context, cookID, dishID uuid.UUID, req UpdateDishRequest) (*DishDTO, error)
	Delete(ctx context.Context, cookID, dishID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires dish catalog dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dishes repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := ListQuery{
		City:  params.City,
		Limit: params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListActive(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dishes")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: fromModels(rows), Cursor: cursor}, nil
}

func (s *service) Get(ctx context.Context, dishID uuid.UUID, actorID uuid.UUID) (*DishDTO, error) {
	if dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id required")
	}
	dish, err := s.repo.FindByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	// Inactive dishes stay visible to their owner.
	if !dish.IsActive && dish.CookID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
	}
	return FromModel(dish), nil
}

func (s *service) Mine(ctx context.Context, cookID uuid.UUID) ([]DishDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByCook(ctx, cookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cook dishes")
	}
	return fromModels(rows), nil
}

func (s *service) Create(ctx context.Context, cookID uuid.UUID, req CreateDishRequest) (*DishDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	priceCents, err := money.ParseCents(req.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	if priceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}

	dish := req.toModel(cookID, priceCents)
	if err := s.repo.Create(ctx, dish); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dish")
	}
	return FromModel(dish), nil
}

func (s *service) Update(ctx context.Context, cookID, dishID uuid.UUID, req UpdateDishRequest) (*DishDTO, error) {
	dish, err := s.ownedDish(ctx, cookID, dishID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Ingredients != nil {
		updates["ingredients"] = *req.Ingredients
	}
	if req.Price != nil {
		priceCents, err := money.ParseCents(*req.Price)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		if priceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_cents"] = priceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(*req.Tags)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = *req.PhotoURL
	}

	if err := s.repo.Update(ctx, dish.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dish")
	}

	fresh, err := s.repo.FindByID(ctx, dish.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload dish")
	}
	return FromModel(fresh), nil
}

func (s *service) Delete(ctx context.Context, cookID, dishID uuid.UUID) error {
	dish, err := s.ownedDish(ctx, cookID, dishID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, dish.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dish")
	}
	return nil
}

func (s *service) ownedDish(ctx context.Context, cookID, dishID uuid.UUID) (*models.Dish, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if dishID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish id required")
	}

	dish, err := s.repo.FindByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	if dish.CookID != cookID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "dish does not belong to cook")
	}
	return dish, nil
}
