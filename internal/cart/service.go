package cart

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

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type dishCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error)
}

// Service exposes the client cart operations. Every mutation returns the
// refreshed cart view.
type Service interface {
	Get(ctx context.Context, clientID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, clientID uuid.UUID, req AddItemRequest) (*CartDTO, error)
	UpdateItem(ctx context.Context, clientID, lineID uuid.UUID, req UpdateItemRequest) (*CartDTO, error)
	RemoveItem(ctx context.Context, clientID, lineID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, clientID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo   Repository
	dishes dishCatalog
	tx     txRunner
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, dishes dishCatalog, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if dishes == nil {
		return nil, fmt.Errorf("dish catalog required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, dishes: dishes, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, clientID uuid.UUID) (*CartDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	cart, err := s.repo.GetOrCreateByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return FromModel(cart), nil
}

func (s *service) AddItem(ctx context.Context, clientID uuid.UUID, req AddItemRequest) (*CartDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	dishID, err := uuid.Parse(strings.TrimSpace(req.DishID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "dish_id must be a valid uuid")
	}
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	dish, err := s.loadOrderableDish(ctx, dishID)
	if err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.GetOrCreateByClient(ctx, clientID)
		if err != nil {
			return err
		}

		line, err := txRepo.FindLineByDish(ctx, cart.ID, dishID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if line != nil {
			total := line.Quantity + req.Quantity
			if total > dish.Stock {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "requested quantity exceeds available stock")
			}
			return txRepo.UpdateLineQuantity(ctx, line.ID, total)
		}

		if req.Quantity > dish.Stock {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "requested quantity exceeds available stock")
		}
		return txRepo.CreateLine(ctx, &models.CartLine{
			CartID:         cart.ID,
			DishID:         dish.ID,
			Quantity:       req.Quantity,
			UnitPriceCents: dish.PriceCents,
			Note:           strings.TrimSpace(req.Note),
		})
	}); err != nil {
		return nil, wrapCartErr(err, "add cart line")
	}

	return s.Get(ctx, clientID)
}

func (s *service) UpdateItem(ctx context.Context, clientID, lineID uuid.UUID, req UpdateItemRequest) (*CartDTO, error) {
	if clientID == uuid.Nil || lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id and line id are required")
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be zero or positive")
	}
	quantity := *req.Quantity

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.GetOrCreateByClient(ctx, clientID)
		if err != nil {
			return err
		}

		line, err := txRepo.FindLine(ctx, cart.ID, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return err
		}

		if quantity == 0 {
			return txRepo.DeleteLine(ctx, line.ID)
		}

		dish, err := s.loadOrderableDish(ctx, line.DishID)
		if err != nil {
			return err
		}
		if quantity > dish.Stock {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "requested quantity exceeds available stock")
		}
		return txRepo.UpdateLineQuantity(ctx, line.ID, quantity)
	}); err != nil {
		return nil, wrapCartErr(err, "update cart line")
	}

	return s.Get(ctx, clientID)
}

func (s *service) RemoveItem(ctx context.Context, clientID, lineID uuid.UUID) (*CartDTO, error) {
	if clientID == uuid.Nil || lineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id and line id are required")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		cart, err := txRepo.GetOrCreateByClient(ctx, clientID)
		if err != nil {
			return err
		}

		line, err := txRepo.FindLine(ctx, cart.ID, lineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return err
		}
		return txRepo.DeleteLine(ctx, line.ID)
	}); err != nil {
		return nil, wrapCartErr(err, "remove cart line")
	}

	return s.Get(ctx, clientID)
}

func (s *service) Clear(ctx context.Context, clientID uuid.UUID) (*CartDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		cart, err := txRepo.GetOrCreateByClient(ctx, clientID)
		if err != nil {
			return err
		}
		return txRepo.ClearLines(ctx, cart.ID)
	}); err != nil {
		return nil, wrapCartErr(err, "clear cart")
	}

	return s.Get(ctx, clientID)
}

// loadOrderableDish resolves a dish that a client may order right now.
func (s *service) loadOrderableDish(ctx context.Context, dishID uuid.UUID) (*models.Dish, error) {
	dish, err := s.dishes.FindByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	if !dish.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dish not found")
	}
	if dish.Stock <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "dish is out of stock")
	}
	return dish, nil
}

func wrapCartErr(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
