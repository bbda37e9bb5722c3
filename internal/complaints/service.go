package complaints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, message string) error
}

type orderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CookOwnsOrderDish(ctx context.Context, orderID, cookID uuid.UUID) (bool, error)
	DishCook(ctx context.Context, dishID uuid.UUID) (uuid.UUID, error)
}

// Service files complaints against delivered food and lets the responsible
// cook work them through the complaint statuses.
type Service interface {
	Create(ctx context.Context, clientID uuid.UUID, req CreateComplaintRequest) (*ComplaintDTO, error)
	Mine(ctx context.Context, clientID uuid.UUID) ([]ComplaintDTO, error)
	Received(ctx context.Context, cookID uuid.UUID) ([]ComplaintDTO, error)
	ChangeStatus(ctx context.Context, cookID, complaintID uuid.UUID, req ChangeStatusRequest) (*ComplaintDTO, error)
}

type service struct {
	repo          Repository
	orders        orderStore
	tx            txRunner
	notifications notifier
}

// NewService builds a complaint service with the required dependencies.
func NewService(repo Repository, orders orderStore, tx txRunner, notifications notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, orders: orders, tx: tx, notifications: notifications}, nil
}

// Create files a complaint against one dish of the client's order. Without an
// explicit dish the order's first line is used.
func (s *service) Create(ctx context.Context, clientID uuid.UUID, req CreateComplaintRequest) (*ComplaintDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	orderID, err := uuid.Parse(strings.TrimSpace(req.OrderID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id must be a valid uuid")
	}
	reason, err := enums.ParseComplaintReason(req.Reason)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid complaint reason")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if len(order.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no lines to complain about")
	}

	dishID, err := s.resolveDish(order, req.DishID)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.Exists(ctx, clientID, orderID, dishID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing complaint")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a complaint for this dish and order already exists")
	}

	complaint := &models.Complaint{
		ClientID:    clientID,
		OrderID:     orderID,
		DishID:      &dishID,
		Reason:      reason,
		Description: strings.TrimSpace(req.Description),
		Status:      enums.ComplaintStatusOpen,
	}
	if cookID, err := s.orders.DishCook(ctx, dishID); err == nil {
		complaint.CookID = &cookID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve cook")
	}

	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
	}
	return FromModel(complaint), nil
}

// Mine lists the client's complaints, newest first.
func (s *service) Mine(ctx context.Context, clientID uuid.UUID) ([]ComplaintDTO, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	rows, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}
	return fromModels(rows), nil
}

// Received lists the complaints touching the cook's dishes.
func (s *service) Received(ctx context.Context, cookID uuid.UUID) ([]ComplaintDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cook id is required")
	}
	rows, err := s.repo.ListByCook(ctx, cookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list received complaints")
	}
	return fromModels(rows), nil
}

// ChangeStatus moves the complaint to any status of the enum and notifies
// the client. Complaint statuses carry no ordering.
func (s *service) ChangeStatus(ctx context.Context, cookID, complaintID uuid.UUID, req ChangeStatusRequest) (*ComplaintDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cook id is required")
	}
	status, err := enums.ParseComplaintStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid complaint status")
	}

	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}

	allowed := complaint.CookID != nil && *complaint.CookID == cookID
	if !allowed {
		owns, err := s.orders.CookOwnsOrderDish(ctx, complaint.OrderID, cookID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check complaint ownership")
		}
		allowed = owns
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "complaint does not concern any of your dishes")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, complaintID, status); err != nil {
			return err
		}
		return s.notifications.Notify(ctx, tx, complaint.ClientID,
			fmt.Sprintf("Your complaint is now %s.", status))
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change complaint status")
	}

	complaint.Status = status
	return FromModel(complaint), nil
}

func (s *service) resolveDish(order *models.Order, rawDishID string) (uuid.UUID, error) {
	raw := strings.TrimSpace(rawDishID)
	if raw == "" {
		return order.Lines[0].DishID, nil
	}
	dishID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dish_id must be a valid uuid")
	}
	for _, line := range order.Lines {
		if line.DishID == dishID {
			return dishID, nil
		}
	}
	return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "dish does not appear in the order")
}
