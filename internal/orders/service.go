package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, message string) error
}

// Service drives the order delivery lifecycle. Orders are created by the
// payments flow; here they only move forward through the status machine.
type Service interface {
	List(ctx context.Context, actorID uuid.UUID, role enums.UserRole, params ListParams) (*ListResult, error)
	Get(ctx context.Context, actorID uuid.UUID, role enums.UserRole, orderID uuid.UUID) (*OrderDTO, error)
	ChangeStatus(ctx context.Context, cookID, orderID uuid.UUID, req ChangeStatusRequest) (*OrderDTO, error)
	Cancel(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error)
	ConfirmReception(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error)
}

type service struct {
	repo          Repository
	tx            txRunner
	notifications notifier
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifications notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifications == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{repo: repo, tx: tx, notifications: notifications}, nil
}

func (s *service) List(ctx context.Context, actorID uuid.UUID, role enums.UserRole, params ListParams) (*ListResult, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	repoParams := ListQuery{Limit: params.Limit, Cursor: cursor}

	var (
		rows []models.Order
		next *pagination.Cursor
	)
	switch role {
	case enums.UserRoleCook:
		rows, next, err = s.repo.ListByCook(ctx, actorID, repoParams)
	default:
		rows, next, err = s.repo.ListByClient(ctx, actorID, repoParams)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	result := &ListResult{Items: fromModels(rows)}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, role enums.UserRole, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch role {
	case enums.UserRoleCook:
		owns, err := s.repo.CookOwnsOrderDish(ctx, orderID, actorID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order ownership")
		}
		if !owns {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	default:
		if order.ClientID != actorID {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
	}
	return FromModel(order), nil
}

// ChangeStatus advances an order one step through the cook-driven portion of
// the delivery flow and notifies the client.
func (s *service) ChangeStatus(ctx context.Context, cookID, orderID uuid.UUID, req ChangeStatusRequest) (*OrderDTO, error) {
	if cookID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cook id is required")
	}
	target, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	switch target {
	case enums.OrderStatusPreparing, enums.OrderStatusDelivering, enums.OrderStatusDelivered:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be preparing, delivering or delivered")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	owns, err := s.repo.CookOwnsOrderDish(ctx, orderID, cookID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check order ownership")
	}
	if !owns {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not contain any of your dishes")
	}

	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, orderID, target); err != nil {
			return err
		}
		return s.notifications.Notify(ctx, tx, order.ClientID,
			fmt.Sprintf("Your order is now %s.", target))
	}); err != nil {
		return nil, wrapOrderErr(err, "change order status")
	}

	return s.reload(ctx, orderID)
}

// Cancel aborts a pending order before payment confirmed it.
func (s *service) Cancel(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.ownedOrder(ctx, clientID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
	}

	// A pending order carries no lines yet; those materialize at payment
	// confirmation. No cook is bound to it, so there is nobody to notify.
	if err := s.repo.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled); err != nil {
		return nil, wrapOrderErr(err, "cancel order")
	}

	return s.reload(ctx, orderID)
}

// ConfirmReception lets the client close a delivered order.
func (s *service) ConfirmReception(ctx context.Context, clientID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.ownedOrder(ctx, clientID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusDelivered {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only delivered orders can be confirmed")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, orderID, enums.OrderStatusCompleted); err != nil {
			return err
		}
		cooks, err := s.repo.WithTx(tx).DistinctCooks(ctx, orderID)
		if err != nil {
			return err
		}
		for _, cookID := range cooks {
			if err := s.notifications.Notify(ctx, tx, cookID, "The client confirmed reception of an order."); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, wrapOrderErr(err, "confirm order reception")
	}

	return s.reload(ctx, orderID)
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ownedOrder(ctx context.Context, clientID, orderID uuid.UUID) (*models.Order, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != clientID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) reload(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func wrapOrderErr(err error, op string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
