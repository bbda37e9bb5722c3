package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/internal/cart"
	"github.com/wakelni/wakelni-backend/internal/dishes"
	"github.com/wakelni/wakelni-backend/internal/orders"
	"github.com/wakelni/wakelni-backend/pkg/config"
	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	stripeclient "github.com/wakelni/wakelni-backend/pkg/stripe"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, message string) error
}

type checkoutGateway interface {
	CreateCheckoutSession(ctx context.Context, in stripeclient.CheckoutSessionInput) (*stripeclient.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*stripeclient.CheckoutSession, error)
}

// Service owns the two-phase checkout flow: open a hosted session against the
// current cart, then commit stock, order lines and the payment row once the
// session reports paid.
type Service interface {
	CreateCheckoutSession(ctx context.Context, clientID uuid.UUID) (*CheckoutSessionResponse, error)
	Confirm(ctx context.Context, clientID uuid.UUID, req ConfirmRequest) (*ConfirmResponse, error)
}

type service struct {
	repo          Repository
	orderRepo     orders.Repository
	cartRepo      cart.Repository
	dishRepo      dishes.Repository
	gateway       checkoutGateway
	tx            txRunner
	notifications notifier
	checkout      config.CheckoutConfig
}

// ServiceParams bundles the stack the payment service runs on.
type ServiceParams struct {
	Repo          Repository
	OrderRepo     orders.Repository
	CartRepo      cart.Repository
	DishRepo      dishes.Repository
	Gateway       checkoutGateway
	Tx            txRunner
	Notifications notifier
	Checkout      config.CheckoutConfig
}

// NewService builds a payment service and validates its dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.DishRepo == nil {
		return nil, fmt.Errorf("dishes repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("checkout gateway required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		repo:          params.Repo,
		orderRepo:     params.OrderRepo,
		cartRepo:      params.CartRepo,
		dishRepo:      params.DishRepo,
		gateway:       params.Gateway,
		tx:            params.Tx,
		notifications: params.Notifications,
		checkout:      params.Checkout,
	}, nil
}

// CreateCheckoutSession opens a hosted session for the client's cart and
// records a pending order keyed by the session id. Stock and the cart are
// left untouched until the payment is confirmed.
func (s *service) CreateCheckoutSession(ctx context.Context, clientID uuid.UUID) (*CheckoutSessionResponse, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}

	clientCart, err := s.cartRepo.GetOrCreateByClient(ctx, clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(clientCart.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	lines := make([]stripeclient.CheckoutLine, 0, len(clientCart.Lines))
	total := 0
	for _, line := range clientCart.Lines {
		dish, err := s.loadDish(ctx, nil, line.DishID)
		if err != nil {
			return nil, err
		}
		total += line.SubtotalCents()
		lines = append(lines, stripeclient.CheckoutLine{
			Name:            dish.Name,
			UnitAmountCents: int64(line.UnitPriceCents),
			Quantity:        int64(line.Quantity),
		})
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripeclient.CheckoutSessionInput{
		ReferenceID: clientID.String(),
		SuccessURL:  s.checkout.SuccessURL,
		CancelURL:   s.checkout.CancelURL,
		Lines:       lines,
		Metadata:    map[string]string{"client_id": clientID.String()},
	})
	if err != nil {
		return nil, mapGatewayErr(err)
	}

	order := &models.Order{
		ClientID:          clientID,
		Status:            enums.OrderStatusPending,
		TotalCents:        total,
		CheckoutSessionID: &session.ID,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	return &CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
		OrderID:   order.ID.String(),
	}, nil
}

// Confirm settles a paid session. The first confirmation commits everything
// in one transaction; later calls just return the stored payment because the
// order status is the source of truth.
func (s *service) Confirm(ctx context.Context, clientID uuid.UUID, req ConfirmRequest) (*ConfirmResponse, error) {
	if clientID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "client id is required")
	}
	if req.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}

	session, err := s.gateway.GetCheckoutSession(ctx, req.SessionID)
	if err != nil {
		return nil, mapGatewayErr(err)
	}
	if !session.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment has not completed")
	}

	order, err := s.orderRepo.FindByCheckoutSession(ctx, session.ID, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found for session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status != enums.OrderStatusPending {
		payment, err := s.repo.FindByOrder(ctx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not payable")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		return &ConfirmResponse{Payment: FromModel(payment), OrderStatus: order.Status}, nil
	}

	var saved *models.Payment
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		dishRepo := s.dishRepo.WithTx(tx)

		clientCart, err := cartRepo.GetOrCreateByClient(ctx, clientID)
		if err != nil {
			return err
		}
		if len(clientCart.Lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		orderLines := make([]models.OrderLine, 0, len(clientCart.Lines))
		for _, line := range clientCart.Lines {
			dish, err := s.loadDish(ctx, tx, line.DishID)
			if err != nil {
				return err
			}
			orderLines = append(orderLines, models.OrderLine{
				OrderID:        order.ID,
				DishID:         line.DishID,
				DishName:       dish.Name,
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
				SubtotalCents:  line.SubtotalCents(),
			})
			if err := dishRepo.DecrementStock(ctx, line.DishID, line.Quantity); err != nil {
				return err
			}
		}
		if err := orderRepo.CreateLines(ctx, orderLines); err != nil {
			return err
		}
		if err := cartRepo.ClearLines(ctx, clientCart.ID); err != nil {
			return err
		}
		if err := orderRepo.UpdateStatus(ctx, order.ID, enums.OrderStatusPreparing); err != nil {
			return err
		}

		payment := &models.Payment{
			OrderID:        order.ID,
			AmountCents:    order.TotalCents,
			Status:         enums.PaymentStatusSuccess,
			Method:         enums.PaymentMethodCreditCard,
			TransactionRef: session.PaymentIntentID,
		}
		if err := s.repo.WithTx(tx).UpsertByOrder(ctx, payment); err != nil {
			return err
		}
		saved = payment

		cooks, err := orderRepo.DistinctCooks(ctx, order.ID)
		if err != nil {
			return err
		}
		for _, cookID := range cooks {
			if err := s.notifications.Notify(ctx, tx, cookID, "You received a new order."); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}

	return &ConfirmResponse{Payment: FromModel(saved), OrderStatus: enums.OrderStatusPreparing}, nil
}

func (s *service) loadDish(ctx context.Context, tx *gorm.DB, dishID uuid.UUID) (*models.Dish, error) {
	repo := s.dishRepo
	if tx != nil {
		repo = s.dishRepo.WithTx(tx)
	}
	dish, err := repo.FindByID(ctx, dishID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a dish in the cart is no longer available")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dish")
	}
	return dish, nil
}

// mapGatewayErr keeps Stripe's own rejection text for client errors and
// treats everything else as the gateway being unreachable.
func mapGatewayErr(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		msg := stripeErr.Msg
		if msg == "" {
			msg = "payment gateway rejected the request"
		}
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unavailable")
}
