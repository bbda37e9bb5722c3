package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/pagination"
)

type fakeRepository struct {
	orders    map[uuid.UUID]*models.Order
	dishCooks map[uuid.UUID]uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:    map[uuid.UUID]*models.Order{},
		dishCooks: map[uuid.UUID]uuid.UUID{},
	}
}

func (f *fakeRepository) addOrder(order *models.Order) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.orders[order.ID] = order
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, order *models.Order) error {
	f.addOrder(order)
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindByCheckoutSession(ctx context.Context, sessionID string, clientID uuid.UUID) (*models.Order, error) {
	for _, order := range f.orders {
		if order.CheckoutSessionID != nil && *order.CheckoutSessionID == sessionID && order.ClientID == clientID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListByClient(ctx context.Context, clientID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	var rows []models.Order
	for _, order := range f.orders {
		if order.ClientID == clientID {
			rows = append(rows, *order)
		}
	}
	return rows, nil, nil
}

func (f *fakeRepository) ListByCook(ctx context.Context, cookID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	var rows []models.Order
	for _, order := range f.orders {
		for _, line := range order.Lines {
			if f.dishCooks[line.DishID] == cookID {
				rows = append(rows, *order)
				break
			}
		}
	}
	return rows, nil, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if order, ok := f.orders[id]; ok {
		order.Status = status
	}
	return nil
}

func (f *fakeRepository) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	for _, line := range lines {
		if order, ok := f.orders[line.OrderID]; ok {
			order.Lines = append(order.Lines, line)
		}
	}
	return nil
}

func (f *fakeRepository) CookOwnsOrderDish(ctx context.Context, orderID, cookID uuid.UUID) (bool, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return false, nil
	}
	for _, line := range order.Lines {
		if f.dishCooks[line.DishID] == cookID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) DishCook(ctx context.Context, dishID uuid.UUID) (uuid.UUID, error) {
	if cookID, ok := f.dishCooks[dishID]; ok {
		return cookID, nil
	}
	return uuid.Nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) DistinctCooks(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	order, ok := f.orders[orderID]
	if !ok {
		return nil, nil
	}
	seen := map[uuid.UUID]bool{}
	var cooks []uuid.UUID
	for _, line := range order.Lines {
		cookID := f.dishCooks[line.DishID]
		if cookID != uuid.Nil && !seen[cookID] {
			seen[cookID] = true
			cooks = append(cooks, cookID)
		}
	}
	return cooks, nil
}

type sentNotification struct {
	RecipientID uuid.UUID
	Message     string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, message string) error {
	f.sent = append(f.sent, sentNotification{RecipientID: recipientID, Message: message})
	return nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func seedOrder(repo *fakeRepository, clientID, cookID uuid.UUID, status enums.OrderStatus) *models.Order {
	dishID := uuid.New()
	repo.dishCooks[dishID] = cookID
	order := &models.Order{
		ID:         uuid.New(),
		ClientID:   clientID,
		Status:     status,
		TotalCents: 1500,
		Lines: []models.OrderLine{{
			ID:             uuid.New(),
			DishID:         dishID,
			DishName:       "Couscous",
			Quantity:       1,
			UnitPriceCents: 1500,
			SubtotalCents:  1500,
		}},
		CreatedAt: time.Now(),
	}
	order.Lines[0].OrderID = order.ID
	repo.addOrder(order)
	return order
}

func newOrderService(repo Repository, notifier *fakeNotifier) Service {
	svc, _ := NewService(repo, fakeTxRunner{}, notifier)
	return svc
}

func TestServiceListScopesByRole(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	cookID := uuid.New()
	seedOrder(repo, clientID, cookID, enums.OrderStatusPreparing)
	seedOrder(repo, uuid.New(), uuid.New(), enums.OrderStatusPreparing)

	svc := newOrderService(repo, &fakeNotifier{})

	clientPage, err := svc.List(context.Background(), clientID, enums.UserRoleClient, ListParams{})
	if err != nil {
		t.Fatalf("client list: %v", err)
	}
	if len(clientPage.Items) != 1 {
		t.Fatalf("expected 1 client order, got %d", len(clientPage.Items))
	}

	cookPage, err := svc.List(context.Background(), cookID, enums.UserRoleCook, ListParams{})
	if err != nil {
		t.Fatalf("cook list: %v", err)
	}
	if len(cookPage.Items) != 1 {
		t.Fatalf("expected 1 cook order, got %d", len(cookPage.Items))
	}
	if len(cookPage.Items[0].Lines) != 1 {
		t.Fatal("expected lines included")
	}
}

func TestServiceChangeStatusAdvancesAndNotifies(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	cookID := uuid.New()
	order := seedOrder(repo, clientID, cookID, enums.OrderStatusPreparing)
	notifier := &fakeNotifier{}
	svc := newOrderService(repo, notifier)

	updated, err := svc.ChangeStatus(context.Background(), cookID, order.ID, ChangeStatusRequest{Status: "delivering"})
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != enums.OrderStatusDelivering {
		t.Fatalf("expected delivering, got %s", updated.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].RecipientID != clientID {
		t.Fatalf("expected client notification, got %+v", notifier.sent)
	}
	if !strings.Contains(notifier.sent[0].Message, "delivering") {
		t.Fatalf("expected status in message, got %q", notifier.sent[0].Message)
	}
}

func TestServiceChangeStatusRejectsJumps(t *testing.T) {
	repo := newFakeRepository()
	cookID := uuid.New()
	order := seedOrder(repo, uuid.New(), cookID, enums.OrderStatusPreparing)
	svc := newOrderService(repo, &fakeNotifier{})

	_, err := svc.ChangeStatus(context.Background(), cookID, order.ID, ChangeStatusRequest{Status: "delivered"})
	if err == nil {
		t.Fatal("expected jump rejection")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceChangeStatusRequiresOwningCook(t *testing.T) {
	repo := newFakeRepository()
	order := seedOrder(repo, uuid.New(), uuid.New(), enums.OrderStatusPreparing)
	svc := newOrderService(repo, &fakeNotifier{})

	_, err := svc.ChangeStatus(context.Background(), uuid.New(), order.ID, ChangeStatusRequest{Status: "delivering"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestServiceChangeStatusRejectsTerminalTargets(t *testing.T) {
	repo := newFakeRepository()
	cookID := uuid.New()
	order := seedOrder(repo, uuid.New(), cookID, enums.OrderStatusDelivered)
	svc := newOrderService(repo, &fakeNotifier{})

	for _, status := range []string{"completed", "cancelled", "pending"} {
		_, err := svc.ChangeStatus(context.Background(), cookID, order.ID, ChangeStatusRequest{Status: status})
		if err == nil {
			t.Fatalf("expected rejection for %s", status)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %s, got %v", status, err)
		}
	}
}

func TestServiceCancelOnlyFromPending(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	cookID := uuid.New()
	pending := seedOrder(repo, clientID, cookID, enums.OrderStatusPending)
	preparing := seedOrder(repo, clientID, cookID, enums.OrderStatusPreparing)
	notifier := &fakeNotifier{}
	svc := newOrderService(repo, notifier)

	cancelled, err := svc.Cancel(context.Background(), clientID, pending.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	// Nothing to notify: a pending order has no lines until payment is
	// confirmed, so no cook is attached to it yet.
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no notifications on cancel, got %+v", notifier.sent)
	}

	_, err = svc.Cancel(context.Background(), clientID, preparing.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceCancelRequiresOwner(t *testing.T) {
	repo := newFakeRepository()
	order := seedOrder(repo, uuid.New(), uuid.New(), enums.OrderStatusPending)
	svc := newOrderService(repo, &fakeNotifier{})

	_, err := svc.Cancel(context.Background(), uuid.New(), order.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func TestServiceConfirmReceptionCompletesOrder(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	cookID := uuid.New()
	delivered := seedOrder(repo, clientID, cookID, enums.OrderStatusDelivered)
	notifier := &fakeNotifier{}
	svc := newOrderService(repo, notifier)

	completed, err := svc.ConfirmReception(context.Background(), clientID, delivered.ID)
	if err != nil {
		t.Fatalf("confirm reception: %v", err)
	}
	if completed.Status != enums.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].RecipientID != cookID {
		t.Fatalf("expected cook notification, got %+v", notifier.sent)
	}

	_, err = svc.ConfirmReception(context.Background(), clientID, delivered.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on re-confirm, got %v", err)
	}
}

func TestServiceConfirmReceptionOnlyFromDelivered(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	order := seedOrder(repo, clientID, uuid.New(), enums.OrderStatusDelivering)
	svc := newOrderService(repo, &fakeNotifier{})

	_, err := svc.ConfirmReception(context.Background(), clientID, order.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestServiceGetScopesVisibility(t *testing.T) {
	repo := newFakeRepository()
	clientID := uuid.New()
	cookID := uuid.New()
	order := seedOrder(repo, clientID, cookID, enums.OrderStatusPreparing)
	svc := newOrderService(repo, &fakeNotifier{})

	if _, err := svc.Get(context.Background(), clientID, enums.UserRoleClient, order.ID); err != nil {
		t.Fatalf("client get: %v", err)
	}
	if _, err := svc.Get(context.Background(), cookID, enums.UserRoleCook, order.ID); err != nil {
		t.Fatalf("cook get: %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleClient, order.ID); err == nil {
		t.Fatal("expected not found for stranger")
	}
	if _, err := svc.Get(context.Background(), uuid.New(), enums.UserRoleCook, order.ID); err == nil {
		t.Fatal("expected not found for non-owning cook")
	}
}
