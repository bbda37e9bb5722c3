package complaints

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
)

type fakeRepository struct {
	complaints map[uuid.UUID]*models.Complaint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{complaints: map[uuid.UUID]*models.Complaint{}}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	complaint.ID = uuid.New()
	complaint.CreatedAt = time.Now()
	f.complaints[complaint.ID] = complaint
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	if complaint, ok := f.complaints[id]; ok {
		copied := *complaint
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Exists(ctx context.Context, clientID, orderID, dishID uuid.UUID) (bool, error) {
	for _, complaint := range f.complaints {
		if complaint.ClientID == clientID && complaint.OrderID == orderID &&
			complaint.DishID != nil && *complaint.DishID == dishID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Complaint, error) {
	var rows []models.Complaint
	for _, complaint := range f.complaints {
		if complaint.ClientID == clientID {
			rows = append(rows, *complaint)
		}
	}
	return rows, nil
}

func (f *fakeRepository) ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Complaint, error) {
	var rows []models.Complaint
	for _, complaint := range f.complaints {
		if complaint.CookID != nil && *complaint.CookID == cookID {
			rows = append(rows, *complaint)
		}
	}
	return rows, nil
}

func (f *fakeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ComplaintStatus) error {
	if complaint, ok := f.complaints[id]; ok {
		complaint.Status = status
	}
	return nil
}

type fakeOrderStore struct {
	orders    map[uuid.UUID]*models.Order
	dishCooks map[uuid.UUID]uuid.UUID
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[uuid.UUID]*models.Order{}, dishCooks: map[uuid.UUID]uuid.UUID{}}
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := f.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderStore) CookOwnsOrderDish(ctx context.Context, orderID, cookID uuid.UUID) (bool, error) {
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

func (f *fakeOrderStore) DishCook(ctx context.Context, dishID uuid.UUID) (uuid.UUID, error) {
	if cookID, ok := f.dishCooks[dishID]; ok {
		return cookID, nil
	}
	return uuid.Nil, gorm.ErrRecordNotFound
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

type complaintFixture struct {
	svc      Service
	repo     *fakeRepository
	orders   *fakeOrderStore
	notifier *fakeNotifier
	clientID uuid.UUID
	cookID   uuid.UUID
	order    *models.Order
	dishA    uuid.UUID
	dishB    uuid.UUID
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()

	repo := newFakeRepository()
	orderStore := newFakeOrderStore()
	notifier := &fakeNotifier{}

	clientID := uuid.New()
	cookID := uuid.New()
	dishA := uuid.New()
	dishB := uuid.New()
	orderStore.dishCooks[dishA] = cookID
	orderStore.dishCooks[dishB] = cookID

	order := &models.Order{
		ID:       uuid.New(),
		ClientID: clientID,
		Status:   enums.OrderStatusDelivered,
		Lines: []models.OrderLine{
			{ID: uuid.New(), DishID: dishA, DishName: "Couscous", Quantity: 1, UnitPriceCents: 1500, SubtotalCents: 1500},
			{ID: uuid.New(), DishID: dishB, DishName: "Harira", Quantity: 1, UnitPriceCents: 700, SubtotalCents: 700},
		},
	}
	orderStore.orders[order.ID] = order

	svc, err := NewService(repo, orderStore, fakeTxRunner{}, notifier)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &complaintFixture{
		svc:      svc,
		repo:     repo,
		orders:   orderStore,
		notifier: notifier,
		clientID: clientID,
		cookID:   cookID,
		order:    order,
		dishA:    dishA,
		dishB:    dishB,
	}
}

func TestServiceCreateDefaultsToFirstLine(t *testing.T) {
	f := newComplaintFixture(t)

	complaint, err := f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID:     f.order.ID.String(),
		Reason:      "dish_quality",
		Description: "arrived cold",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if complaint.DishID == nil || *complaint.DishID != f.dishA {
		t.Fatalf("expected first line dish, got %v", complaint.DishID)
	}
	if complaint.CookID == nil || *complaint.CookID != f.cookID {
		t.Fatalf("expected cook resolved, got %v", complaint.CookID)
	}
	if complaint.Status != enums.ComplaintStatusOpen {
		t.Fatalf("expected open, got %s", complaint.Status)
	}
}

func TestServiceCreateWithExplicitDish(t *testing.T) {
	f := newComplaintFixture(t)

	complaint, err := f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "order_error",
		DishID:  f.dishB.String(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if complaint.DishID == nil || *complaint.DishID != f.dishB {
		t.Fatalf("expected explicit dish, got %v", complaint.DishID)
	}

	_, err = f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "other",
		DishID:  uuid.NewString(),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for foreign dish, got %v", err)
	}
}

func TestServiceCreateDuplicateConflicts(t *testing.T) {
	f := newComplaintFixture(t)

	req := CreateComplaintRequest{OrderID: f.order.ID.String(), Reason: "delivery_delay", DishID: f.dishA.String()}
	if _, err := f.svc.Create(context.Background(), f.clientID, req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := f.svc.Create(context.Background(), f.clientID, req)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestServiceCreateRequiresOwnOrder(t *testing.T) {
	f := newComplaintFixture(t)

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "other",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func TestServiceChangeStatusNotifiesClient(t *testing.T) {
	f := newComplaintFixture(t)

	complaint, err := f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "dish_quality",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.svc.ChangeStatus(context.Background(), f.cookID, complaint.ID, ChangeStatusRequest{Status: "resolved"})
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if updated.Status != enums.ComplaintStatusResolved {
		t.Fatalf("expected resolved, got %s", updated.Status)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].RecipientID != f.clientID {
		t.Fatalf("expected client notification, got %+v", f.notifier.sent)
	}
	if !strings.Contains(f.notifier.sent[0].Message, "resolved") {
		t.Fatalf("expected status in message, got %q", f.notifier.sent[0].Message)
	}

	// No ordering between complaint statuses: moving back is fine.
	updated, err = f.svc.ChangeStatus(context.Background(), f.cookID, complaint.ID, ChangeStatusRequest{Status: "open"})
	if err != nil {
		t.Fatalf("move back: %v", err)
	}
	if updated.Status != enums.ComplaintStatusOpen {
		t.Fatalf("expected open, got %s", updated.Status)
	}
}

func TestServiceChangeStatusGuardsCook(t *testing.T) {
	f := newComplaintFixture(t)

	complaint, err := f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "other",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = f.svc.ChangeStatus(context.Background(), uuid.New(), complaint.ID, ChangeStatusRequest{Status: "read"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = f.svc.ChangeStatus(context.Background(), f.cookID, complaint.ID, ChangeStatusRequest{Status: "escalated"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for bad status, got %v", err)
	}
}

func TestServiceMineAndReceived(t *testing.T) {
	f := newComplaintFixture(t)

	if _, err := f.svc.Create(context.Background(), f.clientID, CreateComplaintRequest{
		OrderID: f.order.ID.String(),
		Reason:  "dish_quality",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := f.svc.Mine(context.Background(), f.clientID)
	if err != nil {
		t.Fatalf("mine: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 complaint, got %d", len(mine))
	}

	received, err := f.svc.Received(context.Background(), f.cookID)
	if err != nil {
		t.Fatalf("received: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected 1 received complaint, got %d", len(received))
	}

	other, err := f.svc.Received(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("other received: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected none for other cook, got %d", len(other))
	}
}
