package dishes

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	paginationpkg "github.com/wakelni/wakelni-backend/pkg/pagination"
)

type fakeRepository struct {
	dishes  map[uuid.UUID]*models.Dish
	deleted []uuid.UUID
	listFn  func(ctx context.Context, params ListQuery) ([]models.Dish, *paginationpkg.Cursor, error)
}

func newFakeRepository(existing ...*models.Dish) *fakeRepository {
	repo := &fakeRepository{dishes: map[uuid.UUID]*models.Dish{}}
	for _, dish := range existing {
		repo.dishes[dish.ID] = dish
	}
	return repo
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, dish *models.Dish) error {
	dish.ID = uuid.New()
	dish.CreatedAt = time.Now()
	f.dishes[dish.ID] = dish
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dish, error) {
	if dish, ok := f.dishes[id]; ok {
		copied := *dish
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) ListActive(ctx context.Context, params ListQuery) ([]models.Dish, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	var rows []models.Dish
	for _, dish := range f.dishes {
		if dish.IsActive {
			rows = append(rows, *dish)
		}
	}
	return rows, nil, nil
}

func (f *fakeRepository) ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Dish, error) {
	var rows []models.Dish
	for _, dish := range f.dishes {
		if dish.CookID == cookID {
			rows = append(rows, *dish)
		}
	}
	return rows, nil
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	dish, ok := f.dishes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		dish.Name = v.(string)
	}
	if v, ok := updates["price_cents"]; ok {
		dish.PriceCents = v.(int)
	}
	if v, ok := updates["stock"]; ok {
		dish.Stock = v.(int)
	}
	if v, ok := updates["is_active"]; ok {
		dish.IsActive = v.(bool)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.dishes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if dish, ok := f.dishes[id]; ok {
		dish.Stock -= qty
		if dish.Stock < 0 {
			dish.Stock = 0
		}
	}
	return nil
}

func newServiceWithRepo(repo Repository) Service {
	svc, _ := NewService(repo)
	return svc
}

func TestServiceCreateParsesDecimalPrice(t *testing.T) {
	repo := newFakeRepository()
	svc := newServiceWithRepo(repo)
	cookID := uuid.New()

	dto, err := svc.Create(context.Background(), cookID, CreateDishRequest{
		Name:  "Couscous royal",
		Price: "15.50",
		Stock: 4,
		Tags:  []string{"maghreb", "halal"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.PriceCents != 1550 {
		t.Fatalf("expected 1550 cents, got %d", dto.PriceCents)
	}
	if dto.Price != "15.50" {
		t.Fatalf("expected formatted price 15.50, got %s", dto.Price)
	}
	if !dto.IsActive {
		t.Fatal("new dishes must be active")
	}
	if dto.CookID != cookID {
		t.Fatalf("unexpected cook %s", dto.CookID)
	}
}

func TestServiceCreateRejectsBadPrice(t *testing.T) {
	svc := newServiceWithRepo(newFakeRepository())

	for _, price := range []string{"", "abc", "-3.00", "1.999", "0"} {
		_, err := svc.Create(context.Background(), uuid.New(), CreateDishRequest{Name: "x", Price: price})
		if err == nil {
			t.Fatalf("expected error for price %q", price)
		}
		if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", price, err)
		}
	}
}

func TestServiceGetHidesInactiveFromOthers(t *testing.T) {
	cookID := uuid.New()
	dish := &models.Dish{ID: uuid.New(), CookID: cookID, Name: "Tajine", PriceCents: 1200, IsActive: false}
	svc := newServiceWithRepo(newFakeRepository(dish))

	if _, err := svc.Get(context.Background(), dish.ID, uuid.New()); err == nil {
		t.Fatal("expected not found for non-owner")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	got, err := svc.Get(context.Background(), dish.ID, cookID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.ID != dish.ID {
		t.Fatalf("unexpected dish %s", got.ID)
	}
}

func TestServiceUpdateGuardsOwnership(t *testing.T) {
	cookID := uuid.New()
	dish := &models.Dish{ID: uuid.New(), CookID: cookID, Name: "Harira", PriceCents: 800, IsActive: true}
	repo := newFakeRepository(dish)
	svc := newServiceWithRepo(repo)

	name := "Harira maison"
	if _, err := svc.Update(context.Background(), uuid.New(), dish.ID, UpdateDishRequest{Name: &name}); err == nil {
		t.Fatal("expected forbidden for stranger")
	} else if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), cookID, dish.ID, UpdateDishRequest{Name: &name})
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}
}

func TestServiceUpdatePriceRevalidated(t *testing.T) {
	cookID := uuid.New()
	dish := &models.Dish{ID: uuid.New(), CookID: cookID, Name: "Msemen", PriceCents: 500, IsActive: true}
	svc := newServiceWithRepo(newFakeRepository(dish))

	bad := "0.001"
	if _, err := svc.Update(context.Background(), cookID, dish.ID, UpdateDishRequest{Price: &bad}); err == nil {
		t.Fatal("expected validation error")
	}

	good := "6.25"
	updated, err := svc.Update(context.Background(), cookID, dish.ID, UpdateDishRequest{Price: &good})
	if err != nil {
		t.Fatalf("update price: %v", err)
	}
	if updated.PriceCents != 625 {
		t.Fatalf("expected 625 cents, got %d", updated.PriceCents)
	}
}

func TestServiceDeleteGuardsOwnership(t *testing.T) {
	cookID := uuid.New()
	dish := &models.Dish{ID: uuid.New(), CookID: cookID, Name: "Brik", PriceCents: 400, IsActive: true}
	repo := newFakeRepository(dish)
	svc := newServiceWithRepo(repo)

	if err := svc.Delete(context.Background(), uuid.New(), dish.ID); err == nil {
		t.Fatal("expected forbidden")
	}
	if err := svc.Delete(context.Background(), cookID, dish.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatalf("expected 1 deletion, got %d", len(repo.deleted))
	}
}

func TestServiceListInvalidCursor(t *testing.T) {
	svc := newServiceWithRepo(newFakeRepository())
	if _, err := svc.List(context.Background(), ListParams{Cursor: "zzz"}); err == nil {
		t.Fatal("expected validation error for bad cursor")
	}
}

func TestServiceListForwardsFiltersAndCursor(t *testing.T) {
	next := paginationpkg.Cursor{CreatedAt: time.Now(), ID: uuid.New()}
	repo := newFakeRepository()
	repo.listFn = func(ctx context.Context, params ListQuery) ([]models.Dish, *paginationpkg.Cursor, error) {
		if params.City != "montreal" {
			t.Fatalf("expected city filter, got %q", params.City)
		}
		return []models.Dish{{ID: uuid.New(), IsActive: true}}, &next, nil
	}
	svc := newServiceWithRepo(repo)

	result, err := svc.List(context.Background(), ListParams{City: "montreal", Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Cursor == "" {
		t.Fatal("expected next cursor")
	}
}
