//go:build db
// +build db

package complaints

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("WAKELNI_DB_DSN")
	if dsn == "" {
		t.Skip("WAKELNI_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func mustCreateTestUser(t *testing.T, tx *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	hash := "hash"
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("wk_test_%s@example.com", uuid.NewString()),
		PasswordHash: &hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateTestOrder(t *testing.T, tx *gorm.DB, clientID uuid.UUID) *models.Order {
	t.Helper()
	order := &models.Order{
		ClientID:   clientID,
		Status:     enums.OrderStatusDelivered,
		TotalCents: 1200,
	}
	if err := tx.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func TestRepositoryComplaintFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	client := mustCreateTestUser(t, tx, enums.UserRoleClient)
	cook := mustCreateTestUser(t, tx, enums.UserRoleCook)
	order := mustCreateTestOrder(t, tx, client.ID)

	dish := &models.Dish{
		ID:         uuid.New(),
		CookID:     cook.ID,
		Name:       "Harira",
		PriceCents: 900,
		Stock:      3,
		City:       "Montreal",
		IsActive:   true,
	}
	if err := tx.Create(dish).Error; err != nil {
		t.Fatalf("create dish: %v", err)
	}

	complaint := &models.Complaint{
		ClientID:    client.ID,
		OrderID:     order.ID,
		DishID:      &dish.ID,
		CookID:      &cook.ID,
		Reason:      enums.ComplaintReasonDishQuality,
		Description: "arrived cold",
		Status:      enums.ComplaintStatusOpen,
	}
	if err := repo.Create(ctx, complaint); err != nil {
		t.Fatalf("create complaint: %v", err)
	}

	exists, err := repo.Exists(ctx, client.ID, order.ID, dish.ID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("expected complaint to exist for (client, order, dish)")
	}

	mine, err := repo.ListByClient(ctx, client.ID)
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 complaint, got %d", len(mine))
	}

	if err := repo.UpdateStatus(ctx, complaint.ID, enums.ComplaintStatusResolved); err != nil {
		t.Fatalf("update status: %v", err)
	}
	reloaded, err := repo.FindByID(ctx, complaint.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if reloaded.Status != enums.ComplaintStatusResolved {
		t.Fatalf("expected resolved status, got %s", reloaded.Status)
	}
}

func TestRepositoryComplaintAllowsNilDish(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()

	client := mustCreateTestUser(t, tx, enums.UserRoleClient)
	order := mustCreateTestOrder(t, tx, client.ID)

	// dish_id is nullable; a complaint can be filed before the dish is
	// resolved to a catalog row.
	complaint := &models.Complaint{
		ClientID:    client.ID,
		OrderID:     order.ID,
		Reason:      enums.ComplaintReasonOther,
		Description: "order never arrived",
		Status:      enums.ComplaintStatusOpen,
	}
	if err := repo.Create(ctx, complaint); err != nil {
		t.Fatalf("create complaint without dish: %v", err)
	}

	reloaded, err := repo.FindByID(ctx, complaint.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if reloaded.DishID != nil {
		t.Fatalf("expected nil dish id, got %v", reloaded.DishID)
	}
}
