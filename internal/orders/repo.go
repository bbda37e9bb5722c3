package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
	"github.com/wakelni/wakelni-backend/pkg/pagination"
)

// Repository exposes persistence helpers for orders and their line snapshots.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByCheckoutSession(ctx context.Context, sessionID string, clientID uuid.UUID) (*models.Order, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error)
	ListByCook(ctx context.Context, cookID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	CreateLines(ctx context.Context, lines []models.OrderLine) error
	CookOwnsOrderDish(ctx context.Context, orderID, cookID uuid.UUID) (bool, error)
	DishCook(ctx context.Context, dishID uuid.UUID) (uuid.UUID, error)
	DistinctCooks(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an order repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// ListQuery pages the order listings at the repository level.
type ListQuery struct {
	Limit  int
	Cursor *pagination.Cursor
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payment").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) FindByCheckoutSession(ctx context.Context, sessionID string, clientID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Payment").
		Where("checkout_session_id = ? AND client_id = ?", sessionID, clientID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repositoryImpl) ListByClient(ctx context.Context, clientID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("client_id = ?", clientID)
	return r.listPage(ctx, query, params)
}

func (r *repositoryImpl) ListByCook(ctx context.Context, cookID uuid.UUID, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("EXISTS (SELECT 1 FROM order_lines ol JOIN dishes d ON d.id = ol.dish_id WHERE ol.order_id = orders.id AND d.cook_id = ?)", cookID)
	return r.listPage(ctx, query, params)
}

func (r *repositoryImpl) listPage(ctx context.Context, query *gorm.DB, params ListQuery) ([]models.Order, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Order
	if err := query.Preload("Lines").Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		next := rows[normalized]
		rows = rows[:normalized]
		return rows, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return rows, nil, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *repositoryImpl) CreateLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *repositoryImpl) CookOwnsOrderDish(ctx context.Context, orderID, cookID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_lines").
		Joins("JOIN dishes ON dishes.id = order_lines.dish_id").
		Where("order_lines.order_id = ? AND dishes.cook_id = ?", orderID, cookID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) DishCook(ctx context.Context, dishID uuid.UUID) (uuid.UUID, error) {
	var dish models.Dish
	err := r.db.WithContext(ctx).
		Select("cook_id").
		Where("id = ?", dishID).
		First(&dish).Error
	if err != nil {
		return uuid.Nil, err
	}
	return dish.CookID, nil
}

func (r *repositoryImpl) DistinctCooks(ctx context.Context, orderID uuid.UUID) ([]uuid.UUID, error) {
	var cooks []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("order_lines").
		Joins("JOIN dishes ON dishes.id = order_lines.dish_id").
		Where("order_lines.order_id = ?", orderID).
		Distinct("dishes.cook_id").
		Pluck("dishes.cook_id", &cooks).Error
	if err != nil {
		return nil, err
	}
	return cooks, nil
}
