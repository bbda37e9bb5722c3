package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// Repository exposes persistence helpers for dish reviews.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, review *models.Review) error
	FindByClientAndDish(ctx context.Context, clientID, dishID uuid.UUID) (*models.Review, error)
	ListByDish(ctx context.Context, dishID uuid.UUID) ([]models.Review, error)
	ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Review, error)
	ClientReceivedDish(ctx context.Context, clientID, dishID uuid.UUID) (bool, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a review repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Upsert(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "client_id"}, {Name: "dish_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).
		Create(review).Error
}

func (r *repositoryImpl) FindByClientAndDish(ctx context.Context, clientID, dishID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("client_id = ? AND dish_id = ?", clientID, dishID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *repositoryImpl) ListByDish(ctx context.Context, dishID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("dish_id = ?", dishID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Joins("JOIN dishes ON dishes.id = reviews.dish_id").
		Where("dishes.cook_id = ?", cookID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ClientReceivedDish reports whether the client has at least one delivered or
// completed order containing the dish.
func (r *repositoryImpl) ClientReceivedDish(ctx context.Context, clientID, dishID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_lines").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.client_id = ? AND order_lines.dish_id = ? AND orders.status IN ?",
			clientID, dishID, []enums.OrderStatus{enums.OrderStatusDelivered, enums.OrderStatusCompleted}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
