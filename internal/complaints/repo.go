package complaints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wakelni/wakelni-backend/pkg/db/models"
	"github.com/wakelni/wakelni-backend/pkg/enums"
)

// Repository exposes persistence helpers for complaints.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, complaint *models.Complaint) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	Exists(ctx context.Context, clientID, orderID, dishID uuid.UUID) (bool, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Complaint, error)
	ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ComplaintStatus) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a complaint repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repositoryImpl) Exists(ctx context.Context, clientID, orderID, dishID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("client_id = ? AND order_id = ? AND dish_id = ?", clientID, orderID, dishID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.Complaint, error) {
	var rows []models.Complaint
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByCook(ctx context.Context, cookID uuid.UUID) ([]models.Complaint, error) {
	var rows []models.Complaint
	err := r.db.WithContext(ctx).
		Where("cook_id = ? OR EXISTS (SELECT 1 FROM order_lines ol JOIN dishes d ON d.id = ol.dish_id WHERE ol.order_id = complaints.order_id AND d.cook_id = ?)",
			cookID, cookID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ComplaintStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
