package repository

import (
	"context"
	"time"

	"parcel-delivery-backend/internal/model"

	"gorm.io/gorm"
)

type RiderRepository interface {
	Create(ctx context.Context, rider *model.Rider) error
	FindByID(ctx context.Context, riderID string) (*model.Rider, error)
	FindByStatus(ctx context.Context, status string) ([]*model.Rider, error)
	UpdateStatus(ctx context.Context, riderID, status string) error
}

type riderRepoImpl struct {
	db *gorm.DB
}

func NewRiderRepository(db *gorm.DB) RiderRepository {
	return &riderRepoImpl{
		db: db,
	}
}

func (r *riderRepoImpl) Create(ctx context.Context, rider *model.Rider) error {
	return r.db.WithContext(ctx).Create(rider).Error
}

func (r *riderRepoImpl) FindByID(ctx context.Context, riderID string) (*model.Rider, error) {
	var rider model.Rider
	err := r.db.WithContext(ctx).
		Where("id = ?", riderID).
		First(&rider).Error

	if err != nil {
		return nil, err
	}

	return &rider, nil
}

func (r *riderRepoImpl) FindByStatus(ctx context.Context, status string) ([]*model.Rider, error) {
	var riders []*model.Rider
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&riders).Error; err != nil {
		return nil, err
	}

	return riders, nil
}

func (r *riderRepoImpl) UpdateStatus(ctx context.Context, riderID, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Rider{}).
		Where("id = ?", riderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
