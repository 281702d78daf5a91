package repository

import (
	"context"
	"time"

	"parcel-delivery-backend/internal/model"

	"gorm.io/gorm"
)

type ParcelRepository interface {
	Create(ctx context.Context, parcel *model.Parcel) error
	FindByID(ctx context.Context, parcelID string) (*model.Parcel, error)
	FindBySender(ctx context.Context, senderEmail string) ([]*model.Parcel, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, parcelID, trackingID string) error
	UpdateDelivery(ctx context.Context, parcelID, deliveryStatus, riderID string) error
	Delete(ctx context.Context, parcelID string) error
}

type parcelRepoImpl struct {
	db *gorm.DB
}

func NewParcelRepository(db *gorm.DB) ParcelRepository {
	return &parcelRepoImpl{
		db: db,
	}
}

func (r *parcelRepoImpl) Create(ctx context.Context, parcel *model.Parcel) error {
	return r.db.WithContext(ctx).Create(parcel).Error
}

func (r *parcelRepoImpl) FindByID(ctx context.Context, parcelID string) (*model.Parcel, error) {
	var parcel model.Parcel
	err := r.db.WithContext(ctx).
		Where("id = ?", parcelID).
		First(&parcel).Error

	if err != nil {
		return nil, err
	}

	return &parcel, nil
}

func (r *parcelRepoImpl) FindBySender(ctx context.Context, senderEmail string) ([]*model.Parcel, error) {
	var parcels []*model.Parcel
	err := r.db.WithContext(ctx).
		Where("sender_email = ?", senderEmail).
		Order("created_at DESC").
		Find(&parcels).Error

	if err != nil {
		return nil, err
	}

	return parcels, nil
}

func (r *parcelRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, parcelID, trackingID string) error {
	result := tx.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ?", parcelID).
		Updates(map[string]interface{}{
			"payment_status": model.PaymentStatusPaid,
			"tracking_id":    trackingID,
			"updated_at":     time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *parcelRepoImpl) UpdateDelivery(ctx context.Context, parcelID, deliveryStatus, riderID string) error {
	patch := map[string]interface{}{
		"delivery_status": deliveryStatus,
		"updated_at":      time.Now(),
	}
	if riderID != "" {
		patch["rider_id"] = riderID
	}

	result := r.db.WithContext(ctx).Model(&model.Parcel{}).
		Where("id = ?", parcelID).
		Updates(patch)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *parcelRepoImpl) Delete(ctx context.Context, parcelID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", parcelID).
		Delete(&model.Parcel{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
