package service

import (
	"context"
	"errors"

	"parcel-delivery-backend/internal/apperr"
	"parcel-delivery-backend/internal/dto"
	"parcel-delivery-backend/internal/model"
	"parcel-delivery-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var deliveryTransitions = map[string]bool{
	model.DeliveryStatusPending:   true,
	model.DeliveryStatusAssigned:  true,
	model.DeliveryStatusInTransit: true,
	model.DeliveryStatusDelivered: true,
}

type ParcelService interface {
	BookParcel(ctx context.Context, req *dto.BookParcelRequest) (*model.Parcel, error)
	GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error)
	GetParcelsBySender(ctx context.Context, senderEmail string) ([]*model.Parcel, error)
	UpdateDelivery(ctx context.Context, parcelID string, req *dto.UpdateParcelRequest) error
	DeleteParcel(ctx context.Context, parcelID, requesterEmail string) error
}

type parcelServiceImpl struct {
	parcelRepo repository.ParcelRepository
	riderRepo  repository.RiderRepository
}

func NewParcelService(
	parcelRepo repository.ParcelRepository,
	riderRepo repository.RiderRepository,
) ParcelService {
	return &parcelServiceImpl{
		parcelRepo: parcelRepo,
		riderRepo:  riderRepo,
	}
}

func (s *parcelServiceImpl) BookParcel(ctx context.Context, req *dto.BookParcelRequest) (*model.Parcel, error) {
	if req.Name == "" || req.SenderEmail == "" {
		return nil, apperr.New(apperr.Validation, "parcel name and sender email are required")
	}
	if req.Charge <= 0 {
		return nil, apperr.New(apperr.Validation, "parcel charge must be positive")
	}

	parcel := &model.Parcel{
		ID:             uuid.NewString(),
		SenderEmail:    req.SenderEmail,
		Name:           req.Name,
		Charge:         req.Charge,
		PaymentStatus:  model.PaymentStatusUnpaid,
		DeliveryStatus: model.DeliveryStatusPending,
	}

	if err := s.parcelRepo.Create(ctx, parcel); err != nil {
		return nil, apperr.Wrap(apperr.Adapter, "store parcel", err)
	}

	return parcel, nil
}

func (s *parcelServiceImpl) GetParcel(ctx context.Context, parcelID string) (*model.Parcel, error) {
	parcel, err := s.parcelRepo.FindByID(ctx, parcelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "parcel not found")
		}
		return nil, apperr.Wrap(apperr.Adapter, "load parcel", err)
	}

	return parcel, nil
}

func (s *parcelServiceImpl) GetParcelsBySender(ctx context.Context, senderEmail string) ([]*model.Parcel, error) {
	return s.parcelRepo.FindBySender(ctx, senderEmail)
}

func (s *parcelServiceImpl) UpdateDelivery(ctx context.Context, parcelID string, req *dto.UpdateParcelRequest) error {
	if !deliveryTransitions[req.DeliveryStatus] {
		return apperr.New(apperr.Validation, "unknown delivery status")
	}

	if req.RiderID != "" {
		rider, err := s.riderRepo.FindByID(ctx, req.RiderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "rider not found")
			}
			return apperr.Wrap(apperr.Adapter, "load rider", err)
		}
		if rider.Status != model.RiderStatusActive {
			return apperr.New(apperr.Validation, "rider is not active")
		}
	}

	err := s.parcelRepo.UpdateDelivery(ctx, parcelID, req.DeliveryStatus, req.RiderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "parcel not found")
		}
		return apperr.Wrap(apperr.Adapter, "update parcel delivery", err)
	}

	return nil
}

func (s *parcelServiceImpl) DeleteParcel(ctx context.Context, parcelID, requesterEmail string) error {
	parcel, err := s.GetParcel(ctx, parcelID)
	if err != nil {
		return err
	}

	if parcel.SenderEmail != requesterEmail {
		return apperr.New(apperr.Auth, "parcel belongs to another sender")
	}
	// settled parcels keep their payment trail
	if parcel.PaymentStatus == model.PaymentStatusPaid {
		return apperr.New(apperr.Validation, "paid parcels cannot be deleted")
	}

	if err := s.parcelRepo.Delete(ctx, parcelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "parcel not found")
		}
		return apperr.Wrap(apperr.Adapter, "delete parcel", err)
	}

	return nil
}
