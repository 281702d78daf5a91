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

var riderStatuses = map[string]bool{
	model.RiderStatusPending:  true,
	model.RiderStatusActive:   true,
	model.RiderStatusRejected: true,
}

type RiderService interface {
	Apply(ctx context.Context, req *dto.RiderApplicationRequest) (*model.Rider, error)
	GetRidersByStatus(ctx context.Context, status string) ([]*model.Rider, error)
	UpdateStatus(ctx context.Context, riderID, status string) error
}

type riderServiceImpl struct {
	riderRepo repository.RiderRepository
}

func NewRiderService(riderRepo repository.RiderRepository) RiderService {
	return &riderServiceImpl{
		riderRepo: riderRepo,
	}
}

func (s *riderServiceImpl) Apply(ctx context.Context, req *dto.RiderApplicationRequest) (*model.Rider, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperr.New(apperr.Validation, "rider name and email are required")
	}

	rider := &model.Rider{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		District: req.District,
		Status:   model.RiderStatusPending,
	}

	if err := s.riderRepo.Create(ctx, rider); err != nil {
		return nil, apperr.Wrap(apperr.Adapter, "store rider application", err)
	}

	return rider, nil
}

func (s *riderServiceImpl) GetRidersByStatus(ctx context.Context, status string) ([]*model.Rider, error) {
	if status != "" && !riderStatuses[status] {
		return nil, apperr.New(apperr.Validation, "unknown rider status")
	}

	return s.riderRepo.FindByStatus(ctx, status)
}

func (s *riderServiceImpl) UpdateStatus(ctx context.Context, riderID, status string) error {
	if !riderStatuses[status] {
		return apperr.New(apperr.Validation, "unknown rider status")
	}

	err := s.riderRepo.UpdateStatus(ctx, riderID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "rider not found")
		}
		return apperr.Wrap(apperr.Adapter, "update rider status", err)
	}

	return nil
}
