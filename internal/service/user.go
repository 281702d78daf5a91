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

type UserService interface {
	SyncUser(ctx context.Context, req *dto.SyncUserRequest) (*model.User, error)
	GetUser(ctx context.Context, email string) (*model.User, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

// SyncUser upserts the user record on login so the backend stays the
// source of truth for roles even though identity lives elsewhere.
func (s *userServiceImpl) SyncUser(ctx context.Context, req *dto.SyncUserRequest) (*model.User, error) {
	if req.Email == "" {
		return nil, apperr.New(apperr.Validation, "email is required")
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	user := &model.User{
		ID:    uuid.NewString(),
		Email: req.Email,
		Name:  req.Name,
		Role:  role,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.Adapter, "upsert user", err)
	}

	return s.GetUser(ctx, req.Email)
}

func (s *userServiceImpl) GetUser(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "user not found")
		}
		return nil, apperr.Wrap(apperr.Adapter, "load user", err)
	}

	return user, nil
}
