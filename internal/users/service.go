package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

type repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// Service exposes profile operations for the authenticated user.
type Service struct {
	repo repository
}

func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &Service{repo: repo}, nil
}

// Profile returns the caller's own profile.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return NewProfileDTO(user), nil
}

// UpdateProfile applies partial updates and returns the refreshed profile.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateProfileDTO) (*ProfileDTO, error) {
	if err := s.repo.UpdateProfile(ctx, userID, dto); err != nil {
		if pkgerrors.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return s.Profile(ctx, userID)
}

// DeactivateAccount disables the caller's account.
func (s *Service) DeactivateAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivate user")
	}
	return nil
}
