// Package brands manages the manufacturer list shown in catalog filters.
package brands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var row models.Brand
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, brand *models.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Brand{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type repository interface {
	ListActive(ctx context.Context) ([]models.Brand, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	Create(ctx context.Context, brand *models.Brand) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// CreateBrandInput carries the admin payload for a new brand.
type CreateBrandInput struct {
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	LogoURL *string `json:"logo_url,omitempty" validate:"omitempty,max=512"`
}

// UpdateBrandInput holds optional admin mutations.
type UpdateBrandInput struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	LogoURL  *string `json:"logo_url,omitempty" validate:"omitempty,max=512"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type Service struct {
	repo repository
}

func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("brand repository is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, input CreateBrandInput) (*models.Brand, error) {
	brand := &models.Brand{
		Name:     strings.TrimSpace(input.Name),
		LogoURL:  input.LogoURL,
		IsActive: true,
	}
	if brand.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		if pkgerrors.IsDuplicateEntry(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create brand")
	}
	return brand, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (*models.Brand, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load brand")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.LogoURL != nil {
		updates["logo_url"] = *input.LogoURL
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if pkgerrors.IsDuplicateEntry(err) {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand name already exists")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update brand")
		}
	}
	return s.repo.FindByID(ctx, id)
}
