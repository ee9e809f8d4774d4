// Package banners manages the ordered promotional tiles on the home page.
package banners

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

// ListActive returns active banners sorted by position, ties broken by
// newest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position ASC").
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error) {
	var row models.Banner
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, banner *models.Banner) error {
	return r.db.WithContext(ctx).Create(banner).Error
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Banner{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id).Error
}

type repository interface {
	ListActive(ctx context.Context) ([]models.Banner, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Banner, error)
	Create(ctx context.Context, banner *models.Banner) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CreateBannerInput carries the admin payload for a new banner.
type CreateBannerInput struct {
	Title    string  `json:"title" validate:"required,min=1,max=255"`
	ImageURL string  `json:"image_url" validate:"required,max=512"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=512"`
	Position int     `json:"position" validate:"min=0"`
}

// UpdateBannerInput holds optional admin mutations.
type UpdateBannerInput struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,max=512"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=512"`
	Position *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type Service struct {
	repo repository
}

func NewService(repo repository) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("banner repository is required")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) ListActive(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list banners")
	}
	return rows, nil
}

func (s *Service) Create(ctx context.Context, input CreateBannerInput) (*models.Banner, error) {
	banner := &models.Banner{
		Title:    strings.TrimSpace(input.Title),
		ImageURL: strings.TrimSpace(input.ImageURL),
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: true,
	}
	if banner.Title == "" || banner.ImageURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and image_url are required")
	}
	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create banner")
	}
	return banner, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateBannerInput) (*models.Banner, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banner")
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*input.ImageURL)
	}
	if input.LinkURL != nil {
		updates["link_url"] = *input.LinkURL
	}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update banner")
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load banner")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete banner")
	}
	return nil
}
