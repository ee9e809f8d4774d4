// Package ratings manages per-user product reviews and their aggregates.
package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/pagination"
)

// RateInput carries one user's review of a product.
type RateInput struct {
	Stars   int     `json:"stars" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}

// RatingDTO is the public review shape.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Stars     int       `json:"stars"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary aggregates a product's review stats.
type Summary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// ListResult is one review page plus the aggregate.
type ListResult struct {
	Items   []RatingDTO `json:"items"`
	Summary Summary     `json:"summary"`
	Limit   int         `json:"limit"`
	Offset  int         `json:"offset"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert writes the (user, product) review, overwriting stars and comment on
// conflict.
func (r *Repository) Upsert(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"stars", "comment", "updated_at"}),
		}).
		Create(rating).Error
}

func (r *Repository) ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Rating, error) {
	var rows []models.Rating
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

// Aggregate returns the average stars and count for one product.
func (r *Repository) Aggregate(ctx context.Context, productID uuid.UUID) (Summary, error) {
	var agg struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COALESCE(AVG(stars), 0) AS average, COUNT(id) AS count").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	return Summary{Average: agg.Average, Count: agg.Count}, err
}

func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Rating{})
	return res.RowsAffected, res.Error
}

type repository interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit, offset int) ([]models.Rating, error)
	Aggregate(ctx context.Context, productID uuid.UUID) (Summary, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) (int64, error)
}

// productChecker verifies the product exists and is visible before accepting
// a review.
type productChecker interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type Service struct {
	repo     repository
	products productChecker
}

type ServiceParams struct {
	Repo     repository
	Products productChecker
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rating repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product checker is required")
	}
	return &Service{repo: params.Repo, products: params.Products}, nil
}

// Rate records or replaces the caller's review of a product.
func (s *Service) Rate(ctx context.Context, userID, productID uuid.UUID, input RateInput) (*RatingDTO, error) {
	if input.Stars < 1 || input.Stars > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stars must be between 1 and 5")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	var comment *string
	if input.Comment != nil {
		trimmed := strings.TrimSpace(*input.Comment)
		if trimmed != "" {
			comment = &trimmed
		}
	}
	rating := &models.Rating{
		UserID:    userID,
		ProductID: productID,
		Stars:     input.Stars,
		Comment:   comment,
	}
	if err := s.repo.Upsert(ctx, rating); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save rating")
	}
	return &RatingDTO{
		ID:        rating.ID,
		UserID:    rating.UserID,
		Stars:     rating.Stars,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
	}, nil
}

// ListForProduct returns a review page newest-first with the aggregate stats.
func (s *Service) ListForProduct(ctx context.Context, productID uuid.UUID, limit, offset int) (*ListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, err := s.repo.ListByProduct(ctx, productID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ratings")
	}
	summary, err := s.repo.Aggregate(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate ratings")
	}

	items := make([]RatingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, RatingDTO{
			ID:        row.ID,
			UserID:    row.UserID,
			Stars:     row.Stars,
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		})
	}
	return &ListResult{Items: items, Summary: summary, Limit: limit, Offset: offset}, nil
}

// Remove deletes the caller's own review.
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete rating")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
	}
	return nil
}
