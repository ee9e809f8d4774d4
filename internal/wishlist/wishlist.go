// Package wishlist manages the per-user set of liked products.
package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
)

// ItemDTO is one liked product with its current price.
type ItemDTO struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	EffectivePrice decimal.Decimal `json:"effective_price"`
	ThumbnailURL   *string         `json:"thumbnail_url,omitempty"`
	IsActive       bool            `json:"is_active"`
	AddedAt        time.Time       `json:"added_at"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// Add inserts the pair, silently keeping the existing row on re-like.
func (r *Repository) Add(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item).Error
}

func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected, res.Error
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error)
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, productID uuid.UUID) (int64, error)
}

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
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product checker is required")
	}
	return &Service{repo: params.Repo, products: params.Products}, nil
}

// List returns the caller's liked products, newest first. Delisted products
// stay visible but are flagged inactive.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load wishlist")
	}

	items := make([]ItemDTO, 0, len(rows))
	for _, row := range rows {
		if row.Product == nil {
			continue
		}
		items = append(items, ItemDTO{
			ProductID:      row.ProductID,
			Name:           row.Product.Name,
			Price:          row.Product.Price,
			EffectivePrice: row.Product.EffectivePrice(),
			ThumbnailURL:   row.Product.ThumbnailURL,
			IsActive:       row.Product.IsActive,
			AddedAt:        row.CreatedAt,
		})
	}
	return items, nil
}

// Add likes a product. Re-liking is a no-op, not a conflict.
func (s *Service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Add(ctx, item); err != nil {
		if pkgerrors.IsDuplicateEntry(err) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save wishlist item")
	}
	return nil
}

// Remove unlikes a product.
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	affected, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete wishlist item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}
