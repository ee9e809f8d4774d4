// Package cart manages the per-user shopping cart. One row exists per
// (user, variant); re-adding a variant overwrites its quantity.
package cart

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

// UpsertInput sets the quantity for one variant in the caller's cart.
type UpsertInput struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// ItemDTO is one cart line enriched with live product data.
type ItemDTO struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Color       *string         `json:"color,omitempty"`
	Size        *string         `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	InStock     bool            `json:"in_stock"`
	AddedAt     time.Time       `json:"added_at"`
}

// CartDTO is the whole cart with its running subtotal. Out-of-stock lines are
// included but excluded from the subtotal.
type CartDTO struct {
	Items    []ItemDTO       `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListByUser loads the cart with variant and product preloads, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Variant").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// Upsert overwrites the quantity for the (user, variant) pair.
func (r *Repository) Upsert(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Create(item).Error
}

func (r *Repository) Delete(ctx context.Context, userID, variantID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// Clear empties the user's cart; order placement calls this inside its
// transaction.
func (r *Repository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Upsert(ctx context.Context, item *models.CartItem) error
	Delete(ctx context.Context, userID, variantID uuid.UUID) (int64, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type variantLoader interface {
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type Service struct {
	repo     repository
	products variantLoader
}

type ServiceParams struct {
	Repo     repository
	Products variantLoader
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("variant loader is required")
	}
	return &Service{repo: params.Repo, products: params.Products}, nil
}

// Get assembles the caller's cart with live prices and stock flags.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	cart := &CartDTO{Items: make([]ItemDTO, 0, len(rows)), Subtotal: decimal.Zero}
	for _, row := range rows {
		if row.Variant == nil {
			continue
		}
		product, err := s.products.FindByID(ctx, row.Variant.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart product")
		}
		if !product.IsActive {
			continue
		}

		unit := product.EffectivePrice()
		inStock := row.Variant.Amount >= row.Quantity
		lineTotal := unit.Mul(decimal.NewFromInt(int64(row.Quantity)))
		item := ItemDTO{
			VariantID:   row.VariantID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Color:       row.Variant.Color,
			Size:        row.Variant.Size,
			Quantity:    row.Quantity,
			UnitPrice:   unit,
			LineTotal:   lineTotal,
			InStock:     inStock,
			AddedAt:     row.CreatedAt,
		}
		cart.Items = append(cart.Items, item)
		if inStock {
			cart.Subtotal = cart.Subtotal.Add(lineTotal)
		}
	}
	return cart, nil
}

// Upsert sets the quantity for one variant, validating it exists and the
// requested quantity is available right now. Stock is only reserved at order
// time; this check is a courtesy.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, input UpsertInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	variant, err := s.products.FindVariant(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
	}
	product, err := s.products.FindByID(ctx, variant.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	if variant.Amount < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
			WithDetails(map[string]any{"available": variant.Amount})
	}

	item := &models.CartItem{
		UserID:    userID,
		VariantID: input.VariantID,
		Quantity:  input.Quantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart item")
	}
	return s.Get(ctx, userID)
}

// Remove deletes one variant line from the cart.
func (s *Service) Remove(ctx context.Context, userID, variantID uuid.UUID) (*CartDTO, error) {
	affected, err := s.repo.Delete(ctx, userID, variantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.Get(ctx, userID)
}

// Clear empties the caller's cart.
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}
