package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/db/models"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/pagination"
)

type repository interface {
	List(ctx context.Context, filter ListFilter, categoryIDs []uuid.UUID) ([]models.Product, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateVariant(ctx context.Context, variant *models.ProductVariant) error
	SaveVariant(ctx context.Context, variant *models.ProductVariant) error
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) (int64, error)
	Newest(ctx context.Context, limit int) ([]models.Product, error)
	Featured(ctx context.Context, limit int) ([]models.Product, error)
	OnSale(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	TopRated(ctx context.Context, limit int) ([]models.Product, error)
}

// categoryResolver widens a category filter to its whole subtree.
type categoryResolver interface {
	SubtreeIDs(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, error)
}

type Service struct {
	repo       repository
	categories categoryResolver
}

type ServiceParams struct {
	Repo       repository
	Categories categoryResolver
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("category resolver is required")
	}
	return &Service{repo: params.Repo, categories: params.Categories}, nil
}

// List executes the filtered catalog search. A category filter matches the
// category itself plus every active descendant.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	switch filter.Sort {
	case "", SortNewest, SortPriceAsc, SortPriceDesc, SortName:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown sort order")
	}
	if filter.PriceMin != nil && filter.PriceMax != nil && filter.PriceMin.GreaterThan(*filter.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min exceeds price_max")
	}

	filter.Keyword = strings.TrimSpace(filter.Keyword)
	filter.Limit = pagination.NormalizeLimit(filter.Limit)
	filter.Offset = pagination.NormalizeOffset(filter.Offset)

	var categoryIDs []uuid.UUID
	if filter.CategoryID != nil {
		ids, err := s.categories.SubtreeIDs(ctx, *filter.CategoryID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve category subtree")
		}
		categoryIDs = ids
	}

	rows, total, err := s.repo.List(ctx, filter, categoryIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	items := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, newSummaryDTO(row))
	}
	return &ListResult{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

// Detail returns the full product page payload. Inactive products are hidden
// from buyers.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return newDetailDTO(product), nil
}

// AdminDetail returns the product regardless of its active flag.
func (s *Service) AdminDetail(ctx context.Context, id uuid.UUID) (*DetailDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newDetailDTO(product), nil
}

// SaleProducts lists active products currently discounted.
func (s *Service) SaleProducts(ctx context.Context, limit, offset int) (*ListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.OnSale(ctx, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sale products")
	}
	items := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, newSummaryDTO(row))
	}
	return &ListResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Newest exposes the latest listings for the home page composition.
func (s *Service) Newest(ctx context.Context, limit int) ([]SummaryDTO, error) {
	rows, err := s.repo.Newest(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list newest products")
	}
	return summaries(rows), nil
}

// Featured exposes home-page featured listings.
func (s *Service) Featured(ctx context.Context, limit int) ([]SummaryDTO, error) {
	rows, err := s.repo.Featured(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list featured products")
	}
	return summaries(rows), nil
}

// TopRated exposes the best-reviewed listings.
func (s *Service) TopRated(ctx context.Context, limit int) ([]SummaryDTO, error) {
	rows, err := s.repo.TopRated(ctx, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list top rated products")
	}
	return summaries(rows), nil
}

// Create inserts a product with its initial variants.
func (s *Service) Create(ctx context.Context, input CreateProductInput) (*DetailDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.SalePrice != nil && !input.SalePrice.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_price must be positive")
	}
	if input.SalePrice != nil && input.SalePrice.GreaterThanOrEqual(input.Price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_price must undercut price")
	}

	product := &models.Product{
		Name:         name,
		Description:  input.Description,
		Price:        input.Price,
		SalePrice:    input.SalePrice,
		CategoryID:   input.CategoryID,
		BrandID:      input.BrandID,
		ThumbnailURL: input.ThumbnailURL,
		IsActive:     true,
		IsFeatured:   input.IsFeatured,
	}
	for _, v := range input.Variants {
		if v.Amount < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant amount cannot be negative")
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Color:     v.Color,
			Size:      v.Size,
			Amount:    v.Amount,
			ImageURLs: v.ImageURLs,
		})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category or brand")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return s.AdminDetail(ctx, product.ID)
}

// Update applies partial admin mutations.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*DetailDTO, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.ClearSale {
		updates["sale_price"] = nil
	} else if input.SalePrice != nil {
		price := current.Price
		if input.Price != nil {
			price = *input.Price
		}
		if !input.SalePrice.IsPositive() || input.SalePrice.GreaterThanOrEqual(price) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale_price must undercut price")
		}
		updates["sale_price"] = *input.SalePrice
	}
	if input.CategoryID != nil {
		updates["category_id"] = *input.CategoryID
	}
	if input.BrandID != nil {
		updates["brand_id"] = *input.BrandID
	}
	if input.ThumbnailURL != nil {
		updates["thumbnail_url"] = *input.ThumbnailURL
	}
	if input.IsFeatured != nil {
		updates["is_featured"] = *input.IsFeatured
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category or brand")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
	}
	return s.AdminDetail(ctx, id)
}

// Delist hides the product from the storefront without deleting history.
func (s *Service) Delist(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delist product")
	}
	return nil
}

// UpsertVariant inserts or updates one variant under the product.
func (s *Service) UpsertVariant(ctx context.Context, productID uuid.UUID, input VariantInput) (*DetailDTO, error) {
	if _, err := s.load(ctx, productID); err != nil {
		return nil, err
	}
	if input.Amount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant amount cannot be negative")
	}

	if input.ID == nil {
		variant := &models.ProductVariant{
			ProductID: productID,
			Color:     input.Color,
			Size:      input.Size,
			Amount:    input.Amount,
			ImageURLs: input.ImageURLs,
		}
		if err := s.repo.CreateVariant(ctx, variant); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create variant")
		}
		return s.AdminDetail(ctx, productID)
	}

	existing, err := s.repo.FindVariant(ctx, *input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
	}
	if existing.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant belongs to another product")
	}

	existing.Amount = input.Amount
	if input.Color != nil {
		existing.Color = input.Color
	}
	if input.Size != nil {
		existing.Size = input.Size
	}
	if input.ImageURLs != nil {
		existing.ImageURLs = input.ImageURLs
	}
	if err := s.repo.SaveVariant(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update variant")
	}
	return s.AdminDetail(ctx, productID)
}

// DeleteVariant removes one variant from a product.
func (s *Service) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	affected, err := s.repo.DeleteVariant(ctx, productID, variantID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete variant")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func summaries(rows []models.Product) []SummaryDTO {
	out := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, newSummaryDTO(row))
	}
	return out
}
