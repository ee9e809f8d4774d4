package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/pkg/db/models"
)

// Sort orderings accepted by the catalog listing.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ListFilter captures every catalog listing knob. Zero values mean "no
// constraint".
type ListFilter struct {
	Keyword    string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	PriceMin   *decimal.Decimal
	PriceMax   *decimal.Decimal
	Featured   *bool
	OnSale     *bool
	Sort       string
	Limit      int
	Offset     int
}

// ListResult is one catalog page plus the unpaginated count.
type ListResult struct {
	Items  []SummaryDTO `json:"items"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// SummaryDTO is the compact product shape used in listings.
type SummaryDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Price          decimal.Decimal  `json:"price"`
	SalePrice      *decimal.Decimal `json:"sale_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	ThumbnailURL   *string          `json:"thumbnail_url,omitempty"`
	CategoryID     uuid.UUID        `json:"category_id"`
	BrandID        *uuid.UUID       `json:"brand_id,omitempty"`
	IsFeatured     bool             `json:"is_featured"`
	TotalStock     int              `json:"total_stock"`
}

// VariantDTO is a sellable configuration with its live stock count.
type VariantDTO struct {
	ID        uuid.UUID `json:"id"`
	Color     *string   `json:"color,omitempty"`
	Size      *string   `json:"size,omitempty"`
	Amount    int       `json:"amount"`
	ImageURLs []string  `json:"image_urls"`
}

// DetailDTO is the full product shape returned by the detail endpoint.
type DetailDTO struct {
	SummaryDTO
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Brand       *string      `json:"brand,omitempty"`
	Variants    []VariantDTO `json:"variants"`
	IsActive    bool         `json:"is_active"`
}

// VariantInput creates or replaces a variant under a product. A nil ID
// inserts; a set ID updates the existing row.
type VariantInput struct {
	ID        *uuid.UUID `json:"id,omitempty"`
	Color     *string    `json:"color,omitempty" validate:"omitempty,max=64"`
	Size      *string    `json:"size,omitempty" validate:"omitempty,max=32"`
	Amount    int        `json:"amount" validate:"min=0"`
	ImageURLs []string   `json:"image_urls,omitempty"`
}

// CreateProductInput carries the admin payload for a new catalog listing.
type CreateProductInput struct {
	Name         string           `json:"name" validate:"required,min=1,max=255"`
	Description  *string          `json:"description,omitempty"`
	Price        decimal.Decimal  `json:"price" validate:"required"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	CategoryID   uuid.UUID        `json:"category_id" validate:"required"`
	BrandID      *uuid.UUID       `json:"brand_id,omitempty"`
	ThumbnailURL *string          `json:"thumbnail_url,omitempty" validate:"omitempty,max=512"`
	IsFeatured   bool             `json:"is_featured"`
	Variants     []VariantInput   `json:"variants,omitempty" validate:"dive"`
}

// UpdateProductInput holds optional admin mutations; nil fields are untouched.
type UpdateProductInput struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	ClearSale    bool             `json:"clear_sale,omitempty"`
	CategoryID   *uuid.UUID       `json:"category_id,omitempty"`
	BrandID      *uuid.UUID       `json:"brand_id,omitempty"`
	ThumbnailURL *string          `json:"thumbnail_url,omitempty" validate:"omitempty,max=512"`
	IsFeatured   *bool            `json:"is_featured,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

func newSummaryDTO(p models.Product) SummaryDTO {
	total := 0
	for _, v := range p.Variants {
		total += v.Amount
	}
	return SummaryDTO{
		ID:             p.ID,
		Name:           p.Name,
		Price:          p.Price,
		SalePrice:      p.SalePrice,
		EffectivePrice: p.EffectivePrice(),
		ThumbnailURL:   p.ThumbnailURL,
		CategoryID:     p.CategoryID,
		BrandID:        p.BrandID,
		IsFeatured:     p.IsFeatured,
		TotalStock:     total,
	}
}

func newDetailDTO(p *models.Product) *DetailDTO {
	if p == nil {
		return nil
	}
	detail := &DetailDTO{
		SummaryDTO:  newSummaryDTO(*p),
		Description: p.Description,
		Variants:    make([]VariantDTO, 0, len(p.Variants)),
		IsActive:    p.IsActive,
	}
	if p.Category != nil {
		detail.Category = &p.Category.Name
	}
	if p.Brand != nil {
		detail.Brand = &p.Brand.Name
	}
	for _, v := range p.Variants {
		urls := v.ImageURLs
		if urls == nil {
			urls = []string{}
		}
		detail.Variants = append(detail.Variants, VariantDTO{
			ID:        v.ID,
			Color:     v.Color,
			Size:      v.Size,
			Amount:    v.Amount,
			ImageURLs: urls,
		})
	}
	return detail
}
