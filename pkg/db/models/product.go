package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents the canonical catalog listing. Sellable stock lives on
// its variants, not here.
type Product struct {
	ID           uuid.UUID        `gorm:"column:id;type:char(36);primaryKey"`
	Name         string           `gorm:"column:name;type:varchar(255);not null"`
	Description  *string          `gorm:"column:description;type:text"`
	Price        decimal.Decimal  `gorm:"column:price;type:decimal(12,2);not null"`
	SalePrice    *decimal.Decimal `gorm:"column:sale_price;type:decimal(12,2)"`
	CategoryID   uuid.UUID        `gorm:"column:category_id;type:char(36);not null;index"`
	BrandID      *uuid.UUID       `gorm:"column:brand_id;type:char(36);index"`
	ThumbnailURL *string          `gorm:"column:thumbnail_url;type:varchar(512)"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured   bool             `gorm:"column:is_featured;not null;default:false"`
	Variants     []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category     *Category        `gorm:"foreignKey:CategoryID"`
	Brand        *Brand           `gorm:"foreignKey:BrandID"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectivePrice returns the sale price when one is set, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.IsPositive() {
		return *p.SalePrice
	}
	return p.Price
}
