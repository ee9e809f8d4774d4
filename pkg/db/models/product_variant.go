package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductVariant is a sellable configuration of a product (color/size) with
// its own stock count. Amount is the only column mutated concurrently; order
// placement decrements it through a conditional UPDATE, never a read-then-write.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:char(36);primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:char(36);not null;index"`
	Color     *string   `gorm:"column:color;type:varchar(64)"`
	Size      *string   `gorm:"column:size;type:varchar(32)"`
	Amount    int       `gorm:"column:amount;not null;default:0"`
	ImageURLs []string  `gorm:"column:image_urls;serializer:json"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
