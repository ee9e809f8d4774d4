package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem holds one (user, variant) pair; quantity is overwritten on re-add.
// The whole set for a user is deleted when their order is created.
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:char(36);primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:char(36);not null;uniqueIndex:cart_items_user_variant_key"`
	VariantID uuid.UUID       `gorm:"column:variant_id;type:char(36);not null;uniqueIndex:cart_items_user_variant_key"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
