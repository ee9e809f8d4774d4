package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Banner is a promotional tile rendered on the storefront home page.
type Banner struct {
	ID        uuid.UUID `gorm:"column:id;type:char(36);primaryKey"`
	Title     string    `gorm:"column:title;type:varchar(255);not null"`
	ImageURL  string    `gorm:"column:image_url;type:varchar(512);not null"`
	LinkURL   *string   `gorm:"column:link_url;type:varchar(512)"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Banner) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
