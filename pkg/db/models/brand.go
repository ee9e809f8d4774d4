package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand names a product manufacturer shown in catalog filters.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:char(36);primaryKey"`
	Name      string    `gorm:"column:name;type:varchar(255);not null;uniqueIndex"`
	LogoURL   *string   `gorm:"column:logo_url;type:varchar(512)"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Brand) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
