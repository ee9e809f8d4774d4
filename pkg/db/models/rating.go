package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score for a product; re-rating overwrites the row.
type Rating struct {
	ID        uuid.UUID `gorm:"column:id;type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:char(36);not null;uniqueIndex:ratings_user_product_key"`
	ProductID uuid.UUID `gorm:"column:product_id;type:char(36);not null;uniqueIndex:ratings_user_product_key;index"`
	Stars     int       `gorm:"column:stars;not null"`
	Comment   *string   `gorm:"column:comment;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Rating) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
