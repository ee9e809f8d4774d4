package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a self-referential taxonomy node. Level is 0 for roots and
// parent level + 1 otherwise.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:char(36);primaryKey"`
	Name      string     `gorm:"column:name;type:varchar(255);not null"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:char(36);index"`
	Level     int        `gorm:"column:level;not null;default:0"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
