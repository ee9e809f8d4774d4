package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users. Rows are
// best-effort side effects of order activity; losing one never fails an order.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:char(36);primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:char(36);not null;index"`
	Type      enums.NotificationType `gorm:"column:type;type:varchar(32);not null"`
	Title     string                 `gorm:"column:title;type:varchar(255);not null"`
	Message   string                 `gorm:"column:message;type:text;not null"`
	ReadAt    *time.Time             `gorm:"column:read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
