package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront-backend/pkg/enums"
)

// User represents the canonical identity entity. Rows are never hard-deleted;
// IsActive is flipped off instead.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:char(36);primaryKey"`
	Email        string         `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"column:name;type:varchar(255);not null"`
	Phone        *string        `gorm:"column:phone;type:varchar(32);uniqueIndex"`
	Address      *string        `gorm:"column:address;type:varchar(512)"`
	Role         enums.UserRole `gorm:"column:role;type:varchar(16);not null;default:'USER'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	IsVerified   bool           `gorm:"column:is_verified;not null;default:false"`
	DateOfBirth  *time.Time     `gorm:"column:date_of_birth"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
