package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-backend/pkg/enums"
)

// Order is created atomically with its lines; TotalPrice is the frozen sum of
// line totals plus the additional fee.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:char(36);primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:char(36);not null;index"`
	Status          enums.OrderStatus   `gorm:"column:status;type:varchar(16);not null;default:'PENDING'"`
	TotalPrice      decimal.Decimal     `gorm:"column:total_price;type:decimal(12,2);not null"`
	AdditionalFee   decimal.Decimal     `gorm:"column:additional_fee;type:decimal(12,2);not null;default:0"`
	ShippingAddress string              `gorm:"column:shipping_address;type:varchar(512);not null"`
	PhoneNumber     string              `gorm:"column:phone_number;type:varchar(32);not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null"`
	CancelledAt     *time.Time          `gorm:"column:cancelled_at"`
	Lines           []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
