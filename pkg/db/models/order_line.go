package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderLine ties an order to a product variant with the quantity and the unit
// price observed at order creation. UnitPrice is a snapshot, deliberately
// decoupled from the product's current price.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"column:id;type:char(36);primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:char(36);not null;index"`
	VariantID   uuid.UUID       `gorm:"column:variant_id;type:char(36);not null;index"`
	ProductName string          `gorm:"column:product_name;type:varchar(255);not null"`
	Size        *string         `gorm:"column:size;type:varchar(32)"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (l *OrderLine) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// LineTotal returns unit price multiplied by quantity.
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
