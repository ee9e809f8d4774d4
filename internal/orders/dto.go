package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
)

// OrderItemInput names one variant to buy when the caller sends an explicit
// item list instead of checking out the cart.
type OrderItemInput struct {
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateOrderInput carries the checkout payload. Items is optional; when
// empty the lines come from the caller's cart.
type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items,omitempty" validate:"omitempty,dive"`
	ShippingAddress string           `json:"shipping_address" validate:"required,min=1,max=512"`
	PhoneNumber     string           `json:"phone_number" validate:"required,min=3,max=32"`
	PaymentMethod   string           `json:"payment_method" validate:"required"`
	AdditionalFee   *decimal.Decimal `json:"additional_fee,omitempty"`
}

// UpdateStatusInput is the admin payload for a status transition.
type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// LineDTO is one frozen order line.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Size        *string         `json:"size,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the full order shape returned to buyers and admins.
type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	UserID          uuid.UUID           `json:"user_id"`
	Status          enums.OrderStatus   `json:"status"`
	TotalPrice      decimal.Decimal     `json:"total_price"`
	AdditionalFee   decimal.Decimal     `json:"additional_fee"`
	ShippingAddress string              `json:"shipping_address"`
	PhoneNumber     string              `json:"phone_number"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	Lines           []LineDTO           `json:"lines"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ListResult is one order page plus the unpaginated count.
type ListResult struct {
	Items  []OrderDTO `json:"items"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func newOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              order.ID,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalPrice:      order.TotalPrice,
		AdditionalFee:   order.AdditionalFee,
		ShippingAddress: order.ShippingAddress,
		PhoneNumber:     order.PhoneNumber,
		PaymentMethod:   order.PaymentMethod,
		CancelledAt:     order.CancelledAt,
		Lines:           make([]LineDTO, 0, len(order.Lines)),
		CreatedAt:       order.CreatedAt,
	}
	for _, line := range order.Lines {
		dto.Lines = append(dto.Lines, LineDTO{
			ID:          line.ID,
			VariantID:   line.VariantID,
			ProductName: line.ProductName,
			Size:        line.Size,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal(),
		})
	}
	return dto
}
