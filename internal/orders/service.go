package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/products"
	"storefront-backend/pkg/db/models"
	"storefront-backend/pkg/enums"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/pagination"
)

// txRunner executes fn inside one database transaction.
type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// notifier records an in-app notification; failures are logged, never
// propagated.
type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) error
}

type Service struct {
	repo     *Repository
	cart     *cart.Repository
	products *products.Repository
	notify   notifier
	tx       txRunner
	logg     *logger.Logger
}

type ServiceParams struct {
	Repo     *Repository
	Cart     *cart.Repository
	Products *products.Repository
	Notifier notifier
	Tx       txRunner
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &Service{
		repo:     params.Repo,
		cart:     params.Cart,
		products: params.Products,
		notify:   params.Notifier,
		tx:       params.Tx,
		logg:     params.Logger,
	}, nil
}

// Create places an order from input.Items, or from the caller's cart when no
// explicit items are sent. The whole checkout runs in one transaction, cart
// clear included, and a single under-stocked line rolls it all back. Unit
// prices are frozen at this moment and never change with the catalog
// afterwards.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderDTO, error) {
	method, err := enums.ParsePaymentMethod(strings.TrimSpace(input.PaymentMethod))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	address := strings.TrimSpace(input.ShippingAddress)
	phone := strings.TrimSpace(input.PhoneNumber)
	if address == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_address and phone_number are required")
	}
	fee := decimal.Zero
	if input.AdditionalFee != nil {
		if input.AdditionalFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "additional_fee cannot be negative")
		}
		fee = *input.AdditionalFee
	}
	for _, item := range input.Items {
		if item.VariantID == uuid.Nil || item.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "each item needs a variant_id and a positive quantity")
		}
	}

	var created *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repo.WithTx(tx)
		txCart := s.cart.WithTx(tx)
		txProducts := s.products.WithTx(tx)

		requested := input.Items
		if len(requested) == 0 {
			rows, err := txCart.ListByUser(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
			}
			if len(rows) == 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			for _, row := range rows {
				requested = append(requested, OrderItemInput{VariantID: row.VariantID, Quantity: row.Quantity})
			}
		}

		order := &models.Order{
			UserID:          userID,
			Status:          enums.OrderStatusPending,
			AdditionalFee:   fee,
			ShippingAddress: address,
			PhoneNumber:     phone,
			PaymentMethod:   method,
		}
		total := fee

		for _, item := range requested {
			variant, err := txProducts.FindVariant(ctx, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found").
						WithDetails(map[string]any{"variant_id": item.VariantID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load variant")
			}
			product, err := txProducts.FindByID(ctx, variant.ProductID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "product no longer available").
					WithDetails(map[string]any{"variant_id": item.VariantID})
			}

			affected, err := txOrders.DecrementStock(ctx, item.VariantID, item.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reserve stock")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").
					WithDetails(map[string]any{
						"variant_id": item.VariantID,
						"requested":  item.Quantity,
						"available":  variant.Amount,
					})
			}

			unit := product.EffectivePrice()
			order.Lines = append(order.Lines, models.OrderLine{
				VariantID:   item.VariantID,
				ProductName: product.Name,
				Size:        variant.Size,
				Quantity:    item.Quantity,
				UnitPrice:   unit,
			})
			total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order.TotalPrice = total
		if err := txOrders.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}
		if err := txCart.Clear(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, userID, enums.NotificationTypeOrderCreated,
		"Order placed",
		fmt.Sprintf("Your order for %s is confirmed.", created.TotalPrice.StringFixed(2)))

	return newOrderDTO(created), nil
}

// List returns the caller's orders newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) (*ListResult, error) {
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return &ListResult{Items: orderDTOs(rows), Total: total, Limit: limit, Offset: offset}, nil
}

// Detail returns one order the caller owns. Foreign orders read as missing.
func (s *Service) Detail(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return newOrderDTO(order), nil
}

// Cancel voids an order and returns every reserved unit to stock, all in one
// transaction. Owners cancel their own orders; admins may cancel anyone's.
// DELIVERED and CANCELLED orders refuse.
func (s *Service) Cancel(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) (*OrderDTO, error) {
	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repo.WithTx(tx)

		order, err := txOrders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.UserID != userID && !isAdmin {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if !order.Status.IsCancellable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled").
				WithDetails(map[string]any{"status": order.Status})
		}

		now := time.Now().UTC()
		if err := txOrders.UpdateStatus(ctx, orderID, enums.OrderStatusCancelled, &now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "cancel order")
		}
		for _, line := range order.Lines {
			if err := txOrders.RestoreStock(ctx, line.VariantID, line.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
			}
		}

		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &now
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, cancelled.UserID, enums.NotificationTypeOrderUpdate,
		"Order cancelled", "Your order was cancelled and the items returned to stock.")

	return newOrderDTO(cancelled), nil
}

// AdminList pages all orders, optionally filtered by status.
func (s *Service) AdminList(ctx context.Context, statusFilter string, limit, offset int) (*ListResult, error) {
	var status *enums.OrderStatus
	if strings.TrimSpace(statusFilter) != "" {
		parsed, err := enums.ParseOrderStatus(statusFilter)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
		status = &parsed
	}
	limit = pagination.NormalizeLimit(limit)
	offset = pagination.NormalizeOffset(offset)

	rows, total, err := s.repo.ListAll(ctx, status, limit, offset)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return &ListResult{Items: orderDTOs(rows), Total: total, Limit: limit, Offset: offset}, nil
}

// AdminDetail returns any order by id.
func (s *Service) AdminDetail(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return newOrderDTO(order), nil
}

// AdminUpdateStatus moves an order to any valid status. Entering CANCELLED
// restores stock and stamps cancelled_at; leaving it clears the stamp but
// does not re-reserve stock.
func (s *Service) AdminUpdateStatus(ctx context.Context, orderID uuid.UUID, input UpdateStatusInput) (*OrderDTO, error) {
	status, err := enums.ParseOrderStatus(strings.TrimSpace(input.Status))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txOrders := s.repo.WithTx(tx)

		order, err := txOrders.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
		}
		if order.Status == status {
			updated = order
			return nil
		}

		var cancelledAt *time.Time
		if status == enums.OrderStatusCancelled {
			now := time.Now().UTC()
			cancelledAt = &now
			for _, line := range order.Lines {
				if err := txOrders.RestoreStock(ctx, line.VariantID, line.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore stock")
				}
			}
		}
		if err := txOrders.UpdateStatus(ctx, orderID, status, cancelledAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update order status")
		}

		order.Status = status
		order.CancelledAt = cancelledAt
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyBestEffort(ctx, updated.UserID, enums.NotificationTypeOrderUpdate,
		"Order update", fmt.Sprintf("Your order is now %s.", status))

	return newOrderDTO(updated), nil
}

func (s *Service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func (s *Service) notifyBestEffort(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Notify(ctx, userID, kind, title, message); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "user_id", userID.String()), "order.notification_failed")
	}
}

func orderDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *newOrderDTO(&rows[i]))
	}
	return out
}
