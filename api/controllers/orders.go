package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"storefront-backend/api/middleware"
	"storefront-backend/api/responses"
	"storefront-backend/api/validators"
	"storefront-backend/internal/orders"
	"storefront-backend/pkg/enums"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/pagination"
)

type createOrderRequest struct {
	Items           []orders.OrderItemInput `json:"items,omitempty" validate:"omitempty,dive"`
	ShippingAddress string                  `json:"shipping_address" validate:"required,max=512"`
	PhoneNumber     string                  `json:"phone_number" validate:"required,max=32"`
	PaymentMethod   string                  `json:"payment_method" validate:"required"`
	AdditionalFee   *decimal.Decimal        `json:"additional_fee,omitempty"`
}

// OrderCreate checks out the posted items, or the caller's cart when the
// body names none, into a pending order.
func OrderCreate(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Create(r.Context(), userID, orders.CreateOrderInput{
			Items:           req.Items,
			ShippingAddress: req.ShippingAddress,
			PhoneNumber:     req.PhoneNumber,
			PaymentMethod:   req.PaymentMethod,
			AdditionalFee:   req.AdditionalFee,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OrderList pages through the caller's own orders.
func OrderList(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), userID, limit, offset)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// OrderDetail returns one of the caller's orders with its lines.
func OrderDetail(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		dto, err := svc.Detail(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// OrderCancel cancels a not-yet-final order and restores its stock. Admins
// may cancel on any buyer's behalf.
func OrderCancel(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := callerID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		isAdmin := middleware.RoleFromContext(r.Context()) == enums.UserRoleAdmin.String()
		dto, err := svc.Cancel(r.Context(), userID, orderID, isAdmin)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
