package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalorders "github.com/kisanbazar/kisanbazar-backend/internal/orders"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

func paginationFromQuery(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}

// cartClearer is the slice of the cart service the order flow needs.
type cartClearer interface {
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CreateOrder places an order for the authenticated consumer. Prices and the
// total are captured at creation time. The consumer's cart is cleared once
// the order is written; a failed clear is logged, not surfaced, since the
// order already exists.
func CreateOrder(svc internalorders.Service, carts cartClearer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		consumerID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalorders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), consumerID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if carts != nil {
			if err := carts.Clear(r.Context(), consumerID); err != nil && logg != nil {
				logg.Error(logg.WithUserID(r.Context(), consumerID.String()), "order.cart_clear_failed", err)
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns a single order to its consumer, its farmer, or an admin.
func GetOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), actorID, role, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus moves an order through its lifecycle. Only the order's
// farmer or an admin may call it.
func UpdateOrderStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalorders.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), actorID, role, orderID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListMyOrders returns the caller's purchase history.
func ListMyOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		consumerID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForConsumer(r.Context(), consumerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, page, len(page.Orders))
	}
}

// ListFarmerOrders returns orders placed against the caller's listings.
func ListFarmerOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListForFarmer(r.Context(), farmerID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, page, len(page.Orders))
	}
}

// ListAllOrders is the admin view across every order.
func ListAllOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := paginationFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListAll(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, page, len(page.Orders))
	}
}
