package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalcart "github.com/kisanbazar/kisanbazar-backend/internal/cart"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

func GetCart(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

// AddCartItem adds a product line. All lines in a cart must belong to the
// same farmer.
func AddCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalcart.AddItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.AddItem(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

func UpdateCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalcart.UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.UpdateItem(r.Context(), userID, productID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

func RemoveCartItem(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "productId"), "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.RemoveItem(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cart)
	}
}

func ClearCart(svc internalcart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "cart cleared")
	}
}
