package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalproducts "github.com/kisanbazar/kisanbazar-backend/internal/products"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
	"github.com/kisanbazar/kisanbazar-backend/pkg/pagination"
)

// ListProducts is the public catalog browse endpoint. Inactive listings are
// never returned here.
func ListProducts(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		farmerID, err := validators.ParseQueryUUID(r, "farmer")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalproducts.ListInput{
			Filters: internalproducts.ListFilters{
				Search:     validators.SanitizeString(r.URL.Query().Get("search"), 200),
				CategoryID: categoryID,
				FarmerID:   farmerID,
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}

		page, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, page, len(page.Products))
	}
}

func GetProduct(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ListMyProducts returns the caller's own listings, active or not.
func ListMyProducts(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListMine(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, products, len(products))
	}
}

func CreateProduct(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalproducts.CreateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), farmerID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalproducts.UpdateProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), actorID, role, productID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func DeleteProduct(svc internalproducts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, role, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), actorID, role, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "product deleted")
	}
}
