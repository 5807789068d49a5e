package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalcategories "github.com/kisanbazar/kisanbazar-backend/internal/categories"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

func ListCategories(svc internalcategories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, categories, len(categories))
	}
}

func GetCategory(svc internalcategories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Get(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// CreateCategory adds a category to the catalog taxonomy. Admin only.
func CreateCategory(svc internalcategories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalcategories.CreateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

func UpdateCategory(svc internalcategories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalcategories.UpdateCategoryRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Update(r.Context(), categoryID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func DeleteCategory(svc internalcategories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "category deleted")
	}
}
