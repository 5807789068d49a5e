package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalfarmers "github.com/kisanbazar/kisanbazar-backend/internal/farmers"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

// ListFarmers returns every farmer account paired with its profile, if any.
func ListFarmers(svc internalfarmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmers, err := svc.ListFarmers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteList(w, farmers, len(farmers))
	}
}

// GetFarmer returns a single farmer by user id.
func GetFarmer(svc internalfarmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		farmer, err := svc.GetFarmer(r.Context(), farmerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, farmer)
	}
}

// UpsertFarmerProfile creates or replaces the caller's farm profile.
func UpsertFarmerProfile(svc internalfarmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalfarmers.UpsertProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.UpsertProfile(r.Context(), userID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// VerifyFarmer flips the verified flag on a farmer profile. Admin only.
func VerifyFarmer(svc internalfarmers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		farmerID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req internalfarmers.VerifyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.SetVerified(r.Context(), farmerID, req.IsVerified)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
