package controllers

import (
	"net/http"

	"github.com/kisanbazar/kisanbazar-backend/api/middleware"
	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	"github.com/kisanbazar/kisanbazar-backend/api/validators"
	internalauth "github.com/kisanbazar/kisanbazar-backend/internal/auth"
	internalusers "github.com/kisanbazar/kisanbazar-backend/internal/users"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

// Register creates a new consumer or farmer account and returns a token pair.
func Register(svc internalauth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalauth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Login verifies credentials and returns a token pair.
func Login(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalauth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Refresh rotates the caller's refresh token and mints a new access token.
func Refresh(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req internalauth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pair, err := svc.Refresh(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pair)
	}
}

// Logout revokes the caller's active session.
func Logout(svc internalauth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
			return
		}

		if err := svc.Logout(r.Context(), accessID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "logged out")
	}
}

// Me returns the authenticated caller's user record.
func Me(svc internalusers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, err := actorFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Me(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}
