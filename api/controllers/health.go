package controllers

import (
	"context"
	"net/http"

	"github.com/kisanbazar/kisanbazar-backend/api/responses"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Live reports process liveness.
func Live() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// Ready reports readiness by pinging the datasources.
func Ready(db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
