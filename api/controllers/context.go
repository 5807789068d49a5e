package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/kisanbazar/kisanbazar-backend/api/middleware"
	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
)

// actorFromContext resolves the authenticated caller seeded by the auth
// middleware. Handlers behind Auth should never see an error here.
func actorFromContext(ctx context.Context) (uuid.UUID, enums.Role, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authenticated user")
	}
	role, err := enums.ParseRole(middleware.RoleFromContext(ctx))
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing caller role")
	}
	return userID, role, nil
}
