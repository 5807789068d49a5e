package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kisanbazar/kisanbazar-backend/pkg/enums"
)

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	handler := RequireRole(nil, enums.RoleFarmer, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, role := range []enums.Role{enums.RoleFarmer, enums.RoleAdmin} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithRole(req.Context(), string(role)))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("role %s: expected 200 got %d", role, resp.Code)
		}
	}
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	handler := RequireRole(nil, enums.RoleFarmer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithRole(req.Context(), string(enums.RoleConsumer)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	handler := RequireRole(nil, enums.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
