package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/pawfinder/pawfinder-backend/internal/accounts"
	"github.com/pawfinder/pawfinder-backend/pkg/enums"
)

func requestWithRole(role enums.Role) *http.Request {
	req := httptest.NewRequest("GET", "/users", nil)
	account := &accounts.AccountDTO{ID: uuid.New(), Email: "actor@example.com", Role: role}
	return req.WithContext(WithAccount(req.Context(), account))
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	handler := RequireRole(testLogger(), enums.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("handler should not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	handler := RequireRole(testLogger(), enums.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("handler should not run")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.RoleAdoptante))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "insufficient permissions" {
		t.Errorf("message = %q", msg)
	}
}

func TestRequireRole_MatchingRolePasses(t *testing.T) {
	handler := RequireRole(testLogger(), enums.RoleRefugio, enums.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.RoleRefugio))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRequireRole_NoRolesListedAllowsAnyAuthenticated(t *testing.T) {
	handler := RequireRole(testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithRole(enums.RoleAdoptante))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}
