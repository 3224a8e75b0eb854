package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ems/internal/domain/auth"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthPopulatesUserContext(t *testing.T) {
	secret := "test-secret"
	employeeID := int64(9)
	token, err := auth.GenerateToken(secret, auth.Claims{
		UserID:     3,
		EmployeeID: &employeeID,
		Role:       auth.RoleEmployee,
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var got UserContext
	handler := Auth(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUser(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.UserID != 3 || got.Role != auth.RoleEmployee {
		t.Fatalf("user context = %+v", got)
	}
	if got.EmployeeID == nil || *got.EmployeeID != 9 {
		t.Fatalf("employeeID = %v, want 9", got.EmployeeID)
	}
}

func TestAuthIgnoresBadToken(t *testing.T) {
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); ok {
			t.Fatal("bad token produced a user context")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestRequireAuth(t *testing.T) {
	var called bool
	handler := RequireAuth(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("anonymous request: code = %d, called = %v", rec.Code, called)
	}
}

func TestRequireRole(t *testing.T) {
	secret := "test-secret"
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: 1, Role: auth.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	var called bool
	handler := Auth(secret)(RequireRole(auth.RoleHR)(okHandler(&called)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || called {
		t.Fatalf("employee hitting hr route: code = %d, called = %v", rec.Code, called)
	}
}
