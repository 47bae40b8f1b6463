package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buho/internal/shared/auth"
)

func TestAuth_ValidBearerToken(t *testing.T) {
	j := auth.NewJWT("test-secret", 24*time.Hour)
	token, err := j.Generate(42, "user@example.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	var gotUserID int64
	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotUserID != 42 {
		t.Errorf("user id in context = %d, want 42", gotUserID)
	}
}

func TestAuth_CookieToken(t *testing.T) {
	j := auth.NewJWT("test-secret", 24*time.Hour)
	token, err := j.Generate(7, "cookie@example.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	j := auth.NewJWT("test-secret", 24*time.Hour)

	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	j := auth.NewJWT("test-secret", 24*time.Hour)

	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_MalformedAuthorizationHeader(t *testing.T) {
	j := auth.NewJWT("test-secret", 24*time.Hour)

	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with a malformed header")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
