package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"buho/internal/domain/identity"
)

type mockUserRepository struct {
	getByIDFunc func(ctx context.Context, id int64) (*identity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, params identity.CreateParams) (*identity.User, error) {
	return nil, errors.New("not implemented")
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	return nil, errors.New("not implemented")
}

func TestHandleMe_Success(t *testing.T) {
	repo := &mockUserRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*identity.User, error) {
			if id != 42 {
				t.Errorf("id = %d, want 42", id)
			}
			return &identity.User{ID: 42, Email: "ada@example.com", Name: "Ada"}, nil
		},
	}

	handler := NewUserHandler(identity.NewResolver(repo))

	w := httptest.NewRecorder()
	handler.HandleMe(w, authedRequest(http.MethodGet, "/api/users/me"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var user identity.User
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Errorf("email = %q, want ada@example.com", user.Email)
	}
}

func TestHandleMe_StaleSession(t *testing.T) {
	repo := &mockUserRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*identity.User, error) {
			return nil, identity.ErrUserNotFound
		},
	}

	handler := NewUserHandler(identity.NewResolver(repo))

	w := httptest.NewRecorder()
	handler.HandleMe(w, authedRequest(http.MethodGet, "/api/users/me"))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHandleMe_NoSession(t *testing.T) {
	handler := NewUserHandler(identity.NewResolver(&mockUserRepository{}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.HandleMe(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
