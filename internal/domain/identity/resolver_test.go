package identity

import (
	"context"
	"errors"
	"testing"
)

type mockRepository struct {
	getByIDFunc    func(ctx context.Context, id int64) (*User, error)
	createFunc     func(ctx context.Context, params CreateParams) (*User, error)
	getByEmailFunc func(ctx context.Context, email string) (*User, error)
}

func (m *mockRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	return m.createFunc(ctx, params)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return m.getByEmailFunc(ctx, email)
}

func TestResolveCurrent_KnownUser(t *testing.T) {
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*User, error) {
			if id != 7 {
				t.Errorf("GetByID called with %d, want 7", id)
			}
			return &User{ID: 7, Email: "ana@example.com", Name: "Ana"}, nil
		},
	}

	resolver := NewResolver(repo)

	user, err := resolver.ResolveCurrent(context.Background(), 7)
	if err != nil {
		t.Fatalf("ResolveCurrent() failed: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.Email != "ana@example.com" {
		t.Errorf("Email = %q, want ana@example.com", user.Email)
	}
}

func TestResolveCurrent_NoSession(t *testing.T) {
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*User, error) {
			t.Error("GetByID should not be called without a session")
			return nil, nil
		},
	}

	resolver := NewResolver(repo)

	user, err := resolver.ResolveCurrent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ResolveCurrent() failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}

func TestResolveCurrent_StaleSession(t *testing.T) {
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*User, error) {
			return nil, ErrUserNotFound
		},
	}

	resolver := NewResolver(repo)

	user, err := resolver.ResolveCurrent(context.Background(), 99)
	if err != nil {
		t.Fatalf("ResolveCurrent() should not fail for stale session: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user for unknown ID, got %+v", user)
	}
}

func TestResolveCurrent_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection refused")
	repo := &mockRepository{
		getByIDFunc: func(ctx context.Context, id int64) (*User, error) {
			return nil, repoErr
		},
	}

	resolver := NewResolver(repo)

	_, err := resolver.ResolveCurrent(context.Background(), 7)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, repoErr) {
		t.Errorf("expected wrapped repository error, got %v", err)
	}
}
