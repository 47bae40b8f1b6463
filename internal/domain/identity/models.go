package identity

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned on registration with an email already in use.
var ErrEmailTaken = errors.New("email already registered")

// User is an authenticated dashboard owner.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateParams holds the fields for creating a user.
type CreateParams struct {
	Email        string
	Name         string
	PasswordHash string
}
