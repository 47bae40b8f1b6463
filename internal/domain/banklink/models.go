package banklink

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrLinkNotFound is returned when a link lookup matches no row.
	ErrLinkNotFound = errors.New("bank link not found")

	// ErrLinkRevoked is returned when an operation targets a revoked link.
	ErrLinkRevoked = errors.New("bank link has been revoked")
)

// BankLink is one connection between a user and an institution at the
// aggregator. AccessToken is stored encrypted and decrypted on read.
type BankLink struct {
	ID              uuid.UUID  `json:"id"`
	UserID          int64      `json:"user_id"`
	ItemID          string     `json:"item_id"`
	InstitutionName string     `json:"institution_name"`
	AccessToken     string     `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

// Active reports whether the link can still be used to fetch data.
func (l *BankLink) Active() bool {
	return l.RevokedAt == nil
}

// CreateParams holds the fields for persisting a new link.
type CreateParams struct {
	UserID          int64
	ItemID          string
	InstitutionName string
	AccessToken     string
}
