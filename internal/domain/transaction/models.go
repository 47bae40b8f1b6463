package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrInvalidArgument is returned for out-of-range pagination parameters.
var ErrInvalidArgument = errors.New("invalid argument")

// Transaction is a normalized transaction from one linked institution.
// Seq preserves the provider's reporting order within a link and breaks
// ordering ties between transactions posted on the same date.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	LinkID      uuid.UUID       `json:"link_id"`
	Amount      decimal.Decimal `json:"-"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	PostedDate  time.Time       `json:"posted_date"`
	Pending     bool            `json:"pending"`
	Seq         int             `json:"-"`
}

// Less defines the dashboard's display order: newest posted date first,
// then provider reporting order, then ID as the final tie-break so the
// ordering is total and stable across requests.
func Less(a, b Transaction) bool {
	if !a.PostedDate.Equal(b.PostedDate) {
		return a.PostedDate.After(b.PostedDate)
	}
	if a.Seq != b.Seq {
		return a.Seq < b.Seq
	}
	return a.ID < b.ID
}

// Page is one window of the merged transaction list.
type Page struct {
	Number     int           `json:"page"`
	Size       int           `json:"pageSize"`
	TotalItems int           `json:"totalItems"`
	Items      []Transaction `json:"items"`
}
