package aggregation

import (
	"errors"

	"github.com/google/uuid"

	"buho/internal/domain/account"
	"buho/internal/domain/transaction"
)

// ErrAccountNotFound is returned when a requested account does not exist in
// any of the user's linked institutions.
var ErrAccountNotFound = errors.New("account not found")

// Status summarizes how an aggregation request fared across links.
type Status string

const (
	// StatusCompleted means every active link contributed data.
	StatusCompleted Status = "completed"

	// StatusPartiallyFailed means at least one link contributed and at
	// least one failed. Data from the surviving links is returned.
	StatusPartiallyFailed Status = "partially_failed"

	// StatusFailed means every active link failed. No data is returned.
	StatusFailed Status = "failed"

	// StatusUnauthenticated means there is no signed-in user to aggregate
	// for. Distinguished from an empty result so clients can redirect to
	// sign-in instead of rendering zeros.
	StatusUnauthenticated Status = "unauthenticated"
)

// FailedLink describes one link that could not contribute to a result.
type FailedLink struct {
	LinkID          uuid.UUID `json:"linkId"`
	InstitutionName string    `json:"institutionName"`
	Reason          string    `json:"reason"`
	Retryable       bool      `json:"retryable"`
}

// AccountsResult is the consolidated account view across all links.
type AccountsResult struct {
	Status      Status
	Accounts    []account.Account
	Aggregate   account.AggregateBalance
	FailedLinks []FailedLink
	Problems    []string
}

// TransactionsResult is one page of the merged transaction history.
type TransactionsResult struct {
	Status      Status
	Page        *transaction.Page
	FailedLinks []FailedLink
	Problems    []string
}
