package aggregation

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"buho/internal/domain/account"
	"buho/internal/domain/banklink"
	"buho/internal/domain/identity"
	"buho/internal/domain/transaction"
	"buho/internal/infrastructure/bankfeed"
)

// UserResolver maps a session to its user. A (nil, nil) return means no
// authenticated user.
type UserResolver interface {
	ResolveCurrent(ctx context.Context, userID int64) (*identity.User, error)
}

// LinkLister returns a user's active bank links.
type LinkLister interface {
	ListActive(ctx context.Context, userID int64) ([]*banklink.BankLink, error)
}

// Facade consolidates accounts and transactions across a user's linked
// institutions. Each link is fetched concurrently under its own deadline so
// one slow or broken institution cannot stall or sink the whole dashboard.
type Facade struct {
	resolver     UserResolver
	links        LinkLister
	feed         bankfeed.ClientInterface
	linkTimeout  time.Duration
	txWindowDays int
}

func NewFacade(resolver UserResolver, links LinkLister, feed bankfeed.ClientInterface, linkTimeout time.Duration, txWindowDays int) *Facade {
	return &Facade{
		resolver:     resolver,
		links:        links,
		feed:         feed,
		linkTimeout:  linkTimeout,
		txWindowDays: txWindowDays,
	}
}

// linkAccounts holds one link's fetch outcome, slotted by link index so
// result order never depends on goroutine completion order.
type linkAccounts struct {
	accounts []account.Account
	problems []string
	err      error
}

// GetAccounts returns every account across the user's active links plus the
// consolidated balance. Links that fail are reported in FailedLinks; the
// aggregate covers only the links that responded.
func (f *Facade) GetAccounts(ctx context.Context, userID int64) (*AccountsResult, error) {
	user, err := f.resolver.ResolveCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &AccountsResult{Status: StatusUnauthenticated}, nil
	}

	links, err := f.links.ListActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	if len(links) == 0 {
		return &AccountsResult{
			Status:    StatusCompleted,
			Accounts:  []account.Account{},
			Aggregate: account.ComputeAggregate(nil),
		}, nil
	}

	results := make([]linkAccounts, len(links))
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		go func(i int, link *banklink.BankLink) {
			defer wg.Done()

			linkCtx, cancel := context.WithTimeout(ctx, f.linkTimeout)
			defer cancel()

			raw, err := f.feed.GetAccounts(linkCtx, link.AccessToken)
			if err != nil {
				results[i].err = err
				return
			}

			results[i].accounts, results[i].problems = account.Normalize(raw, link)
		}(i, link)
	}

	wg.Wait()

	result := &AccountsResult{Accounts: []account.Account{}}
	succeeded := 0

	for i, r := range results {
		if r.err != nil {
			log.Printf("Link fetch failed: link=%s institution=%s err=%v", links[i].ID, links[i].InstitutionName, r.err)
			result.FailedLinks = append(result.FailedLinks, failedLink(links[i], r.err))
			continue
		}
		succeeded++
		result.Accounts = append(result.Accounts, r.accounts...)
		result.Problems = append(result.Problems, r.problems...)
	}

	result.Status = statusFor(succeeded, len(links))
	if result.Status != StatusFailed {
		result.Aggregate = account.ComputeAggregate(result.Accounts)
	}

	return result, nil
}

// GetAccount returns a single account by ID, searching across all of the
// user's links. ErrAccountNotFound is returned when no surviving link holds
// the account; a partial failure still finds accounts on healthy links.
func (f *Facade) GetAccount(ctx context.Context, userID int64, accountID string) (*account.Account, error) {
	result, err := f.GetAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result.Status == StatusUnauthenticated {
		return nil, identity.ErrUserNotFound
	}

	for i := range result.Accounts {
		if result.Accounts[i].ID == accountID {
			return &result.Accounts[i], nil
		}
	}

	return nil, ErrAccountNotFound
}

type linkTransactions struct {
	txs      []transaction.Transaction
	problems []string
	err      error
}

// GetTransactions returns one page of the user's transaction history merged
// across all active links, newest first. Pagination parameters are validated
// before any provider call is made.
func (f *Facade) GetTransactions(ctx context.Context, userID int64, page, pageSize int) (*TransactionsResult, error) {
	// Reject bad parameters before paying for provider round trips
	if _, err := transaction.Paginate(nil, page, pageSize); err != nil {
		return nil, err
	}

	user, err := f.resolver.ResolveCurrent(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &TransactionsResult{Status: StatusUnauthenticated}, nil
	}

	links, err := f.links.ListActive(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	if len(links) == 0 {
		emptyPage, _ := transaction.Paginate(nil, page, pageSize)
		return &TransactionsResult{Status: StatusCompleted, Page: emptyPage}, nil
	}

	endDate := time.Now().UTC()
	startDate := endDate.AddDate(0, 0, -f.txWindowDays)

	results := make([]linkTransactions, len(links))
	var wg sync.WaitGroup

	for i, link := range links {
		wg.Add(1)
		go func(i int, link *banklink.BankLink) {
			defer wg.Done()

			linkCtx, cancel := context.WithTimeout(ctx, f.linkTimeout)
			defer cancel()

			raw, err := f.feed.GetTransactions(linkCtx, link.AccessToken,
				startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
			if err != nil {
				results[i].err = err
				return
			}

			results[i].txs, results[i].problems = transaction.FromRaw(raw, link)
		}(i, link)
	}

	wg.Wait()

	result := &TransactionsResult{}
	lists := make([][]transaction.Transaction, 0, len(links))
	succeeded := 0

	for i, r := range results {
		if r.err != nil {
			log.Printf("Link fetch failed: link=%s institution=%s err=%v", links[i].ID, links[i].InstitutionName, r.err)
			result.FailedLinks = append(result.FailedLinks, failedLink(links[i], r.err))
			continue
		}
		succeeded++
		lists = append(lists, r.txs)
		result.Problems = append(result.Problems, r.problems...)
	}

	result.Status = statusFor(succeeded, len(links))
	if result.Status == StatusFailed {
		return result, nil
	}

	merged := transaction.Merge(lists)
	result.Page, err = transaction.Paginate(merged, page, pageSize)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func statusFor(succeeded, total int) Status {
	switch {
	case succeeded == 0:
		return StatusFailed
	case succeeded < total:
		return StatusPartiallyFailed
	default:
		return StatusCompleted
	}
}

func failedLink(link *banklink.BankLink, err error) FailedLink {
	return FailedLink{
		LinkID:          link.ID,
		InstitutionName: link.InstitutionName,
		Reason:          err.Error(),
		Retryable:       bankfeed.IsRetryable(err),
	}
}
