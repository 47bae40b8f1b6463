package bankfeed

import (
	"context"
)

// ClientInterface defines the methods required from the aggregator API client
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*AccessCredential, error)
	GetAccounts(ctx context.Context, accessToken string) ([]RawAccount, error)
	GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]RawTransaction, error)
}
