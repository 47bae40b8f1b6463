package bankfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout       = 30 * time.Second
	linkTokenPath        = "/link/token/create"
	exchangeTokenPath    = "/link/token/exchange"
	accountsPath         = "/accounts/get"
	transactionsPath     = "/transactions/get"
)

// Client handles communication with the external account aggregator API
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregator API client
func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// LinkToken is a short-lived token that opens the client-side linking UI.
type LinkToken struct {
	Token      string `json:"link_token"`
	Expiration string `json:"expiration"`
}

// AccessCredential is the durable credential returned by a completed link
// handshake. ItemID identifies the institution connection.
type AccessCredential struct {
	AccessToken string `json:"access_token"`
	ItemID      string `json:"item_id"`
}

// RawAccount is one account record as the aggregator reports it. Balances
// arrive as loosely typed numbers; normalization happens in the domain layer.
type RawAccount struct {
	AccountID       string      `json:"account_id"`
	Name            string      `json:"name"`
	OfficialName    string      `json:"official_name"`
	Type            string      `json:"type"`
	Subtype         string      `json:"subtype"`
	InstitutionName string      `json:"institution_name"`
	Balances        RawBalances `json:"balances"`
}

// RawBalances holds the reported balances. Available may be absent.
type RawBalances struct {
	Current   json.Number  `json:"current"`
	Available *json.Number `json:"available"`
}

// RawTransaction is one transaction record as the aggregator reports it.
type RawTransaction struct {
	TransactionID string      `json:"transaction_id"`
	AccountID     string      `json:"account_id"`
	Amount        json.Number `json:"amount"`
	Date          string      `json:"date"` // YYYY-MM-DD, no time component
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	Pending       bool        `json:"pending"`
}

type linkTokenRequest struct {
	UserID string `json:"user_id"`
}

type exchangeTokenRequest struct {
	PublicToken string `json:"public_token"`
}

type accountsRequest struct {
	AccessToken string `json:"access_token"`
}

type transactionsRequest struct {
	AccessToken string `json:"access_token"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type accountsResponse struct {
	Accounts []RawAccount `json:"accounts"`
}

type transactionsResponse struct {
	Transactions []RawTransaction `json:"transactions"`
	Total        int              `json:"total_transactions"`
}

// errorResponse represents an error body from the aggregator
type errorResponse struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// CreateLinkToken requests a short-lived link token scoped to the user.
func (c *Client) CreateLinkToken(ctx context.Context, userID string) (*LinkToken, error) {
	var token LinkToken
	if err := c.post(ctx, linkTokenPath, linkTokenRequest{UserID: userID}, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// ExchangePublicToken completes the link handshake, trading the public token
// produced by the client-side linking UI for a durable access credential.
// A retried exchange with an already-consumed token fails with ErrInvalidToken.
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (*AccessCredential, error) {
	var cred AccessCredential
	if err := c.post(ctx, exchangeTokenPath, exchangeTokenRequest{PublicToken: publicToken}, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// GetAccounts fetches all raw account records for one access credential.
func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]RawAccount, error) {
	var resp accountsResponse
	if err := c.post(ctx, accountsPath, accountsRequest{AccessToken: accessToken}, &resp); err != nil {
		return nil, err
	}
	return resp.Accounts, nil
}

// GetTransactions fetches raw transactions in [startDate, endDate] (YYYY-MM-DD).
func (c *Client) GetTransactions(ctx context.Context, accessToken, startDate, endDate string) ([]RawTransaction, error) {
	var resp transactionsResponse
	req := transactionsRequest{
		AccessToken: accessToken,
		StartDate:   startDate,
		EndDate:     endDate,
	}
	if err := c.post(ctx, transactionsPath, req, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

// post executes one JSON request against the aggregator and decodes the
// response into out. Non-200 responses and transport failures are classified
// into the package's error taxonomy.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("BANKFEED-CLIENT-ID", c.clientID)
	req.Header.Set("BANKFEED-SECRET", c.clientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network failures and timeouts are transient for this call only
		return &ProviderError{
			Code:      "NETWORK_ERROR",
			Message:   err.Error(),
			Retryable: true,
			Err:       ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ProviderError{
			Code:      "READ_ERROR",
			Message:   err.Error(),
			Retryable: true,
			Err:       ErrProviderUnavailable,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return c.classifyError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

// classifyError maps an aggregator error response to the package taxonomy.
func (c *Client) classifyError(status int, body []byte) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		errResp.ErrorCode = fmt.Sprintf("HTTP_%d", status)
		errResp.ErrorMessage = string(body)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		// Revoked or consumed credential: permanent, user must re-link
		return &ProviderError{
			Code:      errResp.ErrorCode,
			Message:   errResp.ErrorMessage,
			Retryable: false,
			Err:       ErrInvalidToken,
		}
	case status == http.StatusBadRequest || status == http.StatusConflict:
		if errResp.ErrorCode == "INVALID_PUBLIC_TOKEN" || errResp.ErrorCode == "PUBLIC_TOKEN_EXCHANGED" {
			return &ProviderError{
				Code:      errResp.ErrorCode,
				Message:   errResp.ErrorMessage,
				Retryable: false,
				Err:       ErrInvalidToken,
			}
		}
		return &ProviderError{
			Code:      errResp.ErrorCode,
			Message:   errResp.ErrorMessage,
			Retryable: false,
			Err:       ErrProviderRejected,
		}
	case status == http.StatusUnprocessableEntity:
		return &ProviderError{
			Code:      errResp.ErrorCode,
			Message:   errResp.ErrorMessage,
			Retryable: false,
			Err:       ErrProviderRejected,
		}
	case status == http.StatusTooManyRequests || status >= 500:
		return &ProviderError{
			Code:      errResp.ErrorCode,
			Message:   errResp.ErrorMessage,
			Retryable: true,
			Err:       ErrProviderUnavailable,
		}
	default:
		return &ProviderError{
			Code:      errResp.ErrorCode,
			Message:   errResp.ErrorMessage,
			Retryable: false,
			Err:       errors.New("unexpected provider response"),
		}
	}
}
