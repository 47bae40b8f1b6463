package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"buho/internal/domain/account"
	"buho/internal/domain/aggregation"
	"buho/internal/shared/middleware"
)

// AccountsFacade is the slice of the aggregation facade the account handler needs.
type AccountsFacade interface {
	GetAccounts(ctx context.Context, userID int64) (*aggregation.AccountsResult, error)
	GetAccount(ctx context.Context, userID int64, accountID string) (*account.Account, error)
}

type AccountHandler struct {
	facade AccountsFacade
}

func NewAccountHandler(facade AccountsFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// AccountResponse carries balances as fixed-point strings so clients never
// see float rounding artifacts.
type AccountResponse struct {
	ID               string  `json:"id"`
	InstitutionName  string  `json:"institutionName"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"officialName,omitempty"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype,omitempty"`
	CurrentBalance   string  `json:"currentBalance"`
	AvailableBalance *string `json:"availableBalance,omitempty"`
}

type AccountListResponse struct {
	Status              string                   `json:"status"`
	Accounts            []AccountResponse        `json:"accounts"`
	TotalBanks          int                      `json:"totalBanks"`
	TotalCurrentBalance string                   `json:"totalCurrentBalance"`
	FailedLinks         []aggregation.FailedLink `json:"failedLinks,omitempty"`
}

func toAccountResponse(acc account.Account) AccountResponse {
	resp := AccountResponse{
		ID:              acc.ID,
		InstitutionName: acc.InstitutionName,
		Name:            acc.Name,
		OfficialName:    acc.OfficialName,
		Type:            string(acc.Type),
		Subtype:         acc.Subtype,
		CurrentBalance:  acc.CurrentBalance.StringFixed(2),
	}
	if acc.AvailableBalance != nil {
		s := acc.AvailableBalance.StringFixed(2)
		resp.AvailableBalance = &s
	}
	return resp
}

// HandleListAccounts returns all accounts across the user's linked banks plus
// the consolidated balance
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result, err := h.facade.GetAccounts(r.Context(), userID)
	if err != nil {
		log.Printf("Error aggregating accounts for user %d: %v", userID, err)
		http.Error(w, "Failed to load accounts", http.StatusInternalServerError)
		return
	}

	switch result.Status {
	case aggregation.StatusUnauthenticated:
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	case aggregation.StatusFailed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(AccountListResponse{
			Status:              string(result.Status),
			Accounts:            []AccountResponse{},
			TotalCurrentBalance: "0.00",
			FailedLinks:         result.FailedLinks,
		})
		return
	}

	accounts := make([]AccountResponse, 0, len(result.Accounts))
	for _, acc := range result.Accounts {
		accounts = append(accounts, toAccountResponse(acc))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(AccountListResponse{
		Status:              string(result.Status),
		Accounts:            accounts,
		TotalBanks:          result.Aggregate.TotalBanks,
		TotalCurrentBalance: result.Aggregate.TotalCurrentBalance.StringFixed(2),
		FailedLinks:         result.FailedLinks,
	})
}

// HandleAccountByID returns one account by ID
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Account ID is required", http.StatusBadRequest)
		return
	}

	acc, err := h.facade.GetAccount(r.Context(), userID, accountID)
	if err != nil {
		if errors.Is(err, aggregation.ErrAccountNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error loading account %s for user %d: %v", accountID, userID, err)
		http.Error(w, "Failed to load account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAccountResponse(*acc))
}
