package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"buho/internal/domain/aggregation"
	"buho/internal/domain/transaction"
	"buho/internal/shared/middleware"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// TransactionsFacade is the slice of the aggregation facade the transaction
// handler needs.
type TransactionsFacade interface {
	GetTransactions(ctx context.Context, userID int64, page, pageSize int) (*aggregation.TransactionsResult, error)
}

type TransactionHandler struct {
	facade TransactionsFacade
}

func NewTransactionHandler(facade TransactionsFacade) *TransactionHandler {
	return &TransactionHandler{facade: facade}
}

type TransactionResponse struct {
	ID          string `json:"id"`
	AccountID   string `json:"accountId"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	PostedDate  string `json:"postedDate"`
	Pending     bool   `json:"pending"`
}

type TransactionListResponse struct {
	Status      string                   `json:"status"`
	Page        int                      `json:"page"`
	PageSize    int                      `json:"pageSize"`
	TotalItems  int                      `json:"totalItems"`
	Items       []TransactionResponse    `json:"items"`
	FailedLinks []aggregation.FailedLink `json:"failedLinks,omitempty"`
}

func toTransactionResponse(tx transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		AccountID:   tx.AccountID,
		Amount:      tx.Amount.StringFixed(2),
		Description: tx.Description,
		Category:    tx.Category,
		PostedDate:  tx.PostedDate.Format("2006-01-02"),
		Pending:     tx.Pending,
	}
}

// HandleListTransactions returns one page of the merged transaction history
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, err := queryInt(r, "page", defaultPage)
	if err != nil {
		http.Error(w, "page must be an integer", http.StatusBadRequest)
		return
	}
	pageSize, err := queryInt(r, "pageSize", defaultPageSize)
	if err != nil {
		http.Error(w, "pageSize must be an integer", http.StatusBadRequest)
		return
	}

	result, err := h.facade.GetTransactions(r.Context(), userID, page, pageSize)
	if err != nil {
		if errors.Is(err, transaction.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error aggregating transactions for user %d: %v", userID, err)
		http.Error(w, "Failed to load transactions", http.StatusInternalServerError)
		return
	}

	switch result.Status {
	case aggregation.StatusUnauthenticated:
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	case aggregation.StatusFailed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(TransactionListResponse{
			Status:      string(result.Status),
			Page:        page,
			PageSize:    pageSize,
			Items:       []TransactionResponse{},
			FailedLinks: result.FailedLinks,
		})
		return
	}

	items := make([]TransactionResponse, 0, len(result.Page.Items))
	for _, tx := range result.Page.Items {
		items = append(items, toTransactionResponse(tx))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TransactionListResponse{
		Status:      string(result.Status),
		Page:        result.Page.Number,
		PageSize:    result.Page.Size,
		TotalItems:  result.Page.TotalItems,
		Items:       items,
		FailedLinks: result.FailedLinks,
	})
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
