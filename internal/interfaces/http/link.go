package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/bankfeed"
	"buho/internal/shared/middleware"
)

type LinkHandler struct {
	service *banklink.Service
}

func NewLinkHandler(service *banklink.Service) *LinkHandler {
	return &LinkHandler{service: service}
}

type ExchangeRequest struct {
	PublicToken     string `json:"publicToken"`
	InstitutionName string `json:"institutionName"`
}

// HandleCreateLinkToken issues a short-lived token for the linking UI
func (h *LinkHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.service.CreateLinkToken(r.Context(), userID)
	if err != nil {
		log.Printf("Error creating link token for user %d: %v", userID, err)
		writeProviderError(w, err, "Failed to create link token")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(token)
}

// HandleExchange completes the link handshake
func (h *LinkHandler) HandleExchange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req ExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PublicToken == "" || req.InstitutionName == "" {
		http.Error(w, "publicToken and institutionName are required", http.StatusBadRequest)
		return
	}

	link, err := h.service.CompleteLink(r.Context(), userID, req.PublicToken, req.InstitutionName)
	if err != nil {
		log.Printf("Error completing link for user %d: %v", userID, err)
		if errors.Is(err, bankfeed.ErrInvalidToken) {
			http.Error(w, "Link token is invalid, expired, or already used", http.StatusBadRequest)
			return
		}
		writeProviderError(w, err, "Failed to complete link")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

// HandleListLinks returns the user's active links
func (h *LinkHandler) HandleListLinks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	links, err := h.service.ListActive(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing links for user %d: %v", userID, err)
		http.Error(w, "Failed to list links", http.StatusInternalServerError)
		return
	}

	if links == nil {
		links = []*banklink.BankLink{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(links)
}

// writeProviderError maps aggregator failures to response codes.
func writeProviderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, bankfeed.ErrProviderUnavailable):
		http.Error(w, "Bank feed provider is unavailable, try again later", http.StatusBadGateway)
	case errors.Is(err, bankfeed.ErrProviderRejected):
		http.Error(w, "Bank feed provider rejected the request", http.StatusUnprocessableEntity)
	default:
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}
