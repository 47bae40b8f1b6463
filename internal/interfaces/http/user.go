package http

import (
	"encoding/json"
	"log"
	"net/http"

	"buho/internal/domain/identity"
	"buho/internal/shared/middleware"
)

type UserHandler struct {
	resolver *identity.Resolver
}

func NewUserHandler(resolver *identity.Resolver) *UserHandler {
	return &UserHandler{resolver: resolver}
}

// HandleMe returns the current user
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.resolver.ResolveCurrent(r.Context(), userID)
	if err != nil {
		log.Printf("Error resolving user %d: %v", userID, err)
		http.Error(w, "Failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// Token was valid but the user is gone: stale session
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
