package notification

import (
	"context"
	"log"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new notification service. messenger may be nil when
// push delivery is not configured; notifications are then logged and dropped.
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.UpsertDeviceToken(ctx, params)
}

// SendRelinkRequired notifies all of a user's devices that an institution
// connection stopped working and must be linked again. Delivery failures are
// logged, not returned: a missed push never blocks the health check.
func (s *Service) SendRelinkRequired(ctx context.Context, userID int64, institutionName string) error {
	tokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(tokens) == 0 {
		log.Printf("No active device tokens for user %d", userID)
		return nil
	}

	if s.messenger == nil {
		log.Printf("Push delivery not configured, dropping re-link notification for user %d", userID)
		return nil
	}

	tokenStrings := make([]string, len(tokens))
	for i, t := range tokens {
		tokenStrings[i] = t.Token
	}

	title := "Reconnect your bank"
	body := institutionName + " needs to be linked again to keep your balances up to date."
	data := map[string]string{
		"route":       "my-banks",
		"institution": institutionName,
	}

	if err := s.messenger.SendMulticast(ctx, tokenStrings, title, body, data); err != nil {
		log.Printf("Error sending re-link notification to user %d: %v", userID, err)
	}

	return nil
}
