package banklink

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"buho/internal/infrastructure/bankfeed"
)

// Service orchestrates the link handshake with the aggregator and manages
// stored links.
type Service struct {
	repo   Repository
	client bankfeed.ClientInterface
}

func NewService(repo Repository, client bankfeed.ClientInterface) *Service {
	return &Service{repo: repo, client: client}
}

// CreateLinkToken requests a short-lived token the frontend uses to open the
// institution-linking UI.
func (s *Service) CreateLinkToken(ctx context.Context, userID int64) (*bankfeed.LinkToken, error) {
	token, err := s.client.CreateLinkToken(ctx, strconv.FormatInt(userID, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to create link token: %w", err)
	}
	return token, nil
}

// CompleteLink exchanges the public token produced by the linking UI for a
// durable credential and persists the resulting link. Token errors from the
// exchange (expired, already consumed) pass through unwrapped so handlers can
// classify them with errors.Is.
func (s *Service) CompleteLink(ctx context.Context, userID int64, publicToken, institutionName string) (*BankLink, error) {
	cred, err := s.client.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, err
	}

	link, err := s.repo.Create(ctx, CreateParams{
		UserID:          userID,
		ItemID:          cred.ItemID,
		InstitutionName: institutionName,
		AccessToken:     cred.AccessToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist bank link: %w", err)
	}

	log.Printf("Bank link created: user=%d institution=%s item=%s", userID, institutionName, cred.ItemID)
	return link, nil
}

// ListActive returns the user's active links, newest first.
func (s *Service) ListActive(ctx context.Context, userID int64) ([]*BankLink, error) {
	links, err := s.repo.ListActiveByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	return links, nil
}
