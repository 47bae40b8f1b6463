package banklink

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access methods for bank links
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*BankLink, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BankLink, error)
	ListActiveByUserID(ctx context.Context, userID int64) ([]*BankLink, error)
	MarkRevoked(ctx context.Context, id uuid.UUID) error
	ListUserIDsWithActiveLinks(ctx context.Context) ([]int64, error)
}
