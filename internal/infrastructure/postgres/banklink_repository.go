package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"buho/internal/domain/banklink"
	"buho/internal/infrastructure/crypto"
)

// BankLinkRepository implements the banklink.Repository interface for
// PostgreSQL. Access tokens are encrypted before insert and decrypted on read.
type BankLinkRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

func NewBankLinkRepository(db *DB, encryptor *crypto.Encryptor) *BankLinkRepository {
	return &BankLinkRepository{db: db, encryptor: encryptor}
}

// Create inserts a new bank link with an encrypted access token
func (r *BankLinkRepository) Create(ctx context.Context, params banklink.CreateParams) (*banklink.BankLink, error) {
	encrypted, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO bank_links (id, user_id, item_id, institution_name, access_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, item_id, institution_name, created_at, revoked_at
	`

	var link banklink.BankLink
	var revokedAt sql.NullTime
	err = r.db.QueryRowContext(
		ctx, query,
		uuid.New(), params.UserID, params.ItemID, params.InstitutionName, encrypted,
	).Scan(
		&link.ID, &link.UserID, &link.ItemID, &link.InstitutionName,
		&link.CreatedAt, &revokedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create bank link: %w", err)
	}

	if revokedAt.Valid {
		link.RevokedAt = &revokedAt.Time
	}
	link.AccessToken = params.AccessToken

	return &link, nil
}

// GetByID retrieves a bank link by its ID
func (r *BankLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*banklink.BankLink, error) {
	query := `
		SELECT id, user_id, item_id, institution_name, access_token, created_at, revoked_at
		FROM bank_links
		WHERE id = $1
	`

	var link banklink.BankLink
	var encrypted string
	var revokedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&link.ID, &link.UserID, &link.ItemID, &link.InstitutionName,
		&encrypted, &link.CreatedAt, &revokedAt,
	)

	if err == sql.ErrNoRows {
		return nil, banklink.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bank link: %w", err)
	}

	if revokedAt.Valid {
		link.RevokedAt = &revokedAt.Time
	}

	link.AccessToken, err = r.encryptor.Decrypt(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}

	return &link, nil
}

// ListActiveByUserID retrieves all non-revoked links for a user, newest first
func (r *BankLinkRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]*banklink.BankLink, error) {
	query := `
		SELECT id, user_id, item_id, institution_name, access_token, created_at, revoked_at
		FROM bank_links
		WHERE user_id = $1 AND revoked_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank links: %w", err)
	}
	defer rows.Close()

	var links []*banklink.BankLink
	for rows.Next() {
		var link banklink.BankLink
		var encrypted string
		var revokedAt sql.NullTime

		err := rows.Scan(
			&link.ID, &link.UserID, &link.ItemID, &link.InstitutionName,
			&encrypted, &link.CreatedAt, &revokedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank link: %w", err)
		}

		if revokedAt.Valid {
			link.RevokedAt = &revokedAt.Time
		}

		link.AccessToken, err = r.encryptor.Decrypt(encrypted)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt access token: %w", err)
		}

		links = append(links, &link)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank links: %w", err)
	}

	return links, nil
}

// MarkRevoked flags a link as revoked. Revoked links keep their row so the
// history of a connection survives, but they are excluded from aggregation.
func (r *BankLinkRepository) MarkRevoked(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE bank_links
		SET revoked_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND revoked_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke bank link: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return banklink.ErrLinkNotFound
	}

	return nil
}

// ListUserIDsWithActiveLinks returns the IDs of users holding at least one
// active link. Used by the scheduled link health check.
func (r *BankLinkRepository) ListUserIDsWithActiveLinks(ctx context.Context) ([]int64, error) {
	query := `
		SELECT DISTINCT user_id
		FROM bank_links
		WHERE revoked_at IS NULL
		ORDER BY user_id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list user IDs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user IDs: %w", err)
	}

	return ids, nil
}
