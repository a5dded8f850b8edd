package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow/internal/models"
)

type SocialAccountRepository interface {
	Create(ctx context.Context, sa *models.SocialAccount) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.SocialAccount, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	ListActiveByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	Remove(ctx context.Context, id int64) error
}

type socialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) SocialAccountRepository {
	return &socialAccountRepository{db: db}
}

const socialAccountColumns = `id, user_id, platform, token_name, access_token, page_id, page_access_token,
	token_expires_at, is_active, created_at, updated_at`

func (r *socialAccountRepository) Create(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	insertQuery := `
		INSERT INTO social_accounts(
			user_id,
			platform,
			token_name,
			access_token,
			page_id,
			page_access_token,
			token_expires_at,
			is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, insertQuery,
		sa.UserID,
		sa.Platform,
		sa.TokenName,
		sa.AccessToken,
		nullString(sa.PageID),
		nullString(sa.PageAccessToken),
		nullTime(sa.TokenExpiresAt),
		sa.IsActive,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *socialAccountRepository) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	sa, err := scanSocialAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return sa, nil
}

func (r *socialAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListActiveByUserID returns the user's active credentials, most recently
// updated first.
func (r *socialAccountRepository) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	query := `SELECT ` + socialAccountColumns + ` FROM social_accounts
		WHERE user_id = $1 AND is_active = true
		ORDER BY updated_at DESC`
	return r.list(ctx, query, userID)
}

func (r *socialAccountRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var accounts []*models.SocialAccount
	for rows.Next() {
		sa, err := scanSocialAccount(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		accounts = append(accounts, sa)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return accounts, nil
}

func (r *socialAccountRepository) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	query := "SELECT 1 FROM social_accounts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, accountID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *socialAccountRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := `UPDATE social_accounts SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOneRow(result)
}

func (r *socialAccountRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE social_accounts
		SET is_active = false,
			updated_at = CURRENT_TIMESTAMP
		WHERE is_active = true
		AND token_expires_at IS NOT NULL
		AND token_expires_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return affected, nil
}

func (r *socialAccountRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM social_accounts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanSocialAccount(row rowScanner) (*models.SocialAccount, error) {
	var (
		sa              models.SocialAccount
		pageID          sql.NullString
		pageAccessToken sql.NullString
		expiresAt       sql.NullTime
	)

	err := row.Scan(&sa.ID, &sa.UserID, &sa.Platform, &sa.TokenName, &sa.AccessToken,
		&pageID, &pageAccessToken, &expiresAt, &sa.IsActive, &sa.CreatedAt, &sa.UpdatedAt)
	if err != nil {
		return nil, err
	}

	sa.PageID = pageID.String
	sa.PageAccessToken = pageAccessToken.String
	sa.TokenExpiresAt = timePtr(expiresAt)
	return &sa, nil
}
