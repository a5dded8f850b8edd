package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow/internal/models"
)

type PostingHistoryRepository interface {
	Create(ctx context.Context, ph *models.PostingHistory) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error)
}

type postingHistoryRepository struct {
	db *sql.DB
}

func NewPostingHistoryRepository(db *sql.DB) PostingHistoryRepository {
	return &postingHistoryRepository{db: db}
}

func (r *postingHistoryRepository) Create(ctx context.Context, ph *models.PostingHistory) (int64, error) {
	query := `
		INSERT INTO posting_history (user_id, post_id, account_id, platform, success, remote_id, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		ph.UserID,
		ph.PostID,
		nullInt64(ph.AccountID),
		ph.Platform,
		ph.Success,
		nullString(ph.RemoteID),
		nullString(ph.ErrorMessage),
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postingHistoryRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostingHistory, error) {
	query := `SELECT id, user_id, post_id, account_id, platform, success, remote_id, error_message, created_at
		FROM posting_history WHERE post_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var phs []*models.PostingHistory
	for rows.Next() {
		var (
			ph           models.PostingHistory
			accountID    sql.NullInt64
			remoteID     sql.NullString
			errorMessage sql.NullString
		)
		err := rows.Scan(&ph.ID, &ph.UserID, &ph.PostID, &accountID, &ph.Platform, &ph.Success,
			&remoteID, &errorMessage, &ph.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ph.AccountID = accountID.Int64
		ph.RemoteID = remoteID.String
		ph.ErrorMessage = errorMessage.String
		phs = append(phs, &ph)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return phs, nil
}
