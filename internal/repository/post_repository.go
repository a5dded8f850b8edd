package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/maheshrc27/postflow/internal/models"
)

type PostRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (int64, error)
	ListByUserID(ctx context.Context, userID int64, filter models.PostFilter) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	Remove(ctx context.Context, id int64) error
	ListDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]*models.Post, error)
	Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error)
	Complete(ctx context.Context, id int64, outcome models.PostOutcome) error
	Reschedule(ctx context.Context, id int64, scheduledTime time.Time) error
	Stats(ctx context.Context, userID int64, monthStart time.Time) (*models.PostStats, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, content, platforms, scheduled_time, image_url, image_prompt, ai_model,
	status, posted_at, error_message, processing_started_at, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO social_posts (user_id, content, platforms, scheduled_time, image_url, image_prompt, ai_model, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.UserID,
		post.Content,
		pq.Array(post.Platforms),
		post.ScheduledTime,
		nullString(post.ImageURL),
		nullString(post.ImagePrompt),
		nullString(post.AIModel),
		models.PostStatusPending,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM social_posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return post, nil
}

func (r *postRepository) ListByUserID(ctx context.Context, userID int64, filter models.PostFilter) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM social_posts WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Status != "" && filter.Status != "all" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Platform != "" && filter.Platform != "all" {
		args = append(args, filter.Platform)
		query += fmt.Sprintf(" AND $%d = ANY(platforms)", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND content ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE social_posts
		SET content = $1,
			platforms = $2,
			scheduled_time = $3,
			image_url = $4,
			image_prompt = $5,
			ai_model = $6,
			updated_at = $7
		WHERE id = $8 AND status = $9
	`
	result, err := r.db.ExecContext(ctx, query,
		post.Content,
		pq.Array(post.Platforms),
		post.ScheduledTime,
		nullString(post.ImageURL),
		nullString(post.ImagePrompt),
		nullString(post.AIModel),
		time.Now(),
		post.ID,
		models.PostStatusPending,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return expectOneRow(result)
}

func (r *postRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM social_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

func (r *postRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM social_posts WHERE id = $1 AND status <> $2`
	result, err := r.db.ExecContext(ctx, query, id, models.PostStatusProcessing)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOneRow(result)
}

// ListDue returns pending posts whose scheduled time has passed together with
// posts whose processing lease expired before staleBefore, oldest first.
func (r *postRepository) ListDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM social_posts
		WHERE (status = $1 AND scheduled_time <= $2)
		OR (status = $3 AND processing_started_at < $4)
		ORDER BY scheduled_time ASC
		LIMIT $5`

	rows, err := r.db.QueryContext(ctx, query,
		models.PostStatusPending, now,
		models.PostStatusProcessing, staleBefore,
		limit,
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *postRepository) Claim(ctx context.Context, id int64, now, staleBefore time.Time) (bool, error) {
	query := `
		UPDATE social_posts
		SET status = $1,
			processing_started_at = $2,
			updated_at = $2
		WHERE id = $3
		AND ((status = $4 AND scheduled_time <= $2) OR (status = $1 AND processing_started_at < $5))
	`
	result, err := r.db.ExecContext(ctx, query,
		models.PostStatusProcessing, now, id, models.PostStatusPending, staleBefore)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return affected == 1, nil
}

func (r *postRepository) Complete(ctx context.Context, id int64, outcome models.PostOutcome) error {
	query := `
		UPDATE social_posts
		SET status = $1,
			posted_at = $2,
			error_message = $3,
			processing_started_at = NULL,
			updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		outcome.Status, nullTime(outcome.PostedAt), nullString(outcome.ErrorMessage), time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) Reschedule(ctx context.Context, id int64, scheduledTime time.Time) error {
	query := `
		UPDATE social_posts
		SET status = $1,
			scheduled_time = $2,
			posted_at = NULL,
			error_message = NULL,
			processing_started_at = NULL,
			updated_at = $3
		WHERE id = $4 AND status IN ($1, $5, $6)
	`
	result, err := r.db.ExecContext(ctx, query,
		models.PostStatusPending, scheduledTime, time.Now(), id,
		models.PostStatusFailed, models.PostStatusPartial)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return expectOneRow(result)
}

func (r *postRepository) Stats(ctx context.Context, userID int64, monthStart time.Time) (*models.PostStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = $2 THEN 1 END),
			COUNT(CASE WHEN status = $3 THEN 1 END),
			COUNT(CASE WHEN status = $4 THEN 1 END),
			COUNT(CASE WHEN status = $5 THEN 1 END),
			COUNT(CASE WHEN image_url IS NOT NULL THEN 1 END),
			COUNT(CASE WHEN created_at >= $6 THEN 1 END)
		FROM social_posts
		WHERE user_id = $1
	`
	var stats models.PostStats
	err := r.db.QueryRowContext(ctx, query, userID,
		models.PostStatusPending, models.PostStatusPosted, models.PostStatusPartial, models.PostStatusFailed,
		monthStart,
	).Scan(
		&stats.TotalPosts,
		&stats.PendingPosts,
		&stats.SuccessfulPosts,
		&stats.PartialPosts,
		&stats.FailedPosts,
		&stats.TotalImages,
		&stats.PostsThisMonth,
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return &stats, nil
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post                models.Post
		imageURL            sql.NullString
		imagePrompt         sql.NullString
		aiModel             sql.NullString
		postedAt            sql.NullTime
		errorMessage        sql.NullString
		processingStartedAt sql.NullTime
	)

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Content,
		pq.Array(&post.Platforms),
		&post.ScheduledTime,
		&imageURL,
		&imagePrompt,
		&aiModel,
		&post.Status,
		&postedAt,
		&errorMessage,
		&processingStartedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.ImageURL = imageURL.String
	post.ImagePrompt = imagePrompt.String
	post.AIModel = aiModel.String
	post.ErrorMessage = errorMessage.String
	post.PostedAt = timePtr(postedAt)
	post.ProcessingStartedAt = timePtr(processingStartedAt)

	return &post, nil
}

func scanPosts(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return posts, nil
}
