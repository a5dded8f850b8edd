package models

import "time"

type Post struct {
	ID                  int64      `db:"id" json:"id"`
	UserID              int64      `db:"user_id" json:"user_id"`
	Content             string     `db:"content" json:"content"`
	Platforms           []string   `db:"platforms" json:"platforms"`
	ScheduledTime       time.Time  `db:"scheduled_time" json:"scheduled_time"`
	ImageURL            string     `db:"image_url" json:"image_url,omitempty"`
	ImagePrompt         string     `db:"image_prompt" json:"image_prompt,omitempty"`
	AIModel             string     `db:"ai_model" json:"ai_model,omitempty"`
	Status              string     `db:"status" json:"status"` // pending, processing, posted, partial, failed
	PostedAt            *time.Time `db:"posted_at" json:"posted_at,omitempty"`
	ErrorMessage        string     `db:"error_message" json:"error_message,omitempty"`
	ProcessingStartedAt *time.Time `db:"processing_started_at" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// PostOutcome is the final state the publisher writes back for a claimed post.
type PostOutcome struct {
	Status       string
	PostedAt     *time.Time
	ErrorMessage string
}

type PostFilter struct {
	Status   string
	Platform string
	Search   string
}

type PostStats struct {
	TotalPosts      int64 `json:"total_posts"`
	PendingPosts    int64 `json:"pending_posts"`
	SuccessfulPosts int64 `json:"successful_posts"`
	PartialPosts    int64 `json:"partial_posts"`
	FailedPosts     int64 `json:"failed_posts"`
	TotalImages     int64 `json:"total_images"`
	PostsThisMonth  int64 `json:"posts_this_month"`
}

const (
	PostStatusPending    = "pending"
	PostStatusProcessing = "processing"
	PostStatusPosted     = "posted"
	PostStatusPartial    = "partial"
	PostStatusFailed     = "failed"
)
