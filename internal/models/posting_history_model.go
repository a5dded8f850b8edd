package models

import "time"

// PostingHistory records a single platform attempt for a post.
type PostingHistory struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	PostID       int64     `db:"post_id" json:"post_id"`
	AccountID    int64     `db:"account_id" json:"account_id,omitempty"`
	Platform     string    `db:"platform" json:"platform"`
	Success      bool      `db:"success" json:"success"`
	RemoteID     string    `db:"remote_id" json:"remote_id,omitempty"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
