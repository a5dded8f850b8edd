package models

import (
	"time"
)

// SocialAccount is a stored platform credential. Platform holds whatever key
// the account was saved with: a canonical name or a platforms table id.
type SocialAccount struct {
	ID              int64      `db:"id" json:"id"`
	UserID          int64      `db:"user_id" json:"user_id"`
	Platform        string     `db:"platform" json:"platform"`
	TokenName       string     `db:"token_name" json:"token_name"`
	AccessToken     string     `db:"access_token" json:"-"`
	PageID          string     `db:"page_id" json:"page_id,omitempty"`
	PageAccessToken string     `db:"page_access_token" json:"-"`
	TokenExpiresAt  *time.Time `db:"token_expires_at" json:"token_expires_at,omitempty"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
