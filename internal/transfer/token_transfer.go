package transfer

import (
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
)

// TokenCreation registers a platform credential. Platform may be a platform
// name or a platforms table id.
type TokenCreation struct {
	Platform  string     `json:"platform"`
	TokenName string     `json:"token_name"`
	Token     string     `json:"token"`
	PageID    string     `json:"page_id"`
	PageToken string     `json:"page_token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (t TokenCreation) Validate() error {
	return v.ValidateStruct(&t,
		v.Field(&t.Platform, v.Required),
		v.Field(&t.TokenName, v.Required, v.Length(1, 100)),
		v.Field(&t.Token, v.Required),
	)
}
