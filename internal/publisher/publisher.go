package publisher

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrMissingCredential   = errors.New("missing credential")
)

// Message is the platform-neutral content of a scheduled post.
type Message struct {
	Content  string
	ImageURL string
}

// Credential carries decrypted tokens. PageID and PageToken are set for
// platforms that publish as a page or business account.
type Credential struct {
	AccessToken string
	PageID      string
	PageToken   string
}

// ScopedToken returns the page token when present, otherwise the user token.
func (c Credential) ScopedToken() string {
	if c.PageToken != "" {
		return c.PageToken
	}
	return c.AccessToken
}

type Publisher interface {
	Platform() string
	Publish(ctx context.Context, msg Message, cred Credential) (remoteID string, err error)
}
