package publisher

import (
	"context"
	"fmt"

	"github.com/maheshrc27/postflow/internal/models"
)

type FacebookPublisher struct {
	graph *GraphClient
}

func NewFacebookPublisher(graph *GraphClient) *FacebookPublisher {
	return &FacebookPublisher{graph: graph}
}

func (f *FacebookPublisher) Platform() string {
	return models.PlatformFacebook
}

// Publish posts to the page feed with the page-scoped token.
func (f *FacebookPublisher) Publish(ctx context.Context, msg Message, cred Credential) (string, error) {
	if cred.PageID == "" {
		return "", fmt.Errorf("%w: facebook page id", ErrMissingCredential)
	}
	token := cred.ScopedToken()
	if token == "" {
		return "", fmt.Errorf("%w: facebook token", ErrMissingCredential)
	}

	body := map[string]string{
		"message":      msg.Content,
		"access_token": token,
	}
	if msg.ImageURL != "" {
		body["link"] = msg.ImageURL
	}

	return f.graph.post(ctx, cred.PageID+"/feed", body)
}
