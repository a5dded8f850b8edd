package publisher

import (
	"context"
	"errors"
	"fmt"

	"github.com/maheshrc27/postflow/internal/models"
)

var ErrImageRequired = errors.New("instagram requires an image")

type InstagramPublisher struct {
	graph *GraphClient
}

func NewInstagramPublisher(graph *GraphClient) *InstagramPublisher {
	return &InstagramPublisher{graph: graph}
}

func (ig *InstagramPublisher) Platform() string {
	return models.PlatformInstagram
}

// Publish creates a media container for the business account and then
// publishes it. Nothing is published when the container call fails.
func (ig *InstagramPublisher) Publish(ctx context.Context, msg Message, cred Credential) (string, error) {
	if msg.ImageURL == "" {
		return "", ErrImageRequired
	}
	if cred.PageID == "" {
		return "", fmt.Errorf("%w: instagram business account id", ErrMissingCredential)
	}
	token := cred.ScopedToken()
	if token == "" {
		return "", fmt.Errorf("%w: instagram token", ErrMissingCredential)
	}

	creationID, err := ig.graph.post(ctx, cred.PageID+"/media", map[string]string{
		"image_url":    msg.ImageURL,
		"caption":      msg.Content,
		"access_token": token,
	})
	if err != nil {
		return "", fmt.Errorf("create media container: %w", err)
	}

	mediaID, err := ig.graph.post(ctx, cred.PageID+"/media_publish", map[string]string{
		"creation_id":  creationID,
		"access_token": token,
	})
	if err != nil {
		return "", fmt.Errorf("publish media container: %w", err)
	}

	return mediaID, nil
}
