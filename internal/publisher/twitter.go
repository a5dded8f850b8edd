package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
)

type TwitterPublisher struct {
	baseURL string
}

func NewTwitterPublisher(baseURL string) *TwitterPublisher {
	if baseURL == "" {
		baseURL = "https://api.twitter.com"
	}
	return &TwitterPublisher{baseURL: strings.TrimRight(baseURL, "/")}
}

func (t *TwitterPublisher) Platform() string {
	return models.PlatformTwitter
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r tweetResponse) errorMessage() string {
	if r.Detail != "" {
		return r.Detail
	}
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return r.Title
}

// Publish creates a tweet. The image, when set, is shared as a link in the text.
func (t *TwitterPublisher) Publish(ctx context.Context, msg Message, cred Credential) (string, error) {
	if cred.AccessToken == "" {
		return "", fmt.Errorf("%w: twitter token", ErrMissingCredential)
	}

	text := msg.Content
	if msg.ImageURL != "" {
		text = strings.TrimSpace(text + "\n\n" + msg.ImageURL)
	}

	resp, err := bearerClient(ctx, t.baseURL, cred.AccessToken).R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": text}).
		Post("/2/tweets")
	if err != nil {
		return "", err
	}

	var tr tweetResponse
	_ = json.Unmarshal(resp.Body(), &tr)

	if resp.IsError() {
		if m := tr.errorMessage(); m != "" {
			return "", errors.New(m)
		}
		return "", fmt.Errorf("twitter api returned status %d", resp.StatusCode())
	}
	if tr.Data.ID == "" {
		if m := tr.errorMessage(); m != "" {
			return "", errors.New(m)
		}
		return "", errors.New("twitter api returned no tweet id")
	}
	return tr.Data.ID, nil
}
