package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/maheshrc27/postflow/internal/models"
)

type LinkedInPublisher struct {
	baseURL string
}

func NewLinkedInPublisher(baseURL string) *LinkedInPublisher {
	if baseURL == "" {
		baseURL = "https://api.linkedin.com"
	}
	return &LinkedInPublisher{baseURL: strings.TrimRight(baseURL, "/")}
}

func (l *LinkedInPublisher) Platform() string {
	return models.PlatformLinkedIn
}

type ugcMedia struct {
	Status      string `json:"status"`
	OriginalURL string `json:"originalUrl"`
}

type ugcShareContent struct {
	ShareCommentary struct {
		Text string `json:"text"`
	} `json:"shareCommentary"`
	ShareMediaCategory string     `json:"shareMediaCategory"`
	Media              []ugcMedia `json:"media,omitempty"`
}

type ugcPost struct {
	Author          string                     `json:"author"`
	LifecycleState  string                     `json:"lifecycleState"`
	SpecificContent map[string]ugcShareContent `json:"specificContent"`
	Visibility      map[string]string          `json:"visibility"`
}

type ugcResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Publish shares a member post. PageID holds the LinkedIn person id.
func (l *LinkedInPublisher) Publish(ctx context.Context, msg Message, cred Credential) (string, error) {
	if cred.AccessToken == "" {
		return "", fmt.Errorf("%w: linkedin token", ErrMissingCredential)
	}
	if cred.PageID == "" {
		return "", fmt.Errorf("%w: linkedin person id", ErrMissingCredential)
	}

	content := ugcShareContent{ShareMediaCategory: "NONE"}
	content.ShareCommentary.Text = msg.Content
	if msg.ImageURL != "" {
		content.ShareMediaCategory = "ARTICLE"
		content.Media = []ugcMedia{{Status: "READY", OriginalURL: msg.ImageURL}}
	}

	body := ugcPost{
		Author:          "urn:li:person:" + cred.PageID,
		LifecycleState:  "PUBLISHED",
		SpecificContent: map[string]ugcShareContent{"com.linkedin.ugc.ShareContent": content},
		Visibility:      map[string]string{"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC"},
	}

	resp, err := bearerClient(ctx, l.baseURL, cred.AccessToken).R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Restli-Protocol-Version", "2.0.0").
		SetBody(body).
		Post("/v2/ugcPosts")
	if err != nil {
		return "", err
	}

	var ur ugcResponse
	_ = json.Unmarshal(resp.Body(), &ur)

	if resp.IsError() {
		if ur.Message != "" {
			return "", errors.New(ur.Message)
		}
		return "", fmt.Errorf("linkedin api returned status %d", resp.StatusCode())
	}

	id := ur.ID
	if id == "" {
		id = resp.Header().Get("X-Restli-Id")
	}
	if id == "" {
		return "", errors.New("linkedin api returned no post id")
	}
	return id, nil
}
