package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const DefaultGraphVersion = "v18.0"

// GraphClient talks to the Facebook Graph API, which serves both Facebook
// pages and Instagram business accounts.
type GraphClient struct {
	client  *resty.Client
	version string
}

func NewGraphClient(baseURL, version string) *GraphClient {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com"
	}
	if version == "" {
		version = DefaultGraphVersion
	}
	return &GraphClient{
		client:  resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")),
		version: version,
	}
}

type graphResponse struct {
	ID    string      `json:"id"`
	Error *graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

// post sends body as JSON to /{version}/{path} and returns the created object id.
func (g *GraphClient) post(ctx context.Context, path string, body map[string]string) (string, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/" + g.version + "/" + path)
	if err != nil {
		return "", err
	}

	var gr graphResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil && resp.IsSuccess() {
		return "", fmt.Errorf("decode graph response: %w", err)
	}

	if gr.Error != nil && gr.Error.Message != "" {
		return "", errors.New(gr.Error.Message)
	}
	if resp.IsError() {
		return "", fmt.Errorf("graph api returned status %d", resp.StatusCode())
	}
	if gr.ID == "" {
		return "", errors.New("graph api returned no id")
	}
	return gr.ID, nil
}
