package publisher

import (
	"context"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
)

// bearerClient returns a resty client whose transport attaches token as an
// OAuth2 bearer header.
func bearerClient(ctx context.Context, baseURL, token string) *resty.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return resty.NewWithClient(oauth2.NewClient(ctx, src)).SetBaseURL(baseURL)
}
