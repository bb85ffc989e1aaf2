package drive

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Drive API client for one user's token
type Client struct {
	service *drive.Service
}

// NewClient creates a new Drive client with the given OAuth token. The token
// source refreshes the token automatically using oauthConfig.
func NewClient(ctx context.Context, oauthConfig *oauth2.Config, token *oauth2.Token) (*Client, error) {
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, token))

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return &Client{service: srv}, nil
}
