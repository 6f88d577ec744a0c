// Package spotify provides the catalog adapter: bearer-token authentication,
// track search, and mapping of the wire format into domain tracks.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// Client is an HTTP client for the Spotify Web API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	auth       TokenProvider

	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a catalog client against the real API.
func NewClient(auth TokenProvider) *Client {
	return NewClientWithBaseURL(&http.Client{Timeout: 15 * time.Second}, defaultBaseURL, auth)
}

// NewClientWithBaseURL constructs a client against an arbitrary base URL.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string, auth TokenProvider) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
	}
}

// authorize injects the bearer token, acquiring it from the credential cache.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.auth == nil {
		return fmt.Errorf("spotify adapter: no token provider configured")
	}
	token, err := c.auth.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify adapter: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}
