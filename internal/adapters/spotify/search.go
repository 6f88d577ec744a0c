package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

// SearchByGenre returns up to limit tracks matching the genre term, in the
// order the provider returned them.
func (c *Client) SearchByGenre(ctx context.Context, genre string, limit int) ([]domain.Track, error) {
	return c.search(ctx, fmt.Sprintf("genre:%q", genre), limit)
}

// SearchTracks runs a free-text track search, provider order, up to limit.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	return c.search(ctx, query, limit)
}

func (c *Client) search(ctx context.Context, q string, limit int) ([]domain.Track, error) {
	if limit < 1 {
		limit = 1
	}

	searchURL, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}
	query := searchURL.Query()
	query.Set("q", q)
	query.Set("type", "track")
	query.Set("limit", strconv.Itoa(limit))
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to create search request: %w", err)
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify adapter: search status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("spotify adapter: search decode error: %w", err)
	}

	return mapTracksToDomain(body.Tracks.Items), nil
}
