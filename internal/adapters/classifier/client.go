// Package classifier provides an adapter for the genre-classification
// backend. It uploads audio payloads for prediction and fetches the backend's
// pre-ranked recommendation list.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// uploadFieldName is the multipart field the backend expects the audio under.
const uploadFieldName = "file"

// compile-time interface assertion
var _ ports.Classifier = (*Client)(nil)

// Client is an HTTP client for the classification backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a classifier client. An empty baseURL falls back to
// the local development backend.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Classify uploads the selection as a multipart body and parses the
// prediction response. Any non-2xx status is a failure.
func (c *Client) Classify(ctx context.Context, sel domain.Selection) (domain.Classification, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(uploadFieldName, sel.Name)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: build form: %w", err)
	}
	if _, err := part.Write(sel.Payload); err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: write payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/predict", &body)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Classification{}, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}

	var result domain.Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Classification{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	return result, nil
}

// Recommend queries the backend's recommend endpoint. The list arrives
// pre-sorted by similarity and is returned untouched.
func (c *Client) Recommend(ctx context.Context) (domain.DiscoverResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/recommend", nil)
	if err != nil {
		return domain.DiscoverResult{}, fmt.Errorf("classifier: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.DiscoverResult{}, fmt.Errorf("classifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.DiscoverResult{}, fmt.Errorf("classifier: unexpected status %d", resp.StatusCode)
	}

	var result domain.DiscoverResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.DiscoverResult{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	return result, nil
}
