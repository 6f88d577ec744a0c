package ports

import (
	"context"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

// Classifier is the remote genre-classification backend.
type Classifier interface {
	// Classify uploads the selected audio and returns the parsed result.
	Classify(ctx context.Context, sel domain.Selection) (domain.Classification, error)
	// Recommend queries the backend's own pre-ranked recommend endpoint.
	Recommend(ctx context.Context) (domain.DiscoverResult, error)
}
