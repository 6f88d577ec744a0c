package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

// ErrTokenUnavailable indicates the catalog credential could not be acquired.
// Queries failing with it are treated as silent no-ops by the core.
var ErrTokenUnavailable = errors.New("catalog token unavailable")

// TokenError carries the underlying acquisition failure.
type TokenError struct {
	Err error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return ErrTokenUnavailable.Error()
	}
	return fmt.Sprintf("catalog token unavailable: %v", e.Err)
}

func (e *TokenError) Is(target error) bool {
	return target == ErrTokenUnavailable
}

func (e *TokenError) Unwrap() error { return e.Err }

// CatalogProvider is the bearer-token-authenticated track catalog.
type CatalogProvider interface {
	// SearchByGenre returns tracks matching a genre term, provider order,
	// capped at limit.
	SearchByGenre(ctx context.Context, genre string, limit int) ([]domain.Track, error)
	// SearchTracks runs a free-text track search, provider order, capped at
	// limit.
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error)
}
