package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

const msgDiscoverFailed = "Failed to fetch recommendations"

// Discover drives the classifier backend's own recommend endpoint. It is
// triggered by explicit user action only and keeps busy/error state fully
// independent of the upload pipeline.
type Discover struct {
	mu sync.Mutex

	classifier ports.Classifier

	busy   bool
	errMsg string
	result *domain.DiscoverResult
}

// NewDiscover constructs a Discover fetcher.
func NewDiscover(classifier ports.Classifier) *Discover {
	return &Discover{classifier: classifier}
}

// Fetch queries the recommend endpoint, replacing any previous result. The
// backend returns entries pre-sorted by similarity; they are kept in that
// order.
func (d *Discover) Fetch(ctx context.Context) error {
	d.mu.Lock()
	d.busy = true
	d.errMsg = ""
	d.result = nil
	d.mu.Unlock()

	result, err := d.classifier.Recommend(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = false
	if err != nil {
		d.errMsg = msgDiscoverFailed
		return fmt.Errorf("discover: %w", err)
	}
	d.result = &result
	return nil
}

// DiscoverView is a consistent snapshot of the discover state.
type DiscoverView struct {
	Busy   bool                  `json:"busy"`
	Error  string                `json:"error,omitempty"`
	Result *domain.DiscoverResult `json:"result,omitempty"`
}

// Snapshot returns the current discover state for rendering.
func (d *Discover) Snapshot() DiscoverView {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := DiscoverView{Busy: d.busy, Error: d.errMsg}
	if d.result != nil {
		r := *d.result
		v.Result = &r
	}
	return v
}
