package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

const (
	defaultQuiescence = 500 * time.Millisecond
	searchLimit       = 5
)

// Searcher turns raw keystroke input into throttled catalog lookups. A lookup
// fires only after the quiescence interval has elapsed since the last
// keystroke; every keystroke before that cancels and reschedules the pending
// one. Results of a lookup that was superseded while in flight are discarded.
type Searcher struct {
	mu sync.Mutex

	catalog    ports.CatalogProvider
	quiescence time.Duration

	gen     uint64
	timer   *time.Timer
	query   string
	results []domain.Track
}

// NewSearcher constructs a Searcher with the default quiescence interval.
func NewSearcher(catalog ports.CatalogProvider) *Searcher {
	return &Searcher{
		catalog:    catalog,
		quiescence: defaultQuiescence,
	}
}

// Type registers one keystroke's worth of input. An empty query clears the
// results immediately without scheduling a lookup.
func (s *Searcher) Type(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.query = query
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if strings.TrimSpace(query) == "" {
		s.results = nil
		return
	}

	delay := s.quiescence
	if delay <= 0 {
		delay = defaultQuiescence
	}
	gen := s.gen
	s.timer = time.AfterFunc(delay, func() {
		s.lookup(gen, query)
	})
}

// Results returns the most recently applied lookup results.
func (s *Searcher) Results() []domain.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Track(nil), s.results...)
}

// Query returns the last typed query.
func (s *Searcher) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *Searcher) lookup(gen uint64, query string) {
	tracks, err := s.catalog.SearchTracks(context.Background(), query, searchLimit)
	if err != nil {
		// Silent path: search failures never surface to the user.
		log.Printf("WARN search: lookup %q failed: %v", query, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer keystroke arrived while this lookup was in flight.
		return
	}
	s.results = tracks
}
