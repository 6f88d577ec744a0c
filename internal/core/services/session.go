// Package services holds the core session logic: the upload/classify
// pipeline, the playback coordinator, the debounced catalog search, and the
// discover fetcher. Adapters are injected through the ports package.
package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

// User-facing messages. Validation errors name the constraint; submission
// failures stay generic and leak no transport detail.
const (
	msgWrongType    = "Please select a WAV file"
	msgNoFile       = "Please select a file first."
	msgSubmitFailed = "Error processing the audio file. Please try again."
)

const (
	defaultProgressTick  = 100 * time.Millisecond
	defaultProgressTotal = 2 * time.Second
	recommendationLimit  = 40
)

// AnalysisQueue receives background preview-analysis jobs. Enqueue must not
// block.
type AnalysisQueue interface {
	Enqueue(entryID, previewURL string)
}

// Session sequences file selection, upload, remote classification, and the
// chained catalog recommendation fetch. All state transitions happen under one
// mutex; a generation counter makes responses of superseded submissions
// discardable instead of letting them overwrite newer state.
type Session struct {
	mu sync.Mutex

	classifier ports.Classifier
	catalog    ports.CatalogProvider
	history    ports.HistoryRepository // optional
	analysis   AnalysisQueue           // optional

	// Cosmetic progress simulation: a fixed-interval ticker that reaches
	// 100 after progressTotal. It is a UI affordance and deliberately not
	// derived from transfer bytes.
	progressTick  time.Duration
	progressTotal time.Duration

	gen       uint64
	selection *domain.Selection
	result    *domain.Classification
	tracks    []domain.Track
	errMsg    string
	busy      bool
	progress  int
}

// NewSession constructs a Session with default progress timing.
func NewSession(classifier ports.Classifier, catalog ports.CatalogProvider) *Session {
	return &Session{
		classifier:    classifier,
		catalog:       catalog,
		progressTick:  defaultProgressTick,
		progressTotal: defaultProgressTotal,
	}
}

// AttachHistory wires the optional history repository and analysis queue.
func (s *Session) AttachHistory(repo ports.HistoryRepository, queue AnalysisQueue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = repo
	s.analysis = queue
}

// SelectFile replaces the current selection after validating the declared
// media type. Rejection leaves the prior selection untouched and sets a
// validation error; acceptance clears the previous result, tracks, and error.
func (s *Session) SelectFile(sel domain.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sel.Validate(); err != nil {
		s.errMsg = msgWrongType
		return err
	}

	s.gen++ // in-flight responses for the old selection are now stale
	s.selection = &sel
	s.result = nil
	s.tracks = nil
	s.errMsg = ""
	return nil
}

// Clear unconditionally resets selection, result, error, progress, and
// tracks. Calling it twice yields the same empty state as once.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.selection = nil
	s.result = nil
	s.tracks = nil
	s.errMsg = ""
	s.progress = 0
	s.busy = false
}

// Submit uploads the current selection for classification and, on success,
// fetches catalog recommendations for the predicted genre. The classification
// response is awaited fully before the recommendation fetch is issued. A
// failed submission is terminal for that attempt; the caller must re-trigger
// manually.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.selection == nil {
		s.errMsg = msgNoFile
		s.mu.Unlock()
		return domain.ErrNoSelection
	}
	s.gen++
	gen := s.gen
	sel := *s.selection
	s.busy = true
	s.errMsg = ""
	s.result = nil
	s.tracks = nil
	s.progress = 0
	s.mu.Unlock()

	go s.runProgress(gen)

	result, err := s.classifier.Classify(ctx, sel)
	if err != nil {
		s.mu.Lock()
		if s.gen == gen {
			s.errMsg = msgSubmitFailed
			s.busy = false
		}
		s.mu.Unlock()
		return fmt.Errorf("session: classify: %w", err)
	}

	s.mu.Lock()
	if s.gen != gen {
		// Superseded by a newer select/clear/submit; discard.
		s.mu.Unlock()
		return nil
	}
	s.result = &result
	s.mu.Unlock()

	s.fetchRecommendations(ctx, gen, result.Genre)

	s.mu.Lock()
	if s.gen == gen {
		s.busy = false
	}
	s.mu.Unlock()

	s.recordHistory(ctx, result)
	return nil
}

// fetchRecommendations replaces the track collection wholesale on success.
// Failures are logged only; the prior collection stays untouched.
func (s *Session) fetchRecommendations(ctx context.Context, gen uint64, genre string) {
	tracks, err := s.catalog.SearchByGenre(ctx, genre, recommendationLimit)
	if err != nil {
		log.Printf("WARN session: recommendation fetch for genre %q failed: %v", genre, err)
		return
	}
	if tracks == nil {
		tracks = []domain.Track{}
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.tracks = tracks
	s.mu.Unlock()
}

func (s *Session) recordHistory(ctx context.Context, result domain.Classification) {
	s.mu.Lock()
	repo := s.history
	queue := s.analysis
	tracks := s.tracks
	s.mu.Unlock()
	if repo == nil {
		return
	}

	entry := domain.HistoryEntry{
		ID:        uuid.NewString(),
		Filename:  result.Filename,
		Genre:     result.Genre,
		Duration:  result.Duration,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Record(ctx, entry); err != nil {
		log.Printf("WARN session: record history: %v", err)
		return
	}

	if queue == nil {
		return
	}
	for _, track := range tracks {
		if track.HasPreview() {
			queue.Enqueue(entry.ID, track.PreviewURL)
			break // one representative preview per classification
		}
	}
}

// runProgress drives the cosmetic progress percentage. It keeps ticking to
// 100 regardless of when the network response lands and bails out as soon as
// the submission is superseded.
func (s *Session) runProgress(gen uint64) {
	tick := s.progressTick
	total := s.progressTotal
	if tick <= 0 {
		tick = defaultProgressTick
	}
	if total <= 0 {
		total = defaultProgressTotal
	}
	steps := int(total / tick)
	if steps < 1 {
		steps = 1
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for i := 1; i <= steps; i++ {
		<-ticker.C
		pct := i * 100 / steps
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		if pct > s.progress {
			s.progress = pct
		}
		s.mu.Unlock()
	}
}

// FileInfo is the display metadata of the current selection.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// View is a consistent snapshot of the session state.
type View struct {
	File     *FileInfo              `json:"file,omitempty"`
	Busy     bool                   `json:"busy"`
	Progress int                    `json:"progress"`
	Error    string                 `json:"error,omitempty"`
	Result   *domain.Classification `json:"result,omitempty"`
	Tracks   []domain.Track         `json:"tracks"`
}

// Snapshot returns the current session state for rendering.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Busy:     s.busy,
		Progress: s.progress,
		Error:    s.errMsg,
		Tracks:   append([]domain.Track(nil), s.tracks...),
	}
	if s.selection != nil {
		v.File = &FileInfo{Name: s.selection.Name, Size: s.selection.Size}
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}
