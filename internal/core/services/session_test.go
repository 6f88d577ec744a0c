package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

func wavSelection(name string, size int64) domain.Selection {
	return domain.Selection{
		Name:      name,
		MediaType: domain.WAVMediaType,
		Size:      size,
		Payload:   []byte("RIFF"),
	}
}

func TestSession_SelectFile(t *testing.T) {
	tests := []struct {
		name         string
		prior        *domain.Selection
		candidate    domain.Selection
		wantErr      error
		wantSelected string // expected selection name after the call, "" for none
		wantErrMsg   string
	}{
		{
			name:         "accepts wav",
			candidate:    wavSelection("sample.wav", 2<<20),
			wantSelected: "sample.wav",
		},
		{
			name:       "rejects mpeg and keeps nothing",
			candidate:  domain.Selection{Name: "song.mp3", MediaType: "audio/mpeg", Size: 1024},
			wantErr:    domain.ErrUnsupportedMedia,
			wantErrMsg: msgWrongType,
		},
		{
			name:         "rejects mpeg and keeps prior selection",
			prior:        ptrSelection(wavSelection("keep.wav", 10)),
			candidate:    domain.Selection{Name: "song.mp3", MediaType: "audio/mpeg"},
			wantErr:      domain.ErrUnsupportedMedia,
			wantSelected: "keep.wav",
			wantErrMsg:   msgWrongType,
		},
		{
			name:         "replacing selection clears prior result",
			prior:        ptrSelection(wavSelection("old.wav", 10)),
			candidate:    wavSelection("new.wav", 20),
			wantSelected: "new.wav",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clf := &mockClassifier{}
			cat := &mockCatalog{}
			s := NewSession(clf, cat)
			s.selection = tc.prior
			s.result = &domain.Classification{Genre: "stale"}
			s.tracks = []domain.Track{{ID: "stale"}}

			err := s.SelectFile(tc.candidate)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error: got %v, want %v", err, tc.wantErr)
			}

			view := s.Snapshot()
			gotName := ""
			if view.File != nil {
				gotName = view.File.Name
			}
			if gotName != tc.wantSelected {
				t.Errorf("selection: got %q, want %q", gotName, tc.wantSelected)
			}
			if view.Error != tc.wantErrMsg {
				t.Errorf("error message: got %q, want %q", view.Error, tc.wantErrMsg)
			}
			if clf.calls() != 0 {
				t.Errorf("selectFile must never hit the network, got %d calls", clf.calls())
			}
			if tc.wantErr == nil {
				if view.Result != nil {
					t.Error("acceptance must clear the prior classification result")
				}
				if len(view.Tracks) != 0 {
					t.Error("acceptance must clear prior catalog tracks")
				}
			}
		})
	}
}

func TestSession_Clear_Idempotent(t *testing.T) {
	s := NewSession(&mockClassifier{}, &mockCatalog{})
	if err := s.SelectFile(wavSelection("sample.wav", 100)); err != nil {
		t.Fatalf("select: %v", err)
	}
	s.result = &domain.Classification{Genre: "jazz"}
	s.errMsg = "boom"
	s.progress = 40

	s.Clear()
	first := s.Snapshot()
	s.Clear()
	second := s.Snapshot()

	for _, view := range []View{first, second} {
		if view.File != nil || view.Result != nil || view.Error != "" ||
			view.Progress != 0 || view.Busy || len(view.Tracks) != 0 {
			t.Fatalf("clear must produce an empty state, got %+v", view)
		}
	}
}

func TestSession_Submit(t *testing.T) {
	duration := 12.5
	tests := []struct {
		name         string
		selection    *domain.Selection
		classifier   *mockClassifier
		catalog      *mockCatalog
		wantErr      bool
		wantErrMsg   string
		wantGenre    string
		wantFetches  []string
		wantTrackIDs []string
	}{
		{
			name:      "happy path chains exactly one recommendation fetch",
			selection: ptrSelection(wavSelection("sample.wav", 2<<20)),
			classifier: &mockClassifier{
				result: domain.Classification{
					Message:  "ok",
					Filename: "sample.wav",
					Duration: &duration,
					Genre:    "jazz",
				},
			},
			catalog: &mockCatalog{
				tracks: []domain.Track{{ID: "t1"}, {ID: "t2"}},
			},
			wantGenre:    "jazz",
			wantFetches:  []string{"jazz"},
			wantTrackIDs: []string{"t1", "t2"},
		},
		{
			name:       "no selection fails without a network call",
			selection:  nil,
			classifier: &mockClassifier{},
			catalog:    &mockCatalog{},
			wantErr:    true,
			wantErrMsg: msgNoFile,
		},
		{
			name:      "classification failure is generic and terminal",
			selection: ptrSelection(wavSelection("sample.wav", 100)),
			classifier: &mockClassifier{
				err: errors.New("status 500"),
			},
			catalog:    &mockCatalog{},
			wantErr:    true,
			wantErrMsg: msgSubmitFailed,
		},
		{
			name:      "catalog failure stays silent",
			selection: ptrSelection(wavSelection("sample.wav", 100)),
			classifier: &mockClassifier{
				result: domain.Classification{Genre: "rock"},
			},
			catalog: &mockCatalog{
				err: errors.New("catalog down"),
			},
			wantGenre:   "rock",
			wantFetches: []string{"rock"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cat := tc.catalog
			s := &Session{
				classifier:    tc.classifier,
				catalog:       cat,
				progressTick:  time.Millisecond,
				progressTotal: 10 * time.Millisecond,
			}
			s.selection = tc.selection

			err := s.Submit(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("error state: got err=%v, wantErr=%v", err, tc.wantErr)
			}

			view := s.Snapshot()
			if view.Busy {
				t.Error("busy must be cleared after submit settles")
			}
			if view.Error != tc.wantErrMsg {
				t.Errorf("error message: got %q, want %q", view.Error, tc.wantErrMsg)
			}

			if tc.wantGenre == "" {
				if view.Result != nil {
					t.Errorf("expected nil result, got %+v", view.Result)
				}
			} else {
				if view.Result == nil {
					t.Fatal("expected a classification result")
				}
				if view.Result.Genre != tc.wantGenre {
					t.Errorf("genre: got %q, want %q", view.Result.Genre, tc.wantGenre)
				}
			}

			fetches := cat.genreQueries()
			if len(fetches) != len(tc.wantFetches) {
				t.Fatalf("recommendation fetches: got %v, want %v", fetches, tc.wantFetches)
			}
			for i := range fetches {
				if fetches[i] != tc.wantFetches[i] {
					t.Fatalf("recommendation fetches: got %v, want %v", fetches, tc.wantFetches)
				}
			}

			if len(view.Tracks) != len(tc.wantTrackIDs) {
				t.Fatalf("tracks: got %d, want %d", len(view.Tracks), len(tc.wantTrackIDs))
			}
			for i, id := range tc.wantTrackIDs {
				if view.Tracks[i].ID != id {
					t.Errorf("tracks[%d]: got %q, want %q", i, view.Tracks[i].ID, id)
				}
			}
		})
	}
}

// A clear issued while the classification request is in flight must win over
// the late response.
func TestSession_Submit_StaleResponseDiscarded(t *testing.T) {
	release := make(chan struct{})
	clf := &mockClassifier{
		result: domain.Classification{Genre: "jazz"},
		gate:   release,
	}
	cat := &mockCatalog{}
	s := &Session{
		classifier:    clf,
		catalog:       cat,
		progressTick:  time.Millisecond,
		progressTotal: 5 * time.Millisecond,
	}
	s.selection = ptrSelection(wavSelection("sample.wav", 100))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Submit(context.Background())
	}()

	clf.waitForCall(t)
	s.Clear()
	close(release)
	<-done

	view := s.Snapshot()
	if view.Result != nil {
		t.Errorf("stale classification applied after clear: %+v", view.Result)
	}
	if len(view.Tracks) != 0 {
		t.Errorf("stale tracks applied after clear: %v", view.Tracks)
	}
	if view.Busy {
		t.Error("busy leaked past clear")
	}
}

func TestSession_ProgressReaches100(t *testing.T) {
	s := &Session{
		classifier:    &mockClassifier{result: domain.Classification{Genre: "jazz"}},
		catalog:       &mockCatalog{},
		progressTick:  time.Millisecond,
		progressTotal: 10 * time.Millisecond,
	}
	s.selection = ptrSelection(wavSelection("sample.wav", 100))

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if s.Snapshot().Progress == 100 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("progress never reached 100, at %d", s.Snapshot().Progress)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSession_RecordsHistory(t *testing.T) {
	repo := &mockHistory{}
	queue := &mockQueue{}
	s := &Session{
		classifier: &mockClassifier{result: domain.Classification{Filename: "sample.wav", Genre: "jazz"}},
		catalog: &mockCatalog{tracks: []domain.Track{
			{ID: "t1"},
			{ID: "t2", PreviewURL: "https://p.test/2.mp3"},
		}},
		progressTick:  time.Millisecond,
		progressTotal: 5 * time.Millisecond,
	}
	s.AttachHistory(repo, queue)
	s.selection = ptrSelection(wavSelection("sample.wav", 100))

	if err := s.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	entries := repo.recorded()
	if len(entries) != 1 {
		t.Fatalf("history records: got %d, want 1", len(entries))
	}
	if entries[0].Genre != "jazz" || entries[0].Filename != "sample.wav" {
		t.Errorf("unexpected history entry: %+v", entries[0])
	}
	jobs := queue.jobs()
	if len(jobs) != 1 || jobs[0].previewURL != "https://p.test/2.mp3" {
		t.Errorf("expected one analysis job for the first preview-bearing track, got %v", jobs)
	}
}

func ptrSelection(sel domain.Selection) *domain.Selection {
	return &sel
}

// --- Mocks ---

type mockClassifier struct {
	mu        sync.Mutex
	result    domain.Classification
	err       error
	discover  domain.DiscoverResult
	discErr   error
	nCalls    int
	gate      chan struct{} // when set, Classify blocks until closed
	called    chan struct{}
	calledSet sync.Once
}

func (m *mockClassifier) Classify(ctx context.Context, sel domain.Selection) (domain.Classification, error) {
	m.mu.Lock()
	m.nCalls++
	if m.called == nil {
		m.called = make(chan struct{}, 1)
	}
	select {
	case m.called <- struct{}{}:
	default:
	}
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if m.err != nil {
		return domain.Classification{}, m.err
	}
	return m.result, nil
}

func (m *mockClassifier) Recommend(ctx context.Context) (domain.DiscoverResult, error) {
	if m.discErr != nil {
		return domain.DiscoverResult{}, m.discErr
	}
	return m.discover, nil
}

func (m *mockClassifier) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nCalls
}

func (m *mockClassifier) waitForCall(t *testing.T) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		m.mu.Lock()
		ch := m.called
		m.mu.Unlock()
		if ch != nil {
			select {
			case <-ch:
				return
			case <-deadline:
				t.Fatal("classifier was never called")
			}
		}
		select {
		case <-deadline:
			t.Fatal("classifier was never called")
		case <-time.After(time.Millisecond):
		}
	}
}

type mockCatalog struct {
	mu            sync.Mutex
	tracks        []domain.Track
	tracksByQuery map[string][]domain.Track // overrides tracks when the query matches
	err           error
	byGenre       []string
	byQuery       []string
	gate          chan struct{} // when set, the first search blocks until closed
	gateUsed      bool
}

func (m *mockCatalog) SearchByGenre(ctx context.Context, genre string, limit int) ([]domain.Track, error) {
	m.mu.Lock()
	m.byGenre = append(m.byGenre, genre)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.tracks, nil
}

func (m *mockCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.Track, error) {
	m.mu.Lock()
	m.byQuery = append(m.byQuery, query)
	gate := m.gate
	used := m.gateUsed
	m.gateUsed = true
	m.mu.Unlock()

	if gate != nil && !used {
		<-gate
	}
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if override, ok := m.tracksByQuery[query]; ok {
		return override, nil
	}
	return m.tracks, nil
}

func (m *mockCatalog) genreQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.byGenre...)
}

func (m *mockCatalog) textQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.byQuery...)
}

type mockHistory struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	energy  map[string]float64
}

func (m *mockHistory) Record(ctx context.Context, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistory) List(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry(nil), m.entries...), nil
}

func (m *mockHistory) SetEnergy(ctx context.Context, id string, energy float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.energy == nil {
		m.energy = map[string]float64{}
	}
	m.energy[id] = energy
	return nil
}

func (m *mockHistory) recorded() []domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry(nil), m.entries...)
}

type analysisJob struct {
	entryID    string
	previewURL string
}

type mockQueue struct {
	mu   sync.Mutex
	list []analysisJob
}

func (m *mockQueue) Enqueue(entryID, previewURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append(m.list, analysisJob{entryID: entryID, previewURL: previewURL})
}

func (m *mockQueue) jobs() []analysisJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]analysisJob(nil), m.list...)
}
