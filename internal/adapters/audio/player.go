// Package audio implements preview playback. The player fetches the
// provider's preview clip, decodes it as MP3, and streams the PCM frames to a
// sink at real-time rate, so a preview "plays" for its natural duration and
// reports completion like a media element would.
package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

// bytesPerFrame is 16-bit stereo output, the decoder's fixed format.
const bytesPerFrame = 4

// Player streams preview clips. One Player serves any number of concurrent
// handles; the single-active-stream rule is the coordinator's job, not ours.
type Player struct {
	httpClient *http.Client
	sink       io.Writer // PCM sink; io.Discard when no output device is wired
}

var _ ports.AudioPlayer = (*Player)(nil)

// NewPlayer constructs a Player writing decoded PCM to sink. A nil sink
// discards the audio (playback still paces and completes naturally).
func NewPlayer(sink io.Writer) *Player {
	if sink == nil {
		sink = io.Discard
	}
	return &Player{
		// No client timeout: a preview clip legitimately streams for
		// ~30s. Stop closes the body to abort.
		httpClient: &http.Client{},
		sink:       sink,
	}
}

// Play begins streaming the preview and returns its handle. done fires once
// when the stream ends on its own (including mid-stream decode failures) and
// never after Stop.
func (p *Player) Play(previewURL string, done func()) (ports.AudioHandle, error) {
	resp, err := p.httpClient.Get(previewURL)
	if err != nil {
		return nil, fmt.Errorf("audio: fetch preview: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("audio: preview status %d", resp.StatusCode)
	}

	decoder, err := mp3.NewDecoder(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("audio: decode preview: %w", err)
	}

	h := &handle{
		body: resp.Body,
		stop: make(chan struct{}),
	}
	go p.stream(decoder, h, done)
	return h, nil
}

// stream paces reads so one second of samples takes one second of wall time.
func (p *Player) stream(decoder *mp3.Decoder, h *handle, done func()) {
	defer h.closeBody()

	chunkInterval := 100 * time.Millisecond
	chunk := make([]byte, decoder.SampleRate()*bytesPerFrame/10)

	ticker := time.NewTicker(chunkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
		}

		n, err := io.ReadFull(decoder, chunk)
		if n > 0 {
			if _, werr := p.sink.Write(chunk[:n]); werr != nil {
				log.Printf("WARN audio: sink write: %v", werr)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) && !h.stopped() {
				log.Printf("WARN audio: preview stream ended early: %v", err)
			}
			if !h.stopped() {
				done()
			}
			return
		}
	}
}

// handle is one live preview stream.
type handle struct {
	body io.Closer
	stop chan struct{}

	stopOnce  sync.Once
	closeOnce sync.Once
}

// Stop aborts the stream. Idempotent; the done callback will not fire after.
func (h *handle) Stop() {
	h.stopOnce.Do(func() {
		close(h.stop)
		h.closeBody()
	})
}

func (h *handle) stopped() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

func (h *handle) closeBody() {
	h.closeOnce.Do(func() { _ = h.body.Close() })
}
