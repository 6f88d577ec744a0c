package services

import (
	"log"
	"sync"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
)

// Coordinator owns the single live audio handle. Every surface that can
// trigger preview playback (mini-player, result list, card grid) must route
// through the same Coordinator instance; at most one stream is playing at any
// time no matter which surface initiated it.
type Coordinator struct {
	mu sync.Mutex

	player ports.AudioPlayer

	activeID string
	handle   ports.AudioHandle
}

// NewCoordinator constructs a Coordinator around the given player.
func NewCoordinator(player ports.AudioPlayer) *Coordinator {
	return &Coordinator{player: player}
}

// TogglePlay transitions playback for the given track:
//   - the active track toggles off;
//   - any other request first stops whatever is playing, then starts the
//     requested track only if it carries a preview URL.
//
// A track without a preview leaves the coordinator idle after the blanket
// stop. Playback errors are logged and leave the coordinator idle.
func (c *Coordinator) TogglePlay(track domain.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeID == track.ID && c.handle != nil {
		c.handle.Stop()
		c.clearLocked()
		return
	}

	if c.handle != nil {
		c.handle.Stop()
	}
	c.clearLocked()

	if !track.HasPreview() {
		return
	}

	id := track.ID
	handle, err := c.player.Play(track.PreviewURL, func() { c.finished(id) })
	if err != nil {
		log.Printf("WARN playback: start preview for track %s: %v", id, err)
		return
	}
	c.activeID = id
	c.handle = handle
}

// Stop halts any active stream and returns the coordinator to idle.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil {
		c.handle.Stop()
	}
	c.clearLocked()
}

// Active returns the identifier of the currently playing track, or "".
func (c *Coordinator) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// finished handles natural end of stream. A handle that was already replaced
// must not clear the newer stream's state.
func (c *Coordinator) finished(trackID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.activeID != trackID {
		return
	}
	c.clearLocked()
}

func (c *Coordinator) clearLocked() {
	c.activeID = ""
	c.handle = nil
}
