package rest

import (
	"encoding/json"
	"net/http"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

type playbackStateResponse struct {
	Playing string `json:"playing,omitempty"`
}

// TogglePlayback handles POST /playback/toggle. Every playback surface posts
// the full track here so the one coordinator enforces the single-stream rule.
func (h *Handler) TogglePlayback(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var track domain.Track
	if err := json.NewDecoder(r.Body).Decode(&track); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if track.ID == "" {
		writeError(w, http.StatusBadRequest, "track id is required")
		return
	}

	h.playback.TogglePlay(track)
	writeJSON(w, http.StatusOK, playbackStateResponse{Playing: h.playback.Active()})
}

// GetPlayback handles GET /playback.
func (h *Handler) GetPlayback(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, playbackStateResponse{Playing: h.playback.Active()})
}
