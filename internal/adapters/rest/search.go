package rest

import (
	"encoding/json"
	"net/http"

	"github.com/audiomonk-labs/audiomonk/internal/core/domain"
)

type typeQueryRequest struct {
	Query string `json:"q"`
}

type searchResultsResponse struct {
	Query  string         `json:"q"`
	Tracks []domain.Track `json:"tracks"`
}

// TypeQuery handles POST /search: one keystroke's worth of input. The lookup
// itself is debounced, so the response is an acknowledgement, not results.
func (h *Handler) TypeQuery(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req typeQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.searcher.Type(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

// SearchResults handles GET /search.
func (h *Handler) SearchResults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, searchResultsResponse{
		Query:  h.searcher.Query(),
		Tracks: h.searcher.Results(),
	})
}
