package rest

import "net/http"

// FetchDiscover handles POST /discover: the explicit user action that
// triggers the backend's own recommend endpoint.
func (h *Handler) FetchDiscover(w http.ResponseWriter, r *http.Request) {
	if err := h.discover.Fetch(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, h.discover.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, h.discover.Snapshot())
}

// GetDiscover handles GET /discover.
func (h *Handler) GetDiscover(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.discover.Snapshot())
}
