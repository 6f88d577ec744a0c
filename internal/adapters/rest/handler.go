package rest

import (
	"encoding/json"
	"net/http"

	"github.com/audiomonk-labs/audiomonk/internal/core/ports"
	"github.com/audiomonk-labs/audiomonk/internal/core/services"
)

// Handler manages the HTTP interface for the session core.
type Handler struct {
	session  *services.Session
	searcher *services.Searcher
	discover *services.Discover
	playback *services.Coordinator
	history  ports.HistoryRepository // optional
	router   *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(session *services.Session, searcher *services.Searcher, discover *services.Discover, playback *services.Coordinator, history ports.HistoryRepository) *Handler {
	h := &Handler{
		session:  session,
		searcher: searcher,
		discover: discover,
		playback: playback,
		history:  history,
		router:   http.NewServeMux(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)

	// Upload/classify pipeline
	h.router.HandleFunc("GET /session", h.GetSession)
	h.router.HandleFunc("POST /session/file", h.SelectFile)
	h.router.HandleFunc("DELETE /session/file", h.ClearFile)
	h.router.HandleFunc("POST /session/submit", h.Submit)

	// Debounced catalog search
	h.router.HandleFunc("POST /search", h.TypeQuery)
	h.router.HandleFunc("GET /search", h.SearchResults)

	// Backend discover variant
	h.router.HandleFunc("POST /discover", h.FetchDiscover)
	h.router.HandleFunc("GET /discover", h.GetDiscover)

	// Preview playback
	h.router.HandleFunc("POST /playback/toggle", h.TogglePlayback)
	h.router.HandleFunc("GET /playback", h.GetPlayback)

	// Classification history
	h.router.HandleFunc("GET /history", h.GetHistory)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
