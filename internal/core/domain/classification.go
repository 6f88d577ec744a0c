package domain

import "time"

// Classification is the parsed response of a successful pipeline submission.
// Duration is nil when the backend omits it; the genre label is free text and
// is kept exactly as returned.
type Classification struct {
	Message  string   `json:"message"`
	Filename string   `json:"filename"`
	Duration *float64 `json:"duration,omitempty"` // seconds
	Genre    string   `json:"predicted_genre"`
}

// Recommendation is one pre-ranked entry from the classifier backend's own
// recommend endpoint. Entries arrive sorted by the backend; the client never
// re-sorts them.
type Recommendation struct {
	Artist     string  `json:"artist"`
	Title      string  `json:"name"`
	Similarity float64 `json:"similarity"`
}

// DiscoverResult is the full payload of the backend recommend endpoint.
type DiscoverResult struct {
	Genre           string           `json:"predicted_genre"`
	Recommendations []Recommendation `json:"recommendations"`
}

// HistoryEntry records one successful classification for later listing.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Genre     string    `json:"genre"`
	Duration  *float64  `json:"duration,omitempty"`
	Energy    *float64  `json:"energy,omitempty"` // filled in by background preview analysis
	CreatedAt time.Time `json:"created_at"`
}
