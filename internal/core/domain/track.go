package domain

// Track represents a single catalog search result in the domain layer.
type Track struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"` // provider order
	Album       string   `json:"album,omitempty"`
	ArtworkURLs []string `json:"artwork_urls,omitempty"` // provider order, largest first
	ExternalURL string   `json:"external_url,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"` // empty when the provider offers no preview clip
}

// HasPreview reports whether the track carries a playable preview clip.
func (t Track) HasPreview() bool {
	return t.PreviewURL != ""
}
