package spotify

// trackObject mirrors the track item shape of the search response. Only the
// fields the domain model needs are declared.
type trackObject struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
	PreviewURL string `json:"preview_url"` // null on the wire decodes to ""
}

// searchResponse is the paging wrapper around track search results.
type searchResponse struct {
	Tracks struct {
		Items []trackObject `json:"items"`
	} `json:"tracks"`
}
