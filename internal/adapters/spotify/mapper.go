package spotify

import "github.com/audiomonk-labs/audiomonk/internal/core/domain"

// mapTrackToDomain converts a raw wire track into a domain track, preserving
// the provider's artist and artwork ordering.
func mapTrackToDomain(wt trackObject) domain.Track {
	artists := make([]string, 0, len(wt.Artists))
	for _, a := range wt.Artists {
		artists = append(artists, a.Name)
	}

	var artwork []string
	for _, img := range wt.Album.Images {
		if img.URL != "" {
			artwork = append(artwork, img.URL)
		}
	}

	return domain.Track{
		ID:          wt.ID,
		Title:       wt.Name,
		Artists:     artists,
		Album:       wt.Album.Name,
		ArtworkURLs: artwork,
		ExternalURL: wt.ExternalURLs.Spotify,
		PreviewURL:  wt.PreviewURL,
	}
}

func mapTracksToDomain(items []trackObject) []domain.Track {
	tracks := make([]domain.Track, 0, len(items))
	for _, item := range items {
		tracks = append(tracks, mapTrackToDomain(item))
	}
	return tracks
}
