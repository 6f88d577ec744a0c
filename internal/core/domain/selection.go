package domain

import "errors"

// WAVMediaType is the only media type the pipeline accepts. The check is on
// the declared type only; file contents are never sniffed.
const WAVMediaType = "audio/wav"

var (
	ErrUnsupportedMedia = errors.New("domain: unsupported media type")
	ErrNoSelection      = errors.New("domain: no file selected")
)

// Selection is a user-chosen audio asset waiting for submission.
type Selection struct {
	Name      string
	MediaType string
	Size      int64
	Payload   []byte
}

// Validate rejects any selection whose declared media type is not exactly
// the accepted audio container type.
func (s Selection) Validate() error {
	if s.MediaType != WAVMediaType {
		return ErrUnsupportedMedia
	}
	return nil
}
