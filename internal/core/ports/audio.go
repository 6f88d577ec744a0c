package ports

// AudioPlayer constructs playback handles for preview clips. Implementations
// must not invoke done before Play returns; done fires once on natural end of
// stream and never after Stop.
type AudioPlayer interface {
	Play(previewURL string, done func()) (AudioHandle, error)
}

// AudioHandle is one live audio stream. Stop is idempotent.
type AudioHandle interface {
	Stop()
}
