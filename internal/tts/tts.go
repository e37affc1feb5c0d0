// Package tts defines the voice-cloning engine contract and the Adapter that
// owns the single engine instance for the process.
//
// An engine renders text in the voice of a reference sample and writes the
// result as a WAV file. Loading an engine is expensive, so the Adapter loads
// it once, on first use, and serializes inference behind a mutex.
package tts

import "context"

// Request describes one synthesis call.
type Request struct {
	// Text is the input to speak. Never empty by the time it reaches an engine.
	Text string

	// SpeakerWAV is the path of the reference sample whose voice is cloned.
	SpeakerWAV string

	// Language is the language code passed to the model (e.g. "en", "fr").
	Language string
}

// Engine is a voice-cloning backend.
type Engine interface {
	// Load prepares the model. It is called once before the first Synthesize.
	Load(ctx context.Context) error

	// Synthesize renders req and writes a WAV file to outputPath.
	Synthesize(ctx context.Context, req Request, outputPath string) error

	// Close releases any resources held by the engine.
	Close() error
}

// CacheReleaser is implemented by engines running on an accelerator whose
// memory cache can be freed between calls.
type CacheReleaser interface {
	ReleaseCache(ctx context.Context) error
}
