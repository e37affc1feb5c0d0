// Package silence is a synthesis backend that writes silent audio. It needs
// no model and is used for development and tests.
package silence

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/wav"
)

const (
	// SampleRate matches the XTTS v2 output rate.
	SampleRate = 24000

	// perRune is the audio length rendered per input character.
	perRune = 60 // milliseconds
)

var _ tts.Engine = (*Engine)(nil)

// Engine renders silence sized to the input text.
type Engine struct {
	format wav.Format
}

// New creates a silence engine emitting 16-bit mono audio.
func New() *Engine {
	return &Engine{format: wav.Mono16(SampleRate)}
}

// Load is a no-op.
func (e *Engine) Load(context.Context) error { return nil }

// Synthesize writes a silent WAV whose duration grows with the text length.
func (e *Engine) Synthesize(ctx context.Context, req tts.Request, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(req.SpeakerWAV); err != nil {
		return fmt.Errorf("reading speaker sample: %w", err)
	}

	samples := utf8.RuneCountInString(req.Text) * perRune * e.format.SampleRate / 1000
	pcm := make([]byte, samples*e.format.Channels*e.format.BytesPerSample)

	if err := os.WriteFile(outputPath, wav.Encode(pcm, e.format), 0o644); err != nil {
		return fmt.Errorf("writing audio: %w", err)
	}
	return nil
}

// Close is a no-op.
func (e *Engine) Close() error { return nil }
