// Package backend builds the synthesis engine selected in the configuration.
package backend

import (
	"fmt"
	"log/slog"

	"github.com/nadzzz/flextts/internal/config"
	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/coqui"
	"github.com/nadzzz/flextts/internal/tts/silence"
	"github.com/nadzzz/flextts/internal/tts/xtts"
)

// Names of the supported backends.
const (
	XTTS    = "xtts"
	Coqui   = "coqui"
	Silence = "silence"
)

// New returns an unloaded engine for cfg.TTS.Backend.
func New(cfg *config.Config, logger *slog.Logger) (tts.Engine, error) {
	switch cfg.TTS.Backend {
	case XTTS, "":
		c := cfg.TTS.XTTS
		return xtts.New(xtts.Options{
			URL:         c.URL,
			Timeout:     c.Timeout,
			Temperature: c.Temperature,
			ReleasePath: c.ReleasePath,
		}), nil

	case Coqui:
		c := cfg.TTS.Coqui
		return coqui.New(coqui.Options{
			Binary:  c.Binary,
			Model:   c.Model,
			UseCUDA: c.UseCUDA,
			Timeout: c.Timeout,
			Home:    cfg.DataDir(),
			Verbose: cfg.Debug,
		}, logger), nil

	case Silence:
		return silence.New(), nil

	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.TTS.Backend)
	}
}
