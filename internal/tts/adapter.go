package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/nadzzz/flextts/internal/errdefs"
)

// ErrNoArtifact is returned when an engine reports success but leaves no
// file behind.
var ErrNoArtifact = errors.New("engine produced no output file")

// Adapter owns exactly one engine. It is safe for concurrent use.
type Adapter struct {
	engine Engine
	logger *slog.Logger

	loadMu sync.Mutex
	loaded bool

	// mu serializes inference; a single model instance is not reentrant.
	mu sync.Mutex
}

// NewAdapter wraps engine. The engine is not loaded until Model is called.
func NewAdapter(engine Engine, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		engine: engine,
		logger: logger.With("component", "tts"),
	}
}

// Model returns the loaded engine, loading it on the first call. A failed
// load is retried on the next call.
func (a *Adapter) Model(ctx context.Context) (Engine, error) {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()

	if a.loaded {
		return a.engine, nil
	}

	a.logger.Info("loading synthesis model")
	if err := a.engine.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading synthesis model: %w", err)
	}
	a.loaded = true
	a.logger.Info("synthesis model ready")

	return a.engine, nil
}

// Loaded reports whether the engine has been loaded successfully.
func (a *Adapter) Loaded() bool {
	a.loadMu.Lock()
	defer a.loadMu.Unlock()
	return a.loaded
}

// Synthesize renders req into outputPath. Engine failures are returned as
// synthesis errors; nothing is retried.
func (a *Adapter) Synthesize(ctx context.Context, req Request, outputPath string) error {
	engine, err := a.Model(ctx)
	if err != nil {
		return errdefs.Synthesis(err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.releaseCache(ctx)
	defer a.releaseCache(ctx)

	if err := engine.Synthesize(ctx, req, outputPath); err != nil {
		return errdefs.Synthesis(err)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return errdefs.Synthesis(fmt.Errorf("%w: %s", ErrNoArtifact, outputPath))
	}

	a.logger.Debug("audio synthesized", "output", outputPath, "language", req.Language)

	return nil
}

// ReleaseCache frees the engine's device cache when supported. Failures are
// logged only.
func (a *Adapter) ReleaseCache(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseCache(ctx)
}

func (a *Adapter) releaseCache(ctx context.Context) {
	releaser, ok := a.engine.(CacheReleaser)
	if !ok {
		return
	}
	if err := releaser.ReleaseCache(ctx); err != nil {
		a.logger.Warn("releasing device cache", "error", err)
	}
}

// Close closes the underlying engine.
func (a *Adapter) Close() error {
	return a.engine.Close()
}
