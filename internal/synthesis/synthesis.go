// Package synthesis implements the request pipeline between the transport
// and the engine: speaker resolution, validation, scratch directory upkeep
// and artifact creation.
//
// The transport parses the request and formats the response; everything in
// between lives here so it can be exercised without HTTP.
package synthesis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/nadzzz/flextts/internal/janitor"
	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/speaker"
	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/wav"
)

// Messages returned to callers for rejected requests.
const (
	msgInvalidResponseType = `Invalid response_type. Must be either "base64", "file" or "url"`
	msgInvalidSpeaker      = "Invalid speaker name"
	msgNoText              = "No text provided"
)

// Synthesizer renders a request into a file. *tts.Adapter implements it.
type Synthesizer interface {
	Synthesize(ctx context.Context, req tts.Request, outputPath string) error
}

// Sweeper removes expired artifacts. *janitor.Janitor implements it.
type Sweeper interface {
	Sweep() janitor.Result
}

// Defaults are applied to requests that omit a language or speaker.
type Defaults struct {
	Language string
	Speaker  string
}

// Request is a parsed synthesis request. Empty Language, Speaker and
// ResponseType fall back to the defaults; empty Text is rejected.
type Request struct {
	Text         string
	Language     string
	Speaker      string
	ResponseType message.ResponseType
	TrackingID   string
}

// Artifact is a generated audio file in the scratch directory.
type Artifact struct {
	// Name is the file name, unique per request.
	Name string
	Path string

	// Request is the input after defaults and normalization. Speaker holds
	// the file key, not the display name.
	Request Request
}

// Service runs synthesis requests.
type Service struct {
	catalog  speaker.Catalog
	engine   Synthesizer
	sweeper  Sweeper
	audioDir string
	defaults Defaults
	logger   *slog.Logger
}

// Options configures a Service.
type Options struct {
	Catalog  speaker.Catalog
	Engine   Synthesizer
	Sweeper  Sweeper // optional
	AudioDir string
	Defaults Defaults
	Logger   *slog.Logger
}

// New creates a Service. It fails when the default language or speaker does
// not resolve to a reference sample, so a misconfigured server never starts.
func New(ctx context.Context, opts Options) (*Service, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	defaults := Defaults{
		Language: opts.Defaults.Language,
		Speaker:  speaker.Normalize(opts.Defaults.Speaker),
	}

	if _, err := opts.Catalog.Speakers(ctx, defaults.Language); err != nil {
		return nil, fmt.Errorf("default language %q has no speaker directory: %w", defaults.Language, err)
	}
	if _, err := opts.Catalog.Resolve(ctx, defaults.Language, defaults.Speaker); err != nil {
		return nil, fmt.Errorf("default speaker %q does not exist: %w", defaults.Speaker, err)
	}

	return &Service{
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		sweeper:  opts.Sweeper,
		audioDir: opts.AudioDir,
		defaults: defaults,
		logger:   opts.Logger.With("component", "synthesis"),
	}, nil
}

// Defaults returns the normalized defaults.
func (s *Service) Defaults() Defaults { return s.defaults }

// Catalog returns the speaker catalog the service resolves against.
func (s *Service) Catalog() speaker.Catalog { return s.catalog }

// Synthesize validates req, sweeps the scratch directory and renders a new
// artifact. Validation failures are InvalidArgument or NotFound errors;
// engine failures are Synthesis errors.
func (s *Service) Synthesize(ctx context.Context, req Request) (*Artifact, error) {
	start := time.Now()

	if req.Language == "" {
		req.Language = s.defaults.Language
	}
	if req.Speaker == "" {
		req.Speaker = s.defaults.Speaker
	}
	if req.ResponseType == "" {
		req.ResponseType = message.DefaultResponseType
	}

	req.Speaker = speaker.Normalize(req.Speaker)

	if !req.ResponseType.Valid() {
		return nil, errdefs.InvalidArgument(msgInvalidResponseType)
	}
	if !speaker.ValidKey(req.Speaker) {
		s.logger.Warn("invalid speaker name", "speaker", req.Speaker)
		return nil, errdefs.InvalidArgument(msgInvalidSpeaker)
	}

	ref, err := s.catalog.Resolve(ctx, req.Language, req.Speaker)
	if err != nil {
		return nil, err
	}

	if req.Text == "" {
		return nil, errdefs.InvalidArgument(msgNoText)
	}

	if s.sweeper != nil {
		s.sweeper.Sweep()
	}

	name := uuid.NewString() + wav.Ext
	art := &Artifact{
		Name:    name,
		Path:    filepath.Join(s.audioDir, name),
		Request: req,
	}

	err = s.engine.Synthesize(ctx, tts.Request{
		Text:       req.Text,
		SpeakerWAV: ref,
		Language:   req.Language,
	}, art.Path)
	if err != nil {
		return nil, err
	}

	attrs := []any{
		"artifact", art.Name,
		"language", req.Language,
		"speaker", req.Speaker,
		"response_type", req.ResponseType,
		"duration", time.Since(start),
	}
	if info, err := os.Stat(art.Path); err == nil {
		attrs = append(attrs, "size", humanize.Bytes(uint64(info.Size())))
	}
	s.logger.Debug("audio synthesized", attrs...)

	return art, nil
}

// Consume reads the artifact and removes it from disk. A failed removal is
// logged and left to the janitor.
func (s *Service) Consume(art *Artifact) ([]byte, error) {
	audio, err := os.ReadFile(art.Path)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}

	if err := os.Remove(art.Path); err != nil {
		s.logger.Error("removing artifact", "path", art.Path, "error", err)
	}

	return audio, nil
}
