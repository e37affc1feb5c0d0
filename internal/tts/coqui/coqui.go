// Package coqui implements a synthesis backend that runs the Coqui TTS
// command line tool once per request.
package coqui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/wav"
)

// DefaultModel is the multilingual voice-cloning model.
const DefaultModel = "tts_models/multilingual/multi-dataset/xtts_v2"

var _ tts.Engine = (*Engine)(nil)

// Options configures an Engine.
type Options struct {
	Binary  string
	Model   string
	UseCUDA bool
	Timeout time.Duration

	// Home is exported as TTS_HOME so downloaded models land under the
	// application data directory.
	Home string

	// Verbose forwards the tool's output to the logger.
	Verbose bool
}

// Engine invokes the tts binary.
type Engine struct {
	opts   Options
	path   string
	logger *slog.Logger
}

// New creates an engine. The binary is located during Load.
func New(opts Options, logger *slog.Logger) *Engine {
	if opts.Binary == "" {
		opts.Binary = "tts"
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{opts: opts, logger: logger.With("backend", "coqui")}
}

// Load resolves the binary on PATH.
func (e *Engine) Load(context.Context) error {
	path, err := exec.LookPath(e.opts.Binary)
	if err != nil {
		return fmt.Errorf("locating %s: %w", e.opts.Binary, err)
	}
	e.path = path
	e.logger.Debug("using coqui binary", "path", path, "model", e.opts.Model)
	return nil
}

// Synthesize runs one tts invocation writing to outputPath.
func (e *Engine) Synthesize(ctx context.Context, req tts.Request, outputPath string) error {
	if e.path == "" {
		return errors.New("coqui engine not loaded")
	}

	if e.opts.Timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
			defer cancel()
		}
	}

	cmd := exec.CommandContext(ctx, e.path, e.args(req, outputPath)...)
	cmd.Env = append(os.Environ(), "COQUI_TOS_AGREED=1")
	if e.opts.Home != "" {
		cmd.Env = append(cmd.Env, "TTS_HOME="+e.opts.Home)
	}

	var stderr bytes.Buffer
	var stdout io.Writer = io.Discard
	if e.opts.Verbose {
		stdout = &logWriter{logger: e.logger}
		cmd.Stderr = io.MultiWriter(&stderr, stdout)
	} else {
		cmd.Stderr = &stderr
	}
	cmd.Stdout = stdout

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("tts cancelled: %w", ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("tts failed: %w\nstderr: %s", err, msg)
		}
		return fmt.Errorf("tts failed: %w", err)
	}

	if !wav.IsFile(outputPath) {
		return fmt.Errorf("tts did not write a WAV file to %s", outputPath)
	}
	return nil
}

func (e *Engine) args(req tts.Request, outputPath string) []string {
	args := []string{
		"--model_name", e.opts.Model,
		"--text", req.Text,
		"--speaker_wav", req.SpeakerWAV,
		"--language_idx", req.Language,
		"--out_path", outputPath,
	}
	if e.opts.UseCUDA {
		args = append(args, "--use_cuda", "true")
	}
	return args
}

// Close is a no-op; nothing outlives a request.
func (e *Engine) Close() error { return nil }

// logWriter forwards subprocess output line by line at debug level.
type logWriter struct {
	logger *slog.Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.logger.Debug("tts output", "line", line)
		}
	}
	return len(p), nil
}
