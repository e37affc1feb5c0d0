// Package xtts implements a synthesis backend that talks to an XTTS v2
// inference server over HTTP.
//
// The server receives the path of the speaker sample, so it must share the
// speaker directory with this process (same host or a shared volume).
package xtts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/wav"
)

const (
	generatePath = "/v1/generate/speech"
	healthPath   = "/health"
)

var (
	_ tts.Engine        = (*Client)(nil)
	_ tts.CacheReleaser = (*Client)(nil)
)

// ErrEmptyAudio is returned when the server answers with no audio data.
var ErrEmptyAudio = errors.New("received empty audio data")

// Options configures a Client.
type Options struct {
	URL         string
	Timeout     time.Duration
	Temperature float64

	// ReleasePath, when set, is POSTed to free device memory on the server.
	ReleasePath string
}

// Client is an XTTS server client.
type Client struct {
	baseURL     string
	temperature float64
	releasePath string
	http        *http.Client
}

// New creates a client. The server is not contacted until Load.
func New(opts Options) *Client {
	return NewWithHTTPClient(opts, &http.Client{Timeout: opts.Timeout})
}

// NewWithHTTPClient creates a client using hc for all requests.
func NewWithHTTPClient(opts Options, hc *http.Client) *Client {
	return &Client{
		baseURL:     strings.TrimRight(opts.URL, "/"),
		temperature: opts.Temperature,
		releasePath: opts.ReleasePath,
		http:        hc,
	}
}

type generateRequest struct {
	Text           string  `json:"text"`
	SpeakerRefPath string  `json:"speaker_ref_path"`
	Language       string  `json:"language"`
	Temperature    float64 `json:"temperature"`
}

type errorResponse struct {
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code,omitempty"`
}

// Load checks that the server is up.
func (c *Client) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating health request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("xtts health check at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("xtts health check failed with status: %s", resp.Status)
	}
	return nil
}

// Synthesize asks the server to render req and writes the audio to outputPath.
func (c *Client) Synthesize(ctx context.Context, req tts.Request, outputPath string) error {
	body, err := json.Marshal(generateRequest{
		Text:           req.Text,
		SpeakerRefPath: req.SpeakerWAV,
		Language:       req.Language,
		Temperature:    c.temperature,
	})
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", wav.ContentType)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request to xtts at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	if mt, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type")); mt != wav.ContentType {
		return fmt.Errorf("unexpected content type: expected %s, got %q", wav.ContentType, resp.Header.Get("Content-Type"))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading audio: %w", err)
	}
	if len(audio) == 0 {
		return ErrEmptyAudio
	}
	if !wav.Is(audio) {
		return errors.New("response is not a RIFF/WAVE file")
	}

	if err := os.WriteFile(outputPath, audio, 0o644); err != nil {
		return fmt.Errorf("writing audio: %w", err)
	}
	return nil
}

// ReleaseCache asks the server to free its device cache. It is a no-op when
// no release path is configured.
func (c *Client) ReleaseCache(ctx context.Context) error {
	if c.releasePath == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.releasePath, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating release request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("releasing xtts cache: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("releasing xtts cache: %s", resp.Status)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// parseError decodes a structured error from the server, falling back to
// the raw body.
func parseError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Detail != "" {
		if e.ErrorCode != "" {
			return fmt.Errorf("xtts error (%s): %s (code: %s)", resp.Status, e.Detail, e.ErrorCode)
		}
		return fmt.Errorf("xtts error (%s): %s", resp.Status, e.Detail)
	}

	return fmt.Errorf("xtts returned status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
}
