package synthesis_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nadzzz/flextts/internal/errdefs"
	"github.com/nadzzz/flextts/internal/janitor"
	"github.com/nadzzz/flextts/internal/message"
	"github.com/nadzzz/flextts/internal/speaker"
	"github.com/nadzzz/flextts/internal/synthesis"
	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/silence"
	"github.com/nadzzz/flextts/internal/tts/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct{ calls int }

func (c *countingSweeper) Sweep() janitor.Result {
	c.calls++
	return janitor.Result{}
}

type fixture struct {
	svc      *synthesis.Service
	sweeper  *countingSweeper
	audioDir string
	root     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "speakers")
	audioDir := filepath.Join(base, "audio")
	require.NoError(t, os.MkdirAll(audioDir, 0o755))

	for _, p := range []string{"en/jane_doe.wav", "en/bob.wav", "fr/marie.wav"} {
		path := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, wav.Encode(nil, wav.Mono16(16000)), 0o600))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "de"), 0o755))

	sweeper := &countingSweeper{}
	svc, err := synthesis.New(context.Background(), synthesis.Options{
		Catalog:  speaker.NewDir(root),
		Engine:   tts.NewAdapter(silence.New(), nil),
		Sweeper:  sweeper,
		AudioDir: audioDir,
		Defaults: synthesis.Defaults{Language: "en", Speaker: "Jane Doe"},
	})
	require.NoError(t, err)

	return &fixture{svc: svc, sweeper: sweeper, audioDir: audioDir, root: root}
}

func TestNewRejectsBadDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cat := speaker.NewDir(f.root)

	_, err := synthesis.New(context.Background(), synthesis.Options{
		Catalog:  cat,
		Defaults: synthesis.Defaults{Language: "xx", Speaker: "jane_doe"},
	})
	assert.ErrorContains(t, err, "default language")

	_, err = synthesis.New(context.Background(), synthesis.Options{
		Catalog:  cat,
		Defaults: synthesis.Defaults{Language: "en", Speaker: "nobody"},
	})
	assert.ErrorContains(t, err, "default speaker")
	assert.True(t, errdefs.IsNotFound(err))
}

func TestDefaultsAreNormalized(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	assert.Equal(t, synthesis.Defaults{Language: "en", Speaker: "jane_doe"}, f.svc.Defaults())
}

func TestSynthesizeAppliesDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	art, err := f.svc.Synthesize(context.Background(), synthesis.Request{Text: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, "en", art.Request.Language)
	assert.Equal(t, "jane_doe", art.Request.Speaker)
	assert.Equal(t, message.ResponseURL, art.Request.ResponseType)
	assert.Equal(t, 1, f.sweeper.calls)

	assert.Equal(t, f.audioDir, filepath.Dir(art.Path))
	assert.True(t, strings.HasSuffix(art.Name, ".wav"))
	assert.True(t, wav.IsFile(art.Path))
}

func TestSynthesizeDisplayNameSpeaker(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	art, err := f.svc.Synthesize(context.Background(), synthesis.Request{
		Text: "Bonjour", Language: "fr", Speaker: "Marie", ResponseType: message.ResponseFile,
	})
	require.NoError(t, err)
	assert.Equal(t, "marie", art.Request.Speaker)
}

func TestSynthesizeUniqueArtifacts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	seen := map[string]bool{}
	for range 5 {
		art, err := f.svc.Synthesize(context.Background(), synthesis.Request{Text: "Hello"})
		require.NoError(t, err)
		assert.False(t, seen[art.Name])
		seen[art.Name] = true
	}
}

func TestSynthesizeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     synthesis.Request
		check   func(error) bool
		message string
	}{
		{
			name:    "bad response type",
			req:     synthesis.Request{Text: "x", ResponseType: "mp3"},
			check:   errdefs.IsInvalidArgument,
			message: `Invalid response_type. Must be either "base64", "file" or "url"`,
		},
		{
			name:    "traversal speaker",
			req:     synthesis.Request{Text: "x", Speaker: "../../etc/passwd"},
			check:   errdefs.IsInvalidArgument,
			message: "Invalid speaker name",
		},
		{
			name:    "missing speaker",
			req:     synthesis.Request{Text: "x", Speaker: "nonexistent"},
			check:   errdefs.IsNotFound,
			message: "Speaker not found: nonexistent (language: en)",
		},
		{
			name:    "speaker in wrong language",
			req:     synthesis.Request{Text: "x", Language: "de", Speaker: "Jane Doe"},
			check:   errdefs.IsNotFound,
			message: "Speaker not found: jane_doe (language: de)",
		},
		{
			name:    "empty text",
			req:     synthesis.Request{Text: ""},
			check:   errdefs.IsInvalidArgument,
			message: "No text provided",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)

			_, err := f.svc.Synthesize(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected kind: %v", err)
			assert.Equal(t, tt.message, err.Error())

			entries, err := os.ReadDir(f.audioDir)
			require.NoError(t, err)
			assert.Empty(t, entries, "rejected requests leave no artifact")
			assert.Equal(t, 0, f.sweeper.calls)
		})
	}
}

func TestConsumeRemovesArtifact(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	art, err := f.svc.Synthesize(context.Background(), synthesis.Request{Text: "Hello", ResponseType: message.ResponseBase64})
	require.NoError(t, err)

	audio, err := f.svc.Consume(art)
	require.NoError(t, err)
	assert.True(t, wav.Is(audio))
	assert.NoFileExists(t, art.Path)

	_, err = f.svc.Consume(art)
	assert.Error(t, err)
}
