package coqui_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/coqui"
	"github.com/nadzzz/flextts/internal/tts/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTTS records its arguments and environment under $TTS_HOME and writes a
// minimal WAV header to --out_path.
const fakeTTS = `#!/bin/sh
out=""
prev=""
for arg in "$@"; do
  [ "$prev" = "--out_path" ] && out="$arg"
  prev="$arg"
done
printf '%s\n' "$@" > "$TTS_HOME/args.txt"
printf '%s\n' "$COQUI_TOS_AGREED" > "$TTS_HOME/tos.txt"
printf 'RIFF\000\000\000\000WAVE' > "$out"
`

const failingTTS = `#!/bin/sh
echo "model download failed" >&2
exit 3
`

// Tests that exec a freshly written script stay serial to avoid ETXTBSY.
func writeScript(t *testing.T, body string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(t.TempDir(), "tts")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestLoadMissingBinary(t *testing.T) {
	e := coqui.New(coqui.Options{Binary: filepath.Join(t.TempDir(), "nope")}, nil)
	assert.Error(t, e.Load(context.Background()))
}

func TestSynthesizeBeforeLoad(t *testing.T) {
	e := coqui.New(coqui.Options{}, nil)
	err := e.Synthesize(context.Background(), tts.Request{Text: "hi"}, filepath.Join(t.TempDir(), "out.wav"))
	assert.ErrorContains(t, err, "not loaded")
}

func TestSynthesize(t *testing.T) {
	home := t.TempDir()
	e := coqui.New(coqui.Options{
		Binary:  writeScript(t, fakeTTS),
		UseCUDA: true,
		Home:    home,
	}, nil)
	require.NoError(t, e.Load(context.Background()))

	out := filepath.Join(t.TempDir(), "out.wav")
	err := e.Synthesize(context.Background(), tts.Request{
		Text:       "Bonjour",
		SpeakerWAV: "/speakers/fr/marie.wav",
		Language:   "fr",
	}, out)
	require.NoError(t, err)
	assert.True(t, wav.IsFile(out))

	args, err := os.ReadFile(filepath.Join(home, "args.txt"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"--model_name", coqui.DefaultModel,
		"--text", "Bonjour",
		"--speaker_wav", "/speakers/fr/marie.wav",
		"--language_idx", "fr",
		"--out_path", out,
		"--use_cuda", "true",
	}, strings.Split(strings.TrimSpace(string(args)), "\n"))

	tos, err := os.ReadFile(filepath.Join(home, "tos.txt"))
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(string(tos)))
}

func TestSynthesizeFailure(t *testing.T) {
	e := coqui.New(coqui.Options{Binary: writeScript(t, failingTTS)}, nil)
	require.NoError(t, e.Load(context.Background()))

	err := e.Synthesize(context.Background(), tts.Request{Text: "hi"}, filepath.Join(t.TempDir(), "out.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model download failed")
}
