package silence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/silence"
	"github.com/nadzzz/flextts/internal/tts/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.wav")
	require.NoError(t, os.WriteFile(ref, wav.Encode(nil, wav.Mono16(16000)), 0o600))

	e := silence.New()
	require.NoError(t, e.Load(context.Background()))

	short := filepath.Join(dir, "short.wav")
	long := filepath.Join(dir, "long.wav")

	require.NoError(t, e.Synthesize(context.Background(), tts.Request{Text: "hi", SpeakerWAV: ref, Language: "en"}, short))
	require.NoError(t, e.Synthesize(context.Background(), tts.Request{Text: "hello there", SpeakerWAV: ref, Language: "en"}, long))

	assert.True(t, wav.IsFile(short))
	assert.True(t, wav.IsFile(long))

	shortInfo, err := os.Stat(short)
	require.NoError(t, err)
	longInfo, err := os.Stat(long)
	require.NoError(t, err)
	assert.Greater(t, longInfo.Size(), shortInfo.Size())
}

func TestSynthesizeMissingReference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")

	err := silence.New().Synthesize(context.Background(), tts.Request{
		Text:       "hi",
		SpeakerWAV: filepath.Join(dir, "missing.wav"),
	}, out)
	require.Error(t, err)
	assert.NoFileExists(t, out)
}
