package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/nadzzz/flextts/internal/config"
	"github.com/nadzzz/flextts/internal/telemetry"
	"github.com/nadzzz/flextts/internal/tts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEngine struct{ err error }

func (s stubEngine) Load(context.Context) error                           { return nil }
func (s stubEngine) Synthesize(context.Context, tts.Request, string) error { return s.err }
func (s stubEngine) Close() error                                         { return nil }

type stubReleaser struct{ stubEngine }

func (stubReleaser) ReleaseCache(context.Context) error { return nil }

func TestSetupDisabled(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), config.TelemetryConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestTraceEngine(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	otel.SetTracerProvider(provider)

	engine := telemetry.TraceEngine("silence", stubEngine{})
	_, isReleaser := engine.(tts.CacheReleaser)
	assert.False(t, isReleaser)

	require.NoError(t, engine.Load(context.Background()))
	require.NoError(t, engine.Synthesize(context.Background(), tts.Request{Text: "hi", Language: "en"}, "out.wav"))

	failing := telemetry.TraceEngine("xtts", stubReleaser{stubEngine{err: errors.New("boom")}})
	_, isReleaser = failing.(tts.CacheReleaser)
	assert.True(t, isReleaser)
	assert.Error(t, failing.Synthesize(context.Background(), tts.Request{Text: "hi"}, "out.wav"))

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "load silence", spans[0].Name())
	assert.Equal(t, "synthesize silence", spans[1].Name())
	assert.Equal(t, "synthesize xtts", spans[2].Name())
	assert.Equal(t, codes.Error, spans[2].Status().Code)
}
