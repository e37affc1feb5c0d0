package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/nadzzz/flextts/internal/tts"
)

type observableEngine struct {
	backend string
	engine  tts.Engine
}

type observableReleaser struct {
	*observableEngine
	releaser tts.CacheReleaser
}

// TraceEngine wraps engine so that Load and Synthesize run inside spans.
// The wrapper keeps implementing tts.CacheReleaser when engine does.
func TraceEngine(backend string, engine tts.Engine) tts.Engine {
	e := &observableEngine{backend: backend, engine: engine}
	if r, ok := engine.(tts.CacheReleaser); ok {
		return &observableReleaser{observableEngine: e, releaser: r}
	}
	return e
}

func (e *observableEngine) Load(ctx context.Context) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "load "+e.backend)
	defer span.End()

	return record(span, e.engine.Load(ctx))
}

func (e *observableEngine) Synthesize(ctx context.Context, req tts.Request, outputPath string) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "synthesize "+e.backend,
		trace.WithAttributes(
			attribute.String("tts.backend", e.backend),
			attribute.String("tts.language", req.Language),
			attribute.Int("tts.text_length", len(req.Text)),
		))
	defer span.End()

	return record(span, e.engine.Synthesize(ctx, req, outputPath))
}

func (e *observableEngine) Close() error {
	return e.engine.Close()
}

func (e *observableReleaser) ReleaseCache(ctx context.Context) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "release cache "+e.backend)
	defer span.End()

	return record(span, e.releaser.ReleaseCache(ctx))
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
