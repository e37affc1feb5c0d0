// Package http implements the FlexTTS HTTP API and the browser form.
//
// The API is served on a single port: synthesis on /, speaker listings on
// /speakers, generated audio under /static/audio/ and the OpenAPI UI under
// /swagger/.
//
//	@title			FlexTTS API
//	@version		1.0
//	@description	Voice-cloning text-to-speech over HTTP.
//	@BasePath		/
package http

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Registers the OpenAPI document served under /swagger/.
	_ "github.com/nadzzz/flextts/docs"

	"github.com/nadzzz/flextts/internal/synthesis"
)

// Options configures a Server.
type Options struct {
	Port int

	// PublicPort, when set, replaces the port in generated audio URLs.
	PublicPort string

	MaxBodyBytes   int64
	AllowedOrigins []string

	// AudioDir is the scratch directory served under /static/audio/.
	AudioDir string
}

// Server is the HTTP front end.
type Server struct {
	opts   Options
	svc    *synthesis.Service
	logger *slog.Logger
	page   *template.Template
	server *http.Server
}

// New creates a server for svc.
func New(opts Options, svc *synthesis.Service, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	page, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:   opts,
		svc:    svc,
		logger: logger.With("component", "http"),
		page:   page,
	}, nil
}

// Handler returns the complete route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(s.limitBody)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSynthesize)

	r.Get("/speakers", s.handleAllSpeakers)
	r.Post("/speakers", s.handleAllSpeakers)
	r.Get("/speakers/{language}", s.handleLanguageSpeakers)
	r.Post("/speakers/{language}", s.handleLanguageSpeakers)

	r.Get("/static/audio/{name}", s.handleAudio)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return otelhttp.NewHandler(r, "flextts",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}))
}

// ListenAndServe serves the API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("http server listening", "port", s.opts.Port)

	go func() {
		<-ctx.Done()
		s.logger.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// limitBody caps every request body.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// logRequests logs one line per request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
