package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nadzzz/flextts/internal/config"
	"github.com/nadzzz/flextts/internal/health"
	"github.com/nadzzz/flextts/internal/janitor"
	"github.com/nadzzz/flextts/internal/speaker"
	"github.com/nadzzz/flextts/internal/synthesis"
	"github.com/nadzzz/flextts/internal/telemetry"
	httptransport "github.com/nadzzz/flextts/internal/transport/http"
	"github.com/nadzzz/flextts/internal/tts"
	"github.com/nadzzz/flextts/internal/tts/backend"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	config.SetupLogging(cfg.Logging)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	slog.Info("flextts starting", "version", version, "app_path", cfg.AppPath, "backend", cfg.TTS.Backend)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("flushing traces", "error", err)
		}
	}()

	// Speaker catalog.
	dir := speaker.NewDir(cfg.SpeakerDir())
	var catalog speaker.Catalog = dir
	var index *speaker.Index
	if cfg.Catalog.Watch {
		index = speaker.NewIndex(dir, cfg.Catalog.Refresh, slog.Default())
		catalog = index
	}

	// Synthesis engine.
	engine, err := backend.New(cfg, slog.Default())
	if err != nil {
		return err
	}
	if cfg.Telemetry.Enabled {
		engine = telemetry.TraceEngine(cfg.TTS.Backend, engine)
	}
	adapter := tts.NewAdapter(engine, slog.Default())
	defer adapter.Close()

	sweeper := janitor.New(cfg.AudioDir(), cfg.Janitor.MaxAge, slog.Default())

	svc, err := synthesis.New(ctx, synthesis.Options{
		Catalog:  catalog,
		Engine:   adapter,
		Sweeper:  sweeper,
		AudioDir: cfg.AudioDir(),
		Defaults: synthesis.Defaults{Language: cfg.DefaultLanguage, Speaker: cfg.DefaultSpeaker},
		Logger:   slog.Default(),
	})
	if err != nil {
		return err
	}

	server, err := httptransport.New(httptransport.Options{
		Port:           cfg.Server.Port,
		PublicPort:     cfg.Server.PublicPort,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AudioDir:       cfg.AudioDir(),
	}, svc, slog.Default())
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	goRun := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				slog.Error(name+" failed", "error", err)
				cancel()
			}
		}()
	}

	// Probes come up first so orchestrators see "not ready" while the model loads.
	healthServer := health.New(cfg.Server.HealthPort)
	goRun("health server", func() error { return healthServer.ListenAndServe(ctx) })
	if cfg.Server.GRPCHealthPort > 0 {
		goRun("grpc health server", func() error { return healthServer.ServeGRPC(ctx, cfg.Server.GRPCHealthPort) })
	}

	if _, err := adapter.Model(ctx); err != nil {
		cancel()
		wg.Wait()
		return err
	}

	if index != nil {
		goRun("speaker index", func() error { return index.Run(ctx) })
	}
	if cfg.Janitor.Interval > 0 {
		goRun("janitor", func() error {
			sweeper.Run(ctx, cfg.Janitor.Interval)
			return nil
		})
	}
	goRun("http server", func() error { return server.ListenAndServe(ctx) })

	healthServer.SetReady(true)
	slog.Info("flextts ready",
		"port", cfg.Server.Port,
		"health_port", cfg.Server.HealthPort,
		"default_language", cfg.DefaultLanguage,
		"default_speaker", cfg.DefaultSpeaker)

	// Block until shutdown signal.
	<-ctx.Done()
	healthServer.SetReady(false)
	slog.Info("shutdown signal received, draining...")

	wg.Wait()
	slog.Info("flextts stopped")
	return nil
}
