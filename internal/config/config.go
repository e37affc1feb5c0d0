// Package config handles loading and validating the flextts configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root configuration for the flextts server.
type Config struct {
	// DefaultLanguage and DefaultSpeaker are used when a request omits them.
	// Both are required and validated at startup.
	DefaultLanguage string `mapstructure:"default_language"`
	DefaultSpeaker  string `mapstructure:"default_speaker"`

	// AppPath is the root for the speaker and scratch directories.
	AppPath string `mapstructure:"app_path"`

	// Debug enables verbose logging and engine output.
	Debug bool `mapstructure:"debug"`

	Server    ServerConfig    `mapstructure:"server"`
	Janitor   JanitorConfig   `mapstructure:"janitor"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	TTS       TTSConfig       `mapstructure:"tts"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the HTTP, health and gRPC listener settings.
type ServerConfig struct {
	Port int `mapstructure:"port"`

	// PublicPort replaces the port of generated audio URLs. Set it when the
	// container port is remapped (DOCKER_PORT).
	PublicPort string `mapstructure:"public_port"`

	MaxBodyBytes   int64    `mapstructure:"max_body_bytes"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	HealthPort     int `mapstructure:"health_port"`
	GRPCHealthPort int `mapstructure:"grpc_health_port"` // 0 disables
}

// JanitorConfig controls the generated audio retention.
type JanitorConfig struct {
	MaxAge   time.Duration `mapstructure:"max_age"`
	Interval time.Duration `mapstructure:"interval"` // 0 disables the background sweep
}

// CatalogConfig controls the speaker catalog index.
type CatalogConfig struct {
	Watch   bool          `mapstructure:"watch"`
	Refresh time.Duration `mapstructure:"refresh"`
}

// TTSConfig selects and configures the synthesis backend.
type TTSConfig struct {
	Backend string      `mapstructure:"backend"` // "xtts", "coqui" or "silence"
	XTTS    XTTSConfig  `mapstructure:"xtts"`
	Coqui   CoquiConfig `mapstructure:"coqui"`
}

// XTTSConfig holds settings for an XTTS inference server.
type XTTSConfig struct {
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`

	// ReleasePath is POSTed before and after each synthesis to free device
	// memory on the server. Empty disables it.
	ReleasePath string `mapstructure:"release_path"`
}

// CoquiConfig holds settings for the Coqui TTS command line backend.
type CoquiConfig struct {
	Binary  string        `mapstructure:"binary"`
	Model   string        `mapstructure:"model"`
	UseCUDA bool          `mapstructure:"use_cuda"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig toggles OpenTelemetry tracing. Exporter endpoints are read
// from the standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// ErrMissingDefaults is returned when DEFAULT_LANGUAGE or DEFAULT_SPEAKER
// is not configured.
var ErrMissingDefaults = errors.New("DEFAULT_LANGUAGE and DEFAULT_SPEAKER must be set")

// envBindings maps config keys to the unprefixed environment variables
// operators already use.
var envBindings = map[string]string{
	"default_language":   "DEFAULT_LANGUAGE",
	"default_speaker":    "DEFAULT_SPEAKER",
	"app_path":           "APP_PATH",
	"debug":              "DEBUG",
	"server.public_port": "DOCKER_PORT",
	"telemetry.enabled":  "TELEMETRY",
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./flextts.*, ./configs/flextts.*, /etc/flextts/flextts.*.
//
// A .env file in the working directory is loaded first when DEFAULT_LANGUAGE
// is not already present in the environment.
func Load(configFile string) (*Config, error) {
	if _, ok := os.LookupEnv("DEFAULT_LANGUAGE"); !ok {
		if err := godotenv.Load(); err == nil {
			slog.Info("loaded .env file")
		}
	}

	v := viper.New()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	// Defaults
	v.SetDefault("default_language", "")
	v.SetDefault("default_speaker", "")
	v.SetDefault("app_path", cwd)
	v.SetDefault("debug", false)
	v.SetDefault("server.port", 6969)
	v.SetDefault("server.public_port", "")
	v.SetDefault("server.max_body_bytes", 16<<20)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("server.grpc_health_port", 0)
	v.SetDefault("janitor.max_age", time.Hour)
	v.SetDefault("janitor.interval", time.Duration(0))
	v.SetDefault("catalog.watch", true)
	v.SetDefault("catalog.refresh", 5*time.Minute)
	v.SetDefault("tts.backend", "xtts")
	v.SetDefault("tts.xtts.url", "http://localhost:8020")
	v.SetDefault("tts.xtts.timeout", 120*time.Second)
	v.SetDefault("tts.xtts.temperature", 0.75)
	v.SetDefault("tts.xtts.release_path", "")
	v.SetDefault("tts.coqui.binary", "tts")
	v.SetDefault("tts.coqui.model", "tts_models/multilingual/multi-dataset/xtts_v2")
	v.SetDefault("tts.coqui.use_cuda", false)
	v.SetDefault("tts.coqui.timeout", 5*time.Minute)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flextts")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("flextts")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/flextts")
	}

	// Environment variables: FLEXTTS_SERVER_PORT, FLEXTTS_TTS_BACKEND, etc.
	v.SetEnvPrefix("FLEXTTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	// Read config file (optional: env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.DefaultLanguage = strings.TrimSpace(cfg.DefaultLanguage)
	cfg.DefaultSpeaker = strings.TrimSpace(cfg.DefaultSpeaker)

	if cfg.Debug {
		cfg.Logging.Level = "debug"
	}

	return &cfg, nil
}

// Validate checks the settings that do not depend on the filesystem.
func (c *Config) Validate() error {
	if c.DefaultLanguage == "" || c.DefaultSpeaker == "" {
		return ErrMissingDefaults
	}
	if c.AppPath == "" {
		return errors.New("app_path cannot be empty")
	}
	if c.Janitor.MaxAge <= 0 {
		return fmt.Errorf("janitor.max_age must be positive, got %s", c.Janitor.MaxAge)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	return nil
}

// DataDir is where the model cache and speaker samples live.
func (c *Config) DataDir() string { return filepath.Join(c.AppPath, "data") }

// SpeakerDir is the root of the <language>/<speaker>.wav tree.
func (c *Config) SpeakerDir() string { return filepath.Join(c.DataDir(), "speakers") }

// StaticDir is served under /static.
func (c *Config) StaticDir() string { return filepath.Join(c.AppPath, "static") }

// AudioDir is the scratch directory for generated artifacts.
func (c *Config) AudioDir() string { return filepath.Join(c.StaticDir(), "audio") }

// EnsureDirs creates the speaker and scratch directories if missing.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.SpeakerDir(), c.AudioDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	slog.SetDefault(NewLogger(cfg))
}

// NewLogger builds a logger writing to stdout.
func NewLogger(cfg LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
