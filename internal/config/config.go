// Package config loads server settings from MONARKH_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/monarkh/site/internal/carousel"
	"github.com/monarkh/site/internal/live"
	"github.com/monarkh/site/internal/reveal"
	"github.com/monarkh/site/internal/telemetry"
	"github.com/monarkh/site/internal/visibility"
)

type Config struct {
	Port    int    `env:"MONARKH_PORT" envDefault:"8080"`
	DBPath  string `env:"MONARKH_DB_PATH" envDefault:"./monarkh.db"`
	Token   string `env:"MONARKH_TOKEN"`
	BaseURL string `env:"MONARKH_BASE_URL"`

	LogLevel  string `env:"MONARKH_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"MONARKH_LOG_FORMAT" envDefault:"text"`

	OTelEndpoint string `env:"MONARKH_OTEL_ENDPOINT"`
	OTelEnabled  bool   `env:"MONARKH_OTEL_ENABLED" envDefault:"true"`

	ShutdownTimeout time.Duration `env:"MONARKH_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Motion Motion `envPrefix:"MONARKH_MOTION_"`
}

// Motion holds the tunables of the motion core.
type Motion struct {
	Threshold     float64       `env:"THRESHOLD" envDefault:"0.2"`
	RootMargin    string        `env:"ROOT_MARGIN" envDefault:"0px"`
	CarouselMode  string        `env:"CAROUSEL_MODE" envDefault:"paged"`
	ItemsPerPage  int           `env:"ITEMS_PER_PAGE" envDefault:"4"`
	Period        time.Duration `env:"CAROUSEL_PERIOD" envDefault:"5s"`
	Cooldown      time.Duration `env:"CAROUSEL_COOLDOWN" envDefault:"7s"`
	CountDuration time.Duration `env:"COUNT_DURATION" envDefault:"2s"`
	CountSteps    int           `env:"COUNT_STEPS" envDefault:"50"`
	StrictCounter bool          `env:"STRICT_COUNTER"`
	FlashTTL      time.Duration `env:"FLASH_TTL" envDefault:"3s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required")
	}
	if _, err := telemetry.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return c.Motion.Validate()
}

// Validate rejects settings the motion core would otherwise replace with
// defaults. A bad threshold or root margin is not an error; the observer
// falls back on its own.
func (m Motion) Validate() error {
	if _, err := carousel.ParseMode(m.CarouselMode); err != nil {
		return err
	}
	if m.ItemsPerPage <= 0 {
		return fmt.Errorf("items per page must be positive, got %d", m.ItemsPerPage)
	}
	if m.Period <= 0 || m.Cooldown <= 0 {
		return fmt.Errorf("carousel period and cooldown must be positive")
	}
	if m.CountSteps <= 0 || m.CountDuration <= 0 {
		return fmt.Errorf("count duration and steps must be positive")
	}
	return nil
}

// LiveOptions builds the page options for a carousel of itemCount items.
func (m Motion) LiveOptions(itemCount int) live.Options {
	mode, err := carousel.ParseMode(m.CarouselMode)
	if err != nil {
		mode = carousel.ModePaged
	}
	return live.Options{
		Visibility: visibility.Config{Threshold: m.Threshold, RootMargin: m.RootMargin}.Normalize(),
		Counter: reveal.CounterConfig{
			Targets:  reveal.PortfolioTargets,
			Duration: m.CountDuration,
			Steps:    m.CountSteps,
			Strict:   m.StrictCounter,
		},
		Carousel: carousel.Config{
			Mode:         mode,
			ItemCount:    itemCount,
			ItemsPerPage: m.ItemsPerPage,
			Period:       m.Period,
			Cooldown:     m.Cooldown,
		},
		FlashTTL: m.FlashTTL,
	}
}

// Tracing returns the exporter settings.
func (c Config) Tracing() telemetry.TracingConfig {
	return telemetry.TracingConfig{
		Enabled:     c.OTelEnabled,
		Endpoint:    c.OTelEndpoint,
		ServiceName: "monarkh",
	}
}
