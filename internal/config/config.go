package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jwebster45206/story-graph/pkg/story"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level

	// Story storage
	RedisURL string        `env:"REDIS_URL" envDefault:"localhost:6379"`
	DataDir  string        `env:"DATA_DIR" envDefault:"./data"`
	StoryTTL time.Duration `env:"STORY_TTL" envDefault:"24h"`

	// Parser limits
	MaxText    int `env:"MAX_TEXT" envDefault:"4096"`
	MaxChoices int `env:"MAX_CHOICES" envDefault:"10"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)

	if cfg.MaxText < 2 {
		return nil, fmt.Errorf("MAX_TEXT must be at least 2, got %d", cfg.MaxText)
	}
	if cfg.MaxChoices < 1 {
		return nil, fmt.Errorf("MAX_CHOICES must be at least 1, got %d", cfg.MaxChoices)
	}
	return &cfg, nil
}

// Limits returns the parser limits configured for this process.
func (c *Config) Limits() story.Limits {
	return story.Limits{MaxText: c.MaxText, MaxChoices: c.MaxChoices}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
