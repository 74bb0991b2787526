// Package config provides configuration loading for chronicled.
//
// Configuration is read from a YAML file, then overridden by environment
// variables with the CHRONICLED_ prefix. Missing values fall back to
// defaults suitable for local development.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/chronicled/internal/logging"
)

// Config holds the complete chronicled configuration.
type Config struct {
	Server     ServerConfig    `koanf:"server"`
	Logging    logging.Config  `koanf:"logging"`
	Storage    StorageConfig   `koanf:"storage"`
	Embeddings EmbedConfig     `koanf:"embeddings"`
	Archive    ArchiveConfig   `koanf:"archive"`
	Events     EventsConfig    `koanf:"events"`
	Upstreams  UpstreamsConfig `koanf:"upstreams"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// StorageConfig selects and configures the story persistence backend.
type StorageConfig struct {
	Driver string `koanf:"driver"` // "memory" or "sqlite"
	Path   string `koanf:"path"`   // sqlite database file
}

// EmbedConfig holds the OpenAI-compatible embeddings endpoint settings.
type EmbedConfig struct {
	BaseURL string `koanf:"base_url"`
	Model   string `koanf:"model"`
	APIKey  Secret `koanf:"api_key"`
}

// ArchiveConfig holds the conversation archive settings.
type ArchiveConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"` // chromem persistence directory
	Collection string `koanf:"collection"`
}

// EventsConfig holds NATS event publishing settings.
type EventsConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Subject string `koanf:"subject"`
}

// UpstreamsConfig holds per-provider proxy settings.
type UpstreamsConfig struct {
	ElevenLabs UpstreamConfig `koanf:"elevenlabs"`
	OpenAI     UpstreamConfig `koanf:"openai"`
}

// UpstreamConfig configures a single proxied upstream API.
type UpstreamConfig struct {
	BaseURL   string   `koanf:"base_url"`
	APIKey    Secret   `koanf:"api_key"`
	RateLimit float64  `koanf:"rate_limit"` // requests per second, 0 disables limiting
	Burst     int      `koanf:"burst"`
	Timeout   Duration `koanf:"timeout"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	cfg.Logging.ApplyDefaults()

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "memory"
	}

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "text-embedding-3-small"
	}

	if cfg.Archive.Path == "" {
		cfg.Archive.Path = "~/.config/chronicled/archive"
	}
	if cfg.Archive.Collection == "" {
		cfg.Archive.Collection = "conversations"
	}

	if cfg.Events.URL == "" {
		cfg.Events.URL = "nats://localhost:4222"
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = "chronicled.story.added"
	}

	applyUpstreamDefaults(&cfg.Upstreams.ElevenLabs, "https://api.elevenlabs.io")
	applyUpstreamDefaults(&cfg.Upstreams.OpenAI, "https://api.openai.com")
}

func applyUpstreamDefaults(u *UpstreamConfig, baseURL string) {
	if u.BaseURL == "" {
		u.BaseURL = baseURL
	}
	if u.RateLimit == 0 {
		u.RateLimit = 5
	}
	if u.Burst == 0 {
		u.Burst = 10
	}
	if u.Timeout == 0 {
		u.Timeout = Duration(30 * time.Second)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout.Duration() <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage path required for sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q (must be memory or sqlite)", c.Storage.Driver)
	}

	if c.Archive.Enabled {
		if c.Archive.Path == "" {
			return errors.New("archive path required when archive is enabled")
		}
		if !c.Embeddings.APIKey.IsSet() {
			return errors.New("embeddings api_key required when archive is enabled")
		}
	}

	if c.Events.Enabled && c.Events.URL == "" {
		return errors.New("events url required when events are enabled")
	}

	for name, u := range map[string]UpstreamConfig{
		"elevenlabs": c.Upstreams.ElevenLabs,
		"openai":     c.Upstreams.OpenAI,
	} {
		if u.BaseURL == "" {
			return fmt.Errorf("upstream %s: base_url required", name)
		}
		if u.RateLimit < 0 {
			return fmt.Errorf("upstream %s: rate_limit cannot be negative", name)
		}
		if u.Burst < 1 {
			return fmt.Errorf("upstream %s: burst must be >= 1", name)
		}
	}

	return nil
}
