package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL  string        `env:"MACCA_BACKEND_URL" envDefault:"http://localhost:8001/api"`
	HTTPTimeout time.Duration `env:"MACCA_HTTP_TIMEOUT" envDefault:"30s"`

	// AudioBackend is one of miniaudio, portaudio or none.
	AudioBackend  string `env:"MACCA_AUDIO_BACKEND" envDefault:"miniaudio"`
	MinAudioBytes int    `env:"MACCA_MIN_AUDIO_BYTES" envDefault:"1000"`

	AdvanceDelay time.Duration `env:"MACCA_ADVANCE_DELAY" envDefault:"2s"`
	PassScore    int           `env:"MACCA_PASS_SCORE" envDefault:"80"`

	LogLevel string `env:"MACCA_LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile      string
	BackendURL   string
	AudioBackend string
	LogLevel     string
}

const (
	AudioBackendMiniaudio = "miniaudio"
	AudioBackendPortaudio = "portaudio"
	AudioBackendNone      = "none"
)

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.BackendURL != "" {
		cfg.BackendURL = overrides.BackendURL
	}
	if overrides.AudioBackend != "" {
		cfg.AudioBackend = overrides.AudioBackend
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.AudioBackend {
	case AudioBackendMiniaudio, AudioBackendPortaudio, AudioBackendNone:
	default:
		return fmt.Errorf("unknown audio backend %q", c.AudioBackend)
	}
	if c.MinAudioBytes < 0 {
		return fmt.Errorf("MACCA_MIN_AUDIO_BYTES must not be negative, got %d", c.MinAudioBytes)
	}
	if c.PassScore < 0 || c.PassScore > 100 {
		return fmt.Errorf("MACCA_PASS_SCORE must be between 0 and 100, got %d", c.PassScore)
	}
	if c.AdvanceDelay < 0 {
		return fmt.Errorf("MACCA_ADVANCE_DELAY must not be negative, got %s", c.AdvanceDelay)
	}
	return nil
}
