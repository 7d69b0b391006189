package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.BackendURL != "http://localhost:8001/api" {
			t.Errorf("BackendURL = %q, want http://localhost:8001/api", cfg.BackendURL)
		}
		if cfg.HTTPTimeout != 30*time.Second {
			t.Errorf("HTTPTimeout = %s, want 30s", cfg.HTTPTimeout)
		}
		if cfg.MinAudioBytes != 1000 {
			t.Errorf("MinAudioBytes = %d, want 1000", cfg.MinAudioBytes)
		}
		if cfg.AdvanceDelay != 2*time.Second {
			t.Errorf("AdvanceDelay = %s, want 2s", cfg.AdvanceDelay)
		}
		if cfg.PassScore != 80 {
			t.Errorf("PassScore = %d, want 80", cfg.PassScore)
		}
		if cfg.AudioBackend != AudioBackendMiniaudio {
			t.Errorf("AudioBackend = %q, want miniaudio", cfg.AudioBackend)
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		t.Setenv("MACCA_BACKEND_URL", "https://coach.example.com/api")
		t.Setenv("MACCA_ADVANCE_DELAY", "500ms")
		t.Setenv("MACCA_PASS_SCORE", "75")

		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.BackendURL != "https://coach.example.com/api" {
			t.Errorf("BackendURL = %q, want https://coach.example.com/api", cfg.BackendURL)
		}
		if cfg.AdvanceDelay != 500*time.Millisecond {
			t.Errorf("AdvanceDelay = %s, want 500ms", cfg.AdvanceDelay)
		}
		if cfg.PassScore != 75 {
			t.Errorf("PassScore = %d, want 75", cfg.PassScore)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		t.Setenv("MACCA_BACKEND_URL", "https://coach.example.com/api")
		t.Setenv("MACCA_LOG_LEVEL", "warn")

		cfg, err := Load(Overrides{
			EnvFile:      "nonexistent.env",
			BackendURL:   "http://127.0.0.1:9000/api",
			AudioBackend: AudioBackendNone,
			LogLevel:     "debug",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.BackendURL != "http://127.0.0.1:9000/api" {
			t.Errorf("BackendURL = %q, want override", cfg.BackendURL)
		}
		if cfg.AudioBackend != AudioBackendNone {
			t.Errorf("AudioBackend = %q, want none", cfg.AudioBackend)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
	})

	t.Run("env_file_read", func(t *testing.T) {
		envFile := filepath.Join(t.TempDir(), "test.env")
		if err := os.WriteFile(envFile, []byte("MACCA_MIN_AUDIO_BYTES=2048\n"), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("MACCA_MIN_AUDIO_BYTES") })

		cfg, err := Load(Overrides{EnvFile: envFile})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.MinAudioBytes != 2048 {
			t.Errorf("MinAudioBytes = %d, want 2048", cfg.MinAudioBytes)
		}
	})

	t.Run("invalid_values", func(t *testing.T) {
		for key, value := range map[string]string{
			"MACCA_AUDIO_BACKEND": "pulse",
			"MACCA_PASS_SCORE":    "120",
			"MACCA_HTTP_TIMEOUT":  "soon",
		} {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				if _, err := Load(Overrides{EnvFile: "nonexistent.env"}); err == nil {
					t.Errorf("Load with %s=%s: expected error", key, value)
				}
			})
		}
	})
}
