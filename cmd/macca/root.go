package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	orchestration "github.com/koscakluka/macca-core/core"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
	"github.com/koscakluka/macca-core/core/transport"
	"github.com/koscakluka/macca-core/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	quiet     bool
	overrides config.Overrides
)

var rootCmd = &cobra.Command{
	Use:   "macca",
	Short: "Practice spoken English with the Macca coach",
	Long: `Macca is a terminal client for the Macca English coach. Talk freely in a
live conversation, work through a guided lesson step by step, or drill a
single sound until every practice word is mastered.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(overrides)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogging(cfg.LogLevel)
		cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
		return nil
	},
}

type configKey struct{}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg, _ := config.Load(config.Overrides{})
	return cfg
}

func setupLogging(configured string) {
	level := slog.LevelInfo
	switch strings.ToLower(configured) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&overrides.EnvFile, "env-file", "", "path to a .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&overrides.BackendURL, "backend", "", "coaching backend base URL")
	rootCmd.PersistentFlags().StringVar(&overrides.AudioBackend, "audio", "", "audio input backend: miniaudio, portaudio or none")
	rootCmd.PersistentFlags().StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn or error")
}

func newBackend(cfg *config.Config) *transport.Client {
	return transport.NewClient(cfg.BackendURL,
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithMinAudioBytes(cfg.MinAudioBytes),
	)
}

// startSession builds a session for mode with the configured backend and
// microphone. The returned cleanup closes both.
func startSession(ctx context.Context, mode coaching.Mode, opts ...orchestration.SessionOption) (*orchestration.Session, *eventStream, func(), error) {
	cfg := configFrom(ctx)

	device, closeDevice, err := openDevice(cfg.AudioBackend)
	if err != nil {
		slog.Warn("voice input disabled", "backend", cfg.AudioBackend, "error", err)
		device, closeDevice = nil, func() {}
	}

	stream := newEventStream()
	opts = append([]orchestration.SessionOption{
		orchestration.WithSessionMinAudioBytes(cfg.MinAudioBytes),
		orchestration.WithPassScore(cfg.PassScore),
		orchestration.WithAdvanceDelay(cfg.AdvanceDelay),
		orchestration.WithEventHandler(events.Fanout(stream.emit, logEvent)),
	}, opts...)
	if device != nil {
		opts = append(opts, orchestration.WithCaptureDevice(device))
	}

	session, err := orchestration.NewSession(ctx, newBackend(cfg), mode, opts...)
	if err != nil {
		closeDevice()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := session.Close(context.Background()); err != nil {
			slog.Warn("failed to close session", "error", err)
		}
		closeDevice()
	}
	return session, stream, cleanup, nil
}
