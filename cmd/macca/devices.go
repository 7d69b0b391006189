package main

import (
	"fmt"
	"log/slog"

	"github.com/koscakluka/macca-core/core/audio/miniaudio"
	"github.com/koscakluka/macca-core/core/audio/portaudio"
	"github.com/koscakluka/macca-core/core/capture"
	"github.com/koscakluka/macca-core/internal/config"
)

// openDevice returns the microphone for backend and a function releasing
// the audio library. Backend none yields a nil device.
func openDevice(backend string) (capture.Device, func(), error) {
	switch backend {
	case config.AudioBackendNone:
		return nil, func() {}, nil

	case config.AudioBackendMiniaudio:
		client, err := miniaudio.NewClient()
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close miniaudio", "error", err)
			}
		}, nil

	case config.AudioBackendPortaudio:
		client, err := portaudio.NewClient(portaudio.DefaultBufferSize)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {
			if err := client.Close(); err != nil {
				slog.Warn("failed to close portaudio", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown audio backend %q", backend)
}
