package capture

import (
	"errors"

	"github.com/koscakluka/macca-core/core/audio"
)

var (
	ErrPermissionDenied  = audio.ErrPermissionDenied
	ErrDeviceUnavailable = audio.ErrDeviceUnavailable
	ErrNoAudioCaptured   = errors.New("no audio captured")
	ErrRecordingTooShort = errors.New("recording too short")
	ErrCaptureCancelled  = errors.New("recording cancelled")

	// ErrCaptureActive is returned when another recording holds the input
	// device anywhere in the process.
	ErrCaptureActive = errors.New("another recording is already active")
	ErrNotRecording  = errors.New("not recording")
)

// IsCaptureError reports whether err belongs to the local capture taxonomy.
// Capture errors are never sent to the backend.
func IsCaptureError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDeviceUnavailable) ||
		errors.Is(err, ErrNoAudioCaptured) ||
		errors.Is(err, ErrRecordingTooShort) ||
		errors.Is(err, ErrCaptureCancelled)
}
