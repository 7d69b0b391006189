package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPermissionDenied is returned when the user or the OS refuses access
	// to the input device.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrDeviceUnavailable is returned on hardware or driver failures.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
)

var permissionMarkers = []string{
	"permission denied",
	"access denied",
	"not permitted",
	"unauthorized",
}

// ClassifyDeviceError wraps a driver error in ErrPermissionDenied or
// ErrDeviceUnavailable. Errors that already carry one of the two are
// returned as they are.
//
// Native audio libraries only report permission problems as text, so the
// classification falls back to matching the driver message.
func ClassifyDeviceError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPermissionDenied) || errors.Is(err, ErrDeviceUnavailable) {
		return err
	}

	message := strings.ToLower(err.Error())
	for _, marker := range permissionMarkers {
		if strings.Contains(message, marker) {
			return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
}
