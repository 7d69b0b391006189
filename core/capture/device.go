package capture

import (
	"context"

	"github.com/koscakluka/macca-core/core/audio"
)

// Device is an exclusive audio input. StartCapture acquires the device
// handle and StopCapture releases it; StopCapture must be safe to call on a
// device that is not capturing.
type Device interface {
	EncodingInfo() audio.EncodingInfo
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

// FailureReporter is implemented by devices that can fail after capture has
// started, e.g. when the driver loses the device.
type FailureReporter interface {
	SetFailureHandler(onFailure func(err error))
}

// EncodedDevice is implemented by devices that deliver chunks of an encoded
// container stream instead of raw samples.
type EncodedDevice interface {
	ContainerFormat() audio.ContainerFormat
}
