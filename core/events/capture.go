package events

import "github.com/koscakluka/macca-core/core/audio"

const (
	// KindCaptureStarted identifies acquisition of the input device.
	KindCaptureStarted Kind = "capture.started"
	// KindCaptureFrame identifies a raw input audio chunk.
	KindCaptureFrame Kind = "capture.frame"
	// KindCapturePayloadReady identifies a successfully assembled recording.
	KindCapturePayloadReady Kind = "capture.payload_ready"
	// KindCaptureFailed identifies a recording that ended without a payload.
	KindCaptureFailed Kind = "capture.failed"
)

// CaptureStarted marks the start of a recording.
type CaptureStarted struct {
	Base
	RecordingID string
}

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted(recordingID string) CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted), RecordingID: recordingID}
}

// CaptureFrame carries a raw input audio chunk.
type CaptureFrame struct {
	Base
	RecordingID string
	Audio       []byte
}

// NewCaptureFrame creates a capture frame event.
func NewCaptureFrame(recordingID string, audio []byte) CaptureFrame {
	return CaptureFrame{Base: NewBase(KindCaptureFrame), RecordingID: recordingID, Audio: audio}
}

// CapturePayloadReady carries the assembled recording.
type CapturePayloadReady struct {
	Base
	RecordingID string
	Payload     audio.Payload
}

// NewCapturePayloadReady creates a payload ready event.
func NewCapturePayloadReady(recordingID string, payload audio.Payload) CapturePayloadReady {
	return CapturePayloadReady{Base: NewBase(KindCapturePayloadReady), RecordingID: recordingID, Payload: payload}
}

// CaptureFailed carries the reason a recording produced no payload.
type CaptureFailed struct {
	Base
	RecordingID string
	Err         error
}

// NewCaptureFailed creates a capture failed event.
func NewCaptureFailed(recordingID string, err error) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), RecordingID: recordingID, Err: err}
}
