package orchestration

import (
	"time"

	"github.com/koscakluka/macca-core/core/capture"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
)

type TurnControllerOption func(*TurnController)

func WithMode(mode coaching.Mode) TurnControllerOption {
	return func(c *TurnController) { c.mode = mode }
}

// WithRecorder enables voice turns.
func WithRecorder(recorder Recorder) TurnControllerOption {
	return func(c *TurnController) { c.recorder = recorder }
}

func WithMinAudioBytes(n int) TurnControllerOption {
	return func(c *TurnController) {
		if n >= 0 {
			c.minAudioBytes = n
		}
	}
}

func WithTurnEventEmitter(emit events.Emitter) TurnControllerOption {
	return func(c *TurnController) { c.emit = events.OrNoop(emit) }
}

type SessionOption func(*sessionOptions)

type sessionOptions struct {
	profile       *coaching.Profile
	lessonID      string
	drillTarget   *coaching.PronunciationTarget
	device        capture.Device
	minAudioBytes int
	passScore     int
	advanceDelay  time.Duration
	emit          events.Emitter
}

// WithProfile skips fetching the learner profile from the backend.
func WithProfile(profile coaching.Profile) SessionOption {
	return func(o *sessionOptions) { o.profile = &profile }
}

// WithLessonID selects the lesson of a guided session.
func WithLessonID(id string) SessionOption {
	return func(o *sessionOptions) { o.lessonID = id }
}

func WithDrillTarget(target coaching.PronunciationTarget) SessionOption {
	return func(o *sessionOptions) { o.drillTarget = &target }
}

// WithCaptureDevice enables voice turns through the given microphone.
func WithCaptureDevice(device capture.Device) SessionOption {
	return func(o *sessionOptions) { o.device = device }
}

func WithSessionMinAudioBytes(n int) SessionOption {
	return func(o *sessionOptions) { o.minAudioBytes = n }
}

func WithPassScore(score int) SessionOption {
	return func(o *sessionOptions) { o.passScore = score }
}

func WithAdvanceDelay(delay time.Duration) SessionOption {
	return func(o *sessionOptions) { o.advanceDelay = delay }
}

// WithEventHandler receives every event produced by the session and its
// components.
func WithEventHandler(emit events.Emitter) SessionOption {
	return func(o *sessionOptions) { o.emit = events.OrNoop(emit) }
}
