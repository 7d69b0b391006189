package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/coaching"
)

// TurnTransport sends a single turn to the coaching backend. It keeps no
// state between calls.
type TurnTransport interface {
	SubmitTurn(ctx context.Context, req TurnRequest) (TurnReply, error)
}

// Backend is the full set of backend contracts a session uses.
type Backend interface {
	TurnTransport
	FetchProfile(ctx context.Context) (coaching.Profile, error)
	UpdateProfile(ctx context.Context, update coaching.ProfileUpdate) (coaching.Profile, error)
	ListLessons(ctx context.Context) ([]coaching.Lesson, error)
	FetchLesson(ctx context.Context, id string) (coaching.Lesson, error)
	AnalyzePronunciation(ctx context.Context, word string, recording *audio.Payload) ([]coaching.PronunciationResult, error)
}

var _ Backend = (*Client)(nil)

// TurnRequest carries exactly one of Text or Audio.
type TurnRequest struct {
	Text  string
	Audio *audio.Payload
	Mode  coaching.Mode
}

type TurnReply struct {
	Text     string
	Feedback coaching.Feedback
}

func (r TurnRequest) IsVoice() bool { return r.Audio != nil }

// Validate checks the request shape and, for audio, the payload
// constraints the backend enforces.
func (r TurnRequest) Validate(minAudioBytes int) error {
	hasText := strings.TrimSpace(r.Text) != ""
	hasAudio := r.Audio != nil

	switch {
	case hasText && hasAudio:
		return fmt.Errorf("%w: turn has both text and audio", ErrInvalidInput)
	case !hasText && !hasAudio:
		return fmt.Errorf("%w: turn has neither text nor audio", ErrInvalidInput)
	case !r.Mode.Valid():
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, r.Mode)
	}

	if hasAudio {
		return validateAudio(*r.Audio, minAudioBytes)
	}
	return nil
}

func validateAudio(payload audio.Payload, minBytes int) error {
	if !payload.Format.IsSupported() {
		return fmt.Errorf("%w: unsupported audio container %q", ErrInvalidInput, payload.Format)
	}
	if payload.Size() < minBytes {
		return fmt.Errorf("%w: audio payload is %d bytes, need at least %d", ErrInvalidInput, payload.Size(), minBytes)
	}
	return nil
}
