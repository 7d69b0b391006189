package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/capture"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/conversations"
	"github.com/koscakluka/macca-core/core/events"
	"github.com/koscakluka/macca-core/core/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusRecording Status = "recording"
	StatusThinking  Status = "thinking"
)

const (
	// FallbackReplyText is the assistant turn appended when an exchange
	// fails.
	FallbackReplyText = "Sorry, I encountered an error. Let's try again."
	// VoicePlaceholderText stands in for the text of a spoken user turn.
	VoicePlaceholderText = "[voice message]"
)

var (
	ErrTurnInFlight = errors.New("a turn is already in flight")
	ErrInvalidInput = transport.ErrInvalidInput
	ErrNoRecorder   = fmt.Errorf("no audio input configured: %w", capture.ErrDeviceUnavailable)
)

// Recorder is the capture side of a voice turn. *capture.Session
// implements it.
type Recorder interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (audio.Payload, error)
	Cancel(ctx context.Context) error
}

var _ Recorder = (*capture.Session)(nil)

// TurnInput is either typed text or a finished recording, never both.
type TurnInput struct {
	Text  string
	Audio *audio.Payload
}

// TurnController runs one turn at a time against the backend and keeps the
// transcript consistent with the outcome of each exchange.
type TurnController struct {
	transport     transport.TurnTransport
	transcript    *conversations.Transcript
	recorder      Recorder
	mode          coaching.Mode
	minAudioBytes int
	emit          events.Emitter

	mu     sync.Mutex
	status Status
}

func NewTurnController(turns transport.TurnTransport, transcript *conversations.Transcript, opts ...TurnControllerOption) *TurnController {
	if transcript == nil {
		transcript = conversations.NewTranscript()
	}

	c := &TurnController{
		transport:     turns,
		transcript:    transcript,
		mode:          coaching.ModeLive,
		minAudioBytes: capture.DefaultMinPayloadBytes,
		emit:          events.Noop,
		status:        StatusIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TurnController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *TurnController) Mode() coaching.Mode { return c.mode }

func (c *TurnController) Transcript() *conversations.Transcript { return c.transcript }

// Submit sends input as the next user turn and returns the feedback for
// it.
//
// The user turn is appended before the backend is called and stays in the
// transcript whatever the outcome. A failed exchange appends a fallback
// assistant turn and returns the error.
func (c *TurnController) Submit(ctx context.Context, input TurnInput) (coaching.Feedback, error) {
	req := transport.TurnRequest{Text: input.Text, Audio: input.Audio, Mode: c.mode}
	if err := req.Validate(c.minAudioBytes); err != nil {
		return coaching.Feedback{}, err
	}

	if !c.transition(StatusIdle, StatusThinking) {
		return coaching.Feedback{}, ErrTurnInFlight
	}
	return c.exchange(ctx, req)
}

// StartRecording acquires the input device for a voice turn.
func (c *TurnController) StartRecording(ctx context.Context) error {
	if c.recorder == nil {
		return ErrNoRecorder
	}

	if !c.transition(StatusIdle, StatusRecording) {
		if c.Status() == StatusRecording {
			return capture.ErrCaptureActive
		}
		return ErrTurnInFlight
	}

	if err := c.recorder.Start(ctx); err != nil {
		c.setStatus(StatusIdle)
		logger.WarnContext(ctx, "failed to start recording", "error", err)
		return err
	}
	return nil
}

// StopRecording finishes the recording and submits it as a voice turn.
// Capture failures leave the transcript untouched and never reach the
// backend.
func (c *TurnController) StopRecording(ctx context.Context) (coaching.Feedback, error) {
	payload, err := c.stopCapture(ctx)
	if err != nil {
		return coaching.Feedback{}, err
	}

	req := transport.TurnRequest{Audio: &payload, Mode: c.mode}
	if err := req.Validate(c.minAudioBytes); err != nil {
		c.setStatus(StatusIdle)
		return coaching.Feedback{}, err
	}
	return c.exchange(ctx, req)
}

// FinishRecording stops the recording and hands the payload back instead
// of submitting it.
func (c *TurnController) FinishRecording(ctx context.Context) (audio.Payload, error) {
	payload, err := c.stopCapture(ctx)
	if err != nil {
		return audio.Payload{}, err
	}
	c.setStatus(StatusIdle)
	return payload, nil
}

// CancelRecording abandons the recording without submitting anything.
func (c *TurnController) CancelRecording(ctx context.Context) error {
	if c.recorder == nil {
		return ErrNoRecorder
	}
	if !c.transition(StatusRecording, StatusThinking) {
		return capture.ErrNotRecording
	}
	defer c.setStatus(StatusIdle)
	return c.recorder.Cancel(ctx)
}

func (c *TurnController) stopCapture(ctx context.Context) (audio.Payload, error) {
	if c.recorder == nil {
		return audio.Payload{}, ErrNoRecorder
	}
	// The recording is assembled while the status reads thinking, so a
	// second stop cannot race the first. A rejected recording returns the
	// status to idle.
	if !c.transition(StatusRecording, StatusThinking) {
		return audio.Payload{}, capture.ErrNotRecording
	}

	payload, err := c.recorder.Stop(ctx)
	if err != nil {
		if capture.IsCaptureError(err) {
			logger.InfoContext(ctx, "recording rejected", "error", err)
		} else {
			logger.WarnContext(ctx, "failed to stop recording", "error", err)
		}
		c.setStatus(StatusIdle)
		return audio.Payload{}, err
	}
	return payload, nil
}

func (c *TurnController) exchange(ctx context.Context, req transport.TurnRequest) (coaching.Feedback, error) {
	ctx, span := tracer.Start(ctx, "exchange turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("turn.mode", req.Mode.String()),
		attribute.Bool("turn.voice", req.IsVoice()),
	)

	userTurn := coaching.Turn{Role: coaching.RoleUser, Text: req.Text, IsVoice: req.IsVoice()}
	if req.IsVoice() {
		userTurn.Text = VoicePlaceholderText
	}
	userTurn = c.transcript.Append(userTurn)
	span.SetAttributes(attribute.String("turn.id", userTurn.ID))
	c.emit(events.NewTurnStarted(userTurn.ID, req.Mode, req.IsVoice()))

	reply, err := c.transport.SubmitTurn(ctx, req)
	if err != nil {
		c.transcript.Append(coaching.Turn{Role: coaching.RoleAssistant, Text: FallbackReplyText, IsFallback: true})
		c.setStatus(StatusIdle)

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "turn failed", "turn_id", userTurn.ID, "error", err)
		c.emit(events.NewTurnFailed(userTurn.ID, err))
		return coaching.Feedback{}, err
	}

	feedback := reply.Feedback
	c.transcript.Append(coaching.Turn{Role: coaching.RoleAssistant, Text: reply.Text, Feedback: &feedback})
	c.setStatus(StatusIdle)

	c.emit(events.NewTurnCompleted(userTurn.ID, *feedback.Clone()))
	return *feedback.Clone(), nil
}

func (c *TurnController) transition(from, to Status) bool {
	c.mu.Lock()
	if c.status != from {
		c.mu.Unlock()
		return false
	}
	c.status = to
	c.mu.Unlock()

	c.emit(events.NewStatusChanged(string(to)))
	return true
}

func (c *TurnController) setStatus(status Status) {
	c.mu.Lock()
	if c.status == status {
		c.mu.Unlock()
		return
	}
	c.status = status
	c.mu.Unlock()

	c.emit(events.NewStatusChanged(string(status)))
}
