package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/capture"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/conversations"
	"github.com/koscakluka/macca-core/core/events"
	"github.com/koscakluka/macca-core/core/lessons"
	"github.com/koscakluka/macca-core/core/pronunciation"
	"github.com/koscakluka/macca-core/core/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrLessonRequired = errors.New("guided session needs a lesson")
	ErrWrongMode      = errors.New("operation not available in this mode")
	ErrSessionClosed  = errors.New("session closed")
)

// Session is the service object for one coaching session. It owns the
// transcript, the turn controller and the progression tracker of its mode,
// and lives from NewSession until Close.
type Session struct {
	backend transport.Backend
	mode    coaching.Mode
	emit    events.Emitter

	transcript *conversations.Transcript
	controller *TurnController
	capture    *capture.Session
	lesson     *lessons.Tracker
	drill      *pronunciation.Tracker

	// practicing is set while a drill word is being analyzed.
	practicing atomic.Bool

	mu      sync.RWMutex
	profile coaching.Profile
	closed  bool
}

func NewSession(ctx context.Context, backend transport.Backend, mode coaching.Mode, opts ...SessionOption) (*Session, error) {
	ctx, span := tracer.Start(ctx, "start session")
	defer span.End()
	span.SetAttributes(attribute.String("session.mode", mode.String()))

	if backend == nil {
		return nil, errors.New("session needs a backend")
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, mode)
	}

	options := sessionOptions{
		minAudioBytes: capture.DefaultMinPayloadBytes,
		passScore:     pronunciation.DefaultPassScore,
		advanceDelay:  pronunciation.DefaultAdvanceDelay,
		emit:          events.Noop,
	}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Session{
		backend:    backend,
		mode:       mode,
		emit:       options.emit,
		transcript: conversations.NewTranscript(conversations.WithEventEmitter(options.emit)),
	}

	if options.profile != nil {
		s.profile = *options.profile
	} else if profile, err := backend.FetchProfile(ctx); err != nil {
		// The coach works without a profile; tips fall back to Indonesian.
		logger.WarnContext(ctx, "failed to fetch profile", "error", err)
		s.profile = coaching.Profile{ExplanationLanguage: coaching.ExplanationLanguageIndonesian}
	} else {
		s.profile = profile
	}

	switch mode {
	case coaching.ModeGuided:
		if options.lessonID == "" {
			return nil, ErrLessonRequired
		}
		fetched, err := backend.FetchLesson(ctx, options.lessonID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to fetch lesson %s: %w", options.lessonID, err)
		}
		tracker, err := lessons.NewTracker(fetched, lessons.WithEventEmitter(options.emit))
		if err != nil {
			return nil, fmt.Errorf("failed to start lesson %s: %w", options.lessonID, err)
		}
		s.lesson = tracker

	case coaching.ModePronunciation:
		s.drill = pronunciation.NewTracker(
			pronunciation.WithPassScore(options.passScore),
			pronunciation.WithAdvanceDelay(options.advanceDelay),
			pronunciation.WithEventEmitter(options.emit),
		)
		if options.drillTarget != nil {
			s.drill.SelectTarget(*options.drillTarget)
		}
	}

	controllerOpts := []TurnControllerOption{
		WithMode(mode),
		WithMinAudioBytes(options.minAudioBytes),
		WithTurnEventEmitter(options.emit),
	}
	if options.device != nil {
		s.capture = capture.NewSession(options.device,
			capture.WithMinPayloadBytes(options.minAudioBytes),
			capture.WithEventEmitter(options.emit),
		)
		controllerOpts = append(controllerOpts, WithRecorder(s.capture))
	}
	s.controller = NewTurnController(backend, s.transcript, controllerOpts...)

	if turn, ok := greeting(mode, s.lesson); ok {
		s.transcript.Append(turn)
	}

	logger.InfoContext(ctx, "session started", "mode", mode, "lesson_id", options.lessonID)
	return s, nil
}

func (s *Session) Mode() coaching.Mode { return s.mode }

func (s *Session) Status() Status { return s.controller.Status() }

func (s *Session) Transcript() conversations.History { return s.transcript }

// Lesson returns the lesson tracker of a guided session, nil otherwise.
func (s *Session) Lesson() *lessons.Tracker { return s.lesson }

// Drill returns the drill tracker of a pronunciation session, nil
// otherwise.
func (s *Session) Drill() *pronunciation.Tracker { return s.drill }

func (s *Session) Profile() coaching.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *Session) UpdateProfile(ctx context.Context, update coaching.ProfileUpdate) (coaching.Profile, error) {
	if err := s.checkOpen(); err != nil {
		return coaching.Profile{}, err
	}

	profile, err := s.backend.UpdateProfile(ctx, update)
	if err != nil {
		return coaching.Profile{}, err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	return profile, nil
}

// Submit sends typed text as the next turn and feeds the returned feedback
// to the lesson tracker in guided mode.
func (s *Session) Submit(ctx context.Context, text string) (coaching.Feedback, error) {
	if err := s.checkOpen(); err != nil {
		return coaching.Feedback{}, err
	}

	feedback, err := s.controller.Submit(ctx, TurnInput{Text: text})
	if err != nil {
		return coaching.Feedback{}, err
	}
	s.onFeedback(feedback)
	return feedback, nil
}

func (s *Session) StartRecording(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.controller.StartRecording(ctx)
}

// StopRecording submits the recording as a voice turn.
func (s *Session) StopRecording(ctx context.Context) (coaching.Feedback, error) {
	feedback, err := s.controller.StopRecording(ctx)
	if err != nil {
		return coaching.Feedback{}, err
	}
	s.onFeedback(feedback)
	return feedback, nil
}

func (s *Session) CancelRecording(ctx context.Context) error {
	return s.controller.CancelRecording(ctx)
}

func (s *Session) onFeedback(feedback coaching.Feedback) {
	if s.lesson != nil {
		s.lesson.OnFeedback(&feedback)
	}
}

// SelectTarget switches the drill of a pronunciation session to target.
func (s *Session) SelectTarget(target coaching.PronunciationTarget) error {
	if s.drill == nil {
		return fmt.Errorf("%w: no drill in %s mode", ErrWrongMode, s.mode)
	}
	s.drill.SelectTarget(target)
	return nil
}

// PracticeWord analyzes the current drill word, optionally from a
// recording, and feeds the result to the drill. It returns the result the
// drill acted on. Only one word is analyzed at a time; a second call while
// one is in flight fails with ErrTurnInFlight.
func (s *Session) PracticeWord(ctx context.Context, recording *audio.Payload) (coaching.PronunciationResult, bool, error) {
	if !s.practicing.CompareAndSwap(false, true) {
		return coaching.PronunciationResult{}, false, ErrTurnInFlight
	}
	defer s.practicing.Store(false)

	return s.practiceWord(ctx, recording)
}

// StopPracticeRecording finishes the recording and scores it against the
// current drill word.
func (s *Session) StopPracticeRecording(ctx context.Context) (coaching.PronunciationResult, bool, error) {
	if !s.practicing.CompareAndSwap(false, true) {
		return coaching.PronunciationResult{}, false, ErrTurnInFlight
	}
	defer s.practicing.Store(false)

	payload, err := s.controller.FinishRecording(ctx)
	if err != nil {
		return coaching.PronunciationResult{}, false, err
	}
	return s.practiceWord(ctx, &payload)
}

func (s *Session) practiceWord(ctx context.Context, recording *audio.Payload) (coaching.PronunciationResult, bool, error) {
	ctx, span := tracer.Start(ctx, "practice word")
	defer span.End()

	if err := s.checkOpen(); err != nil {
		return coaching.PronunciationResult{}, false, err
	}
	if s.drill == nil {
		return coaching.PronunciationResult{}, false, fmt.Errorf("%w: no drill in %s mode", ErrWrongMode, s.mode)
	}
	if s.drill.IsAdvancing() {
		return coaching.PronunciationResult{}, false, nil
	}
	word, ok := s.drill.CurrentWord()
	if !ok {
		return coaching.PronunciationResult{}, false, pronunciation.ErrNoTarget
	}
	span.SetAttributes(attribute.String("pronunciation.word", word))

	results, err := s.backend.AnalyzePronunciation(ctx, word, recording)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return coaching.PronunciationResult{}, false, err
	}
	if len(results) == 0 {
		return coaching.PronunciationResult{}, false, nil
	}
	// The backend may omit the word; the drill then scores the word that
	// was sent.
	if results[0].Word == "" {
		results[0].Word = word
	}

	passed, err := s.drill.SubmitResults(results)
	if err != nil {
		return coaching.PronunciationResult{}, false, err
	}
	return results[0], passed, nil
}

// Close ends the session. A recording in progress is cancelled and a
// pending drill advance dropped.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	var err error
	if s.controller.Status() == StatusRecording {
		if cancelErr := s.controller.CancelRecording(ctx); cancelErr != nil && !errors.Is(cancelErr, capture.ErrNotRecording) {
			err = fmt.Errorf("failed to cancel recording: %w", cancelErr)
		}
	}
	if s.drill != nil {
		s.drill.Close()
	}
	return err
}

func (s *Session) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}
