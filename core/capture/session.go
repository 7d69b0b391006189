package capture

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/koscakluka/macca-core/core/audio"
	"github.com/koscakluka/macca-core/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type State string

const (
	StateIdle       State = "idle"
	StateRecording  State = "recording"
	StateAssembling State = "assembling"
)

// deviceHeld guards the input device across every Session in the process.
var deviceHeld atomic.Bool

const chunkBufferSize = 256

// Session records one utterance at a time from a Device and assembles it
// into a Payload.
type Session struct {
	device          Device
	minPayloadBytes int
	emit            events.Emitter

	mu      sync.Mutex
	state   State
	current *recording
	// unreported holds a device failure that ended a recording before the
	// caller asked for its result.
	unreported error
}

func NewSession(device Device, opts ...SessionOption) *Session {
	s := &Session{
		device:          device,
		minPayloadBytes: DefaultMinPayloadBytes,
		emit:            events.Noop,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// EncodingInfo describes the samples of the device, or the default
// linear16 mono format when the device does not say.
func (s *Session) EncodingInfo() audio.EncodingInfo {
	if s.device == nil {
		return audio.GetDefaultEncodingInfo()
	}
	if info := s.device.EncodingInfo(); !info.IsZero() {
		return info
	}
	return audio.GetDefaultEncodingInfo()
}

// Start acquires the input device and begins buffering chunks.
func (s *Session) Start(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "start capture")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrCaptureActive
	}
	if s.device == nil {
		err := fmt.Errorf("failed to start capture: %w", ErrDeviceUnavailable)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if !deviceHeld.CompareAndSwap(false, true) {
		return ErrCaptureActive
	}
	s.unreported = nil

	rec := newRecording(ctx, s.device)
	span.SetAttributes(attribute.String("recording.id", rec.id))
	if reporter, ok := s.device.(FailureReporter); ok {
		reporter.SetFailureHandler(func(err error) {
			rec.send(failed{err: fmt.Errorf("capture interrupted: %w", audio.ClassifyDeviceError(err))})
		})
	}

	if err := s.device.StartCapture(rec.ctx, rec.onAudio); err != nil {
		err = fmt.Errorf("failed to start capture: %w", audio.ClassifyDeviceError(err))
		_ = rec.release()
		deviceHeld.Store(false)
		close(rec.done)

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "capture start failed", "recording_id", rec.id, "error", err)
		s.emit(events.NewCaptureFailed(rec.id, err))
		return err
	}

	s.state = StateRecording
	s.current = rec
	go s.run(rec)

	logger.DebugContext(ctx, "capture started", "recording_id", rec.id)
	s.emit(events.NewCaptureStarted(rec.id))
	return nil
}

// Stop releases the device and returns the assembled recording.
//
// A recording with no chunks fails with ErrNoAudioCaptured and one smaller
// than the minimum payload size with ErrRecordingTooShort. Both are
// terminal; a new recording needs a fresh Start.
func (s *Session) Stop(ctx context.Context) (audio.Payload, error) {
	ctx, span := tracer.Start(ctx, "stop capture")
	defer span.End()

	rec, err := s.claimCurrent()
	if err != nil {
		return audio.Payload{}, err
	}

	if err := rec.release(); err != nil {
		rec.send(failed{err: fmt.Errorf("failed to release capture device: %w", audio.ClassifyDeviceError(err))})
	} else {
		rec.send(stopped{})
	}

	select {
	case <-rec.done:
	case <-ctx.Done():
		return audio.Payload{}, ctx.Err()
	}

	if rec.err != nil {
		span.RecordError(rec.err)
		span.SetStatus(codes.Error, rec.err.Error())
		return audio.Payload{}, rec.err
	}

	span.SetAttributes(attribute.Int("payload.size", rec.payload.Size()))
	return rec.payload, nil
}

// Cancel abandons the current recording. The device is released and no
// payload is produced.
func (s *Session) Cancel(ctx context.Context) error {
	rec, err := s.claimCurrent()
	if err != nil {
		return err
	}

	_ = rec.release()
	rec.send(failed{err: ErrCaptureCancelled})

	select {
	case <-rec.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) claimCurrent() (*recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.current
	if s.state != StateRecording || rec == nil {
		if err := s.unreported; err != nil {
			s.unreported = nil
			return nil, err
		}
		return nil, ErrNotRecording
	}

	rec.claimed.Store(true)
	return rec, nil
}

func (s *Session) run(rec *recording) {
	var chunks [][]byte
	for {
		switch ev := (<-rec.events).(type) {
		case chunkReceived:
			if len(ev.data) == 0 {
				continue
			}
			chunks = append(chunks, ev.data)
			s.emit(events.NewCaptureFrame(rec.id, ev.data))

		case stopped:
			s.mu.Lock()
			if s.current == rec {
				s.state = StateAssembling
			}
			s.mu.Unlock()

			payload, err := s.assemble(chunks)
			s.finish(rec, payload, err)
			return

		case failed:
			s.finish(rec, audio.Payload{}, ev.err)
			return
		}
	}
}

func (s *Session) assemble(chunks [][]byte) (audio.Payload, error) {
	if len(chunks) == 0 {
		return audio.Payload{}, ErrNoAudioCaptured
	}

	info := s.EncodingInfo()
	data := bytes.Join(chunks, nil)
	format := audio.ContainerWAV
	if encoded, ok := s.device.(EncodedDevice); ok {
		format = encoded.ContainerFormat()
	} else {
		if rate := info.BytesPerSecond(); rate > 0 {
			logger.Debug("recording assembled", "bytes", len(data), "duration", time.Duration(len(data))*time.Second/time.Duration(rate))
		}
		wav, err := audio.EncodeWAV(data, info)
		if err != nil {
			return audio.Payload{}, fmt.Errorf("failed to package recording: %w", err)
		}
		data = wav
	}

	if len(data) < s.minPayloadBytes {
		return audio.Payload{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrRecordingTooShort, len(data), s.minPayloadBytes)
	}

	return audio.Payload{Data: data, Format: format, EncodingInfo: info}, nil
}

// finish is the single exit of every recording: the device is released,
// the process-wide guard cleared and exactly one terminal event emitted.
func (s *Session) finish(rec *recording, payload audio.Payload, err error) {
	if releaseErr := rec.release(); releaseErr != nil && err == nil {
		err = fmt.Errorf("failed to release capture device: %w", audio.ClassifyDeviceError(releaseErr))
		payload = audio.Payload{}
	}
	rec.payload, rec.err = payload, err

	s.mu.Lock()
	if s.current == rec {
		s.current = nil
		s.state = StateIdle
		if err != nil && !rec.claimed.Load() {
			s.unreported = err
		}
	}
	s.mu.Unlock()
	deviceHeld.Store(false)

	if err != nil {
		logger.Debug("capture failed", "recording_id", rec.id, "error", err)
		s.emit(events.NewCaptureFailed(rec.id, err))
	} else {
		logger.Debug("capture payload ready", "recording_id", rec.id, "size", payload.Size())
		s.emit(events.NewCapturePayloadReady(rec.id, payload))
	}
	close(rec.done)
}

type recording struct {
	id     string
	ctx    context.Context
	events chan deviceEvent
	done   chan struct{}

	// release stops the device at most once and cancels ctx.
	release func() error
	claimed atomic.Bool

	payload audio.Payload
	err     error
}

func newRecording(ctx context.Context, device Device) *recording {
	recCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	return &recording{
		id:     uuid.NewString(),
		ctx:    recCtx,
		events: make(chan deviceEvent, chunkBufferSize),
		done:   make(chan struct{}),
		release: sync.OnceValue(func() error {
			defer cancel()
			return device.StopCapture()
		}),
	}
}

func (r *recording) onAudio(data []byte) {
	// Drivers reuse their buffers between callbacks.
	r.send(chunkReceived{data: append([]byte(nil), data...)})
}

func (r *recording) send(ev deviceEvent) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}
