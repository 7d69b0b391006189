package capture

import "github.com/koscakluka/macca-core/core/events"

// DefaultMinPayloadBytes is the smallest recording accepted by the backend.
const DefaultMinPayloadBytes = 1000

type SessionOption func(*Session)

// WithMinPayloadBytes overrides the size under which a finished recording is
// rejected with ErrRecordingTooShort.
func WithMinPayloadBytes(n int) SessionOption {
	return func(s *Session) {
		if n >= 0 {
			s.minPayloadBytes = n
		}
	}
}

func WithEventEmitter(emit events.Emitter) SessionOption {
	return func(s *Session) { s.emit = events.OrNoop(emit) }
}
