package pronunciation

import (
	"time"

	"github.com/koscakluka/macca-core/core/events"
)

const (
	// DefaultPassScore is the score at or above which a word is mastered.
	DefaultPassScore = 80
	// DefaultAdvanceDelay keeps a passing result visible before the drill
	// moves to the next word.
	DefaultAdvanceDelay = 2 * time.Second
)

type TrackerOption func(*Tracker)

func WithPassScore(score int) TrackerOption {
	return func(t *Tracker) { t.passScore = score }
}

// WithAdvanceDelay sets the delay between a passing attempt and the move to
// the next word. A zero delay advances immediately.
func WithAdvanceDelay(delay time.Duration) TrackerOption {
	return func(t *Tracker) {
		if delay >= 0 {
			t.advanceDelay = delay
		}
	}
}

func WithEventEmitter(emit events.Emitter) TrackerOption {
	return func(t *Tracker) { t.emit = events.OrNoop(emit) }
}
