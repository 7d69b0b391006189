package conversations

import (
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
)

// History exposes the transcript to readers that must not append to it.
type History interface {
	// Ordering: oldest -> newest.
	Turns() []coaching.Turn
	Len() int
	Last() (coaching.Turn, bool)
	Values(yield func(coaching.Turn) bool)
}

var _ History = (*Transcript)(nil)

// Transcript is the append-only record of a session's turns.
type Transcript struct {
	mu    sync.RWMutex
	turns []coaching.Turn

	emit events.Emitter
}

type TranscriptOption func(*Transcript)

func WithEventEmitter(emit events.Emitter) TranscriptOption {
	return func(t *Transcript) { t.emit = events.OrNoop(emit) }
}

func NewTranscript(opts ...TranscriptOption) *Transcript {
	t := &Transcript{emit: events.Noop}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append stores turn at the end of the transcript and returns the stored
// value. A turn without an ID gets a fresh one.
func (t *Transcript) Append(turn coaching.Turn) coaching.Turn {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	turn.Feedback = turn.Feedback.Clone()

	t.mu.Lock()
	t.turns = append(t.turns, turn)
	index := len(t.turns) - 1
	t.mu.Unlock()

	stored := turn
	stored.Feedback = turn.Feedback.Clone()
	t.emit(events.NewTurnAppended(index, stored))
	return stored
}

// Turns returns a copy of every stored turn.
func (t *Transcript) Turns() []coaching.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	turns := make([]coaching.Turn, len(t.turns))
	for i, turn := range t.turns {
		turn.Feedback = turn.Feedback.Clone()
		turns[i] = turn
	}
	return turns
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

func (t *Transcript) Last() (coaching.Turn, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.turns) == 0 {
		return coaching.Turn{}, false
	}
	turn := t.turns[len(t.turns)-1]
	turn.Feedback = turn.Feedback.Clone()
	return turn, true
}

// Values is an iterator that goes over a snapshot of the stored turns
// starting from the earliest towards the latest
func (t *Transcript) Values(yield func(coaching.Turn) bool) {
	for _, turn := range t.Turns() {
		if !yield(turn) {
			return
		}
	}
}
