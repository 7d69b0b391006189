package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// Emitter receives events produced by a component. Emitters are called
// inline and should not block.
type Emitter func(Event)

// Noop discards events.
func Noop(Event) {}

// OrNoop returns emit, or Noop when emit is nil.
func OrNoop(emit Emitter) Emitter {
	if emit == nil {
		return Noop
	}
	return emit
}

// Fanout returns an emitter that forwards every event to each non-nil
// emitter in order.
func Fanout(emitters ...Emitter) Emitter {
	targets := make([]Emitter, 0, len(emitters))
	for _, emit := range emitters {
		if emit != nil {
			targets = append(targets, emit)
		}
	}

	return func(event Event) {
		for _, emit := range targets {
			emit(event)
		}
	}
}
