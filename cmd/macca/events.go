package main

import (
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/koscakluka/macca-core/core/events"
)

const eventBufferSize = 64

// eventStream hands session events to the terminal UI. Capture frames are
// skipped and events that do not fit the buffer are dropped and counted.
type eventStream struct {
	events  chan events.Event
	dropped atomic.Int64
}

func newEventStream() *eventStream {
	return &eventStream{events: make(chan events.Event, eventBufferSize)}
}

func (s *eventStream) emit(event events.Event) {
	if event.Kind() == events.KindCaptureFrame {
		return
	}
	select {
	case s.events <- event:
	default:
		dropped := s.dropped.Add(1)
		slog.Debug("ui event dropped", "kind", event.Kind(), "dropped", dropped)
	}
}

// Dropped is the number of events that did not reach the UI.
func (s *eventStream) Dropped() int64 { return s.dropped.Load() }

// logEvent writes session events to the debug log.
func logEvent(event events.Event) {
	if event.Kind() == events.KindCaptureFrame {
		return
	}
	slog.Debug("session event", "kind", event.Kind())
}

type eventMsg struct{ event events.Event }

func (s *eventStream) wait() tea.Cmd {
	return func() tea.Msg {
		return eventMsg{event: <-s.events}
	}
}
