package events

import "github.com/koscakluka/macca-core/core/coaching"

const (
	// KindTurnStarted identifies an accepted user turn.
	KindTurnStarted Kind = "turn_state.started"
	// KindTurnCompleted identifies a successful exchange.
	KindTurnCompleted Kind = "turn_state.completed"
	// KindTurnFailed identifies a failed exchange.
	KindTurnFailed Kind = "turn_state.failed"
	// KindStatusChanged identifies a controller status change.
	KindStatusChanged Kind = "turn_state.status_changed"
)

// TurnStarted marks a user turn that was accepted and sent.
type TurnStarted struct {
	Base
	TurnID  string
	Mode    coaching.Mode
	IsVoice bool
}

// NewTurnStarted creates a turn started event.
func NewTurnStarted(turnID string, mode coaching.Mode, isVoice bool) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted), TurnID: turnID, Mode: mode, IsVoice: isVoice}
}

// TurnCompleted carries the feedback of a successful exchange.
type TurnCompleted struct {
	Base
	TurnID   string
	Feedback coaching.Feedback
}

// NewTurnCompleted creates a turn completed event.
func NewTurnCompleted(turnID string, feedback coaching.Feedback) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted), TurnID: turnID, Feedback: feedback}
}

// TurnFailed carries the error of a failed exchange.
type TurnFailed struct {
	Base
	TurnID string
	Err    error
}

// NewTurnFailed creates a turn failed event.
func NewTurnFailed(turnID string, err error) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed), TurnID: turnID, Err: err}
}

// StatusChanged carries the new controller status.
type StatusChanged struct {
	Base
	Status string
}

// NewStatusChanged creates a status changed event.
func NewStatusChanged(status string) StatusChanged {
	return StatusChanged{Base: NewBase(KindStatusChanged), Status: status}
}
