package events

import "github.com/koscakluka/macca-core/core/coaching"

// KindTurnAppended identifies a turn added to the transcript.
const KindTurnAppended Kind = "transcript.turn_appended"

// TurnAppended carries the appended turn and its position.
type TurnAppended struct {
	Base
	Index int
	Turn  coaching.Turn
}

// NewTurnAppended creates a turn appended event.
func NewTurnAppended(index int, turn coaching.Turn) TurnAppended {
	return TurnAppended{Base: NewBase(KindTurnAppended), Index: index, Turn: turn}
}
