package events

const (
	KindDrillTargetSelected Kind = "drill.target_selected"
	KindDrillAttemptScored  Kind = "drill.attempt_scored"
	KindDrillWordCompleted  Kind = "drill.word_completed"
	KindDrillWordAdvanced   Kind = "drill.word_advanced"
	KindDrillCompleted      Kind = "drill.completed"
)

type DrillTargetSelected struct {
	Base
	Sound string
}

func NewDrillTargetSelected(sound string) DrillTargetSelected {
	return DrillTargetSelected{Base: NewBase(KindDrillTargetSelected), Sound: sound}
}

type DrillAttemptScored struct {
	Base
	Word   string
	Score  int
	Passed bool
}

func NewDrillAttemptScored(word string, score int, passed bool) DrillAttemptScored {
	return DrillAttemptScored{Base: NewBase(KindDrillAttemptScored), Word: word, Score: score, Passed: passed}
}

type DrillWordCompleted struct {
	Base
	Word string
}

func NewDrillWordCompleted(word string) DrillWordCompleted {
	return DrillWordCompleted{Base: NewBase(KindDrillWordCompleted), Word: word}
}

// DrillWordAdvanced carries the new 0-based word index.
type DrillWordAdvanced struct {
	Base
	Index int
	Word  string
}

func NewDrillWordAdvanced(index int, word string) DrillWordAdvanced {
	return DrillWordAdvanced{Base: NewBase(KindDrillWordAdvanced), Index: index, Word: word}
}

type DrillCompleted struct {
	Base
	Sound string
}

func NewDrillCompleted(sound string) DrillCompleted {
	return DrillCompleted{Base: NewBase(KindDrillCompleted), Sound: sound}
}
