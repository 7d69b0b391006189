package events

const (
	// KindLessonStepAdvanced identifies a lesson moving one step forward.
	KindLessonStepAdvanced Kind = "lesson.step_advanced"
	// KindLessonCompleted identifies a lesson reaching its last step.
	KindLessonCompleted Kind = "lesson.completed"
)

// LessonStepAdvanced carries the new 1-based step.
type LessonStepAdvanced struct {
	Base
	Step  int
	Total int
}

// NewLessonStepAdvanced creates a lesson step advanced event.
func NewLessonStepAdvanced(step, total int) LessonStepAdvanced {
	return LessonStepAdvanced{Base: NewBase(KindLessonStepAdvanced), Step: step, Total: total}
}

// LessonCompleted marks the lesson reaching its last step.
type LessonCompleted struct {
	Base
	LessonID string
}

// NewLessonCompleted creates a lesson completed event.
func NewLessonCompleted(lessonID string) LessonCompleted {
	return LessonCompleted{Base: NewBase(KindLessonCompleted), LessonID: lessonID}
}
