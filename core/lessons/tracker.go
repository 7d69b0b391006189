package lessons

import (
	"errors"
	"sync"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
)

var ErrNoSteps = errors.New("lesson has no steps")

// Tracker walks a guided lesson forward one step at a time on explicit
// step-complete feedback.
//
// The current step stays within [1, len(steps)] and never decreases.
type Tracker struct {
	lesson coaching.Lesson
	emit   events.Emitter

	mu      sync.RWMutex
	current int
}

type TrackerOption func(*Tracker)

func WithEventEmitter(emit events.Emitter) TrackerOption {
	return func(t *Tracker) { t.emit = events.OrNoop(emit) }
}

// NewTracker starts at the lesson's own current step, clamped into range.
func NewTracker(lesson coaching.Lesson, opts ...TrackerOption) (*Tracker, error) {
	if len(lesson.Steps) == 0 {
		return nil, ErrNoSteps
	}

	lesson.Steps = append([]string(nil), lesson.Steps...)
	t := &Tracker{
		lesson:  lesson,
		emit:    events.Noop,
		current: min(max(lesson.CurrentStep, 1), len(lesson.Steps)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// OnFeedback advances the lesson by exactly one step if fb signals step
// completion and the lesson is not on its last step. It reports whether the
// step changed.
func (t *Tracker) OnFeedback(fb *coaching.Feedback) bool {
	if !fb.IsStepComplete() {
		return false
	}

	t.mu.Lock()
	total := len(t.lesson.Steps)
	if t.current >= total {
		t.mu.Unlock()
		return false
	}
	t.current++
	step := t.current
	t.mu.Unlock()

	logger.Debug("lesson step advanced", "lesson_id", t.lesson.ID, "step", step, "total", total)
	t.emit(events.NewLessonStepAdvanced(step, total))
	if step == total {
		t.emit(events.NewLessonCompleted(t.lesson.ID))
	}
	return true
}

// CurrentStep is 1-based.
func (t *Tracker) CurrentStep() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Tracker) TotalSteps() int { return len(t.lesson.Steps) }

// IsComplete reports whether the lesson reached its last step. A complete
// lesson keeps accepting turns.
func (t *Tracker) IsComplete() bool {
	return t.CurrentStep() == len(t.lesson.Steps)
}

// Progress is the fraction of steps reached, in (0, 1].
func (t *Tracker) Progress() float64 {
	return float64(t.CurrentStep()) / float64(len(t.lesson.Steps))
}

func (t *Tracker) StepTitle() string {
	return t.lesson.Steps[t.CurrentStep()-1]
}

func (t *Tracker) Steps() []string {
	return append([]string(nil), t.lesson.Steps...)
}

func (t *Tracker) Lesson() coaching.Lesson {
	lesson := t.lesson
	lesson.Steps = t.Steps()
	lesson.CurrentStep = t.CurrentStep()
	return lesson
}
