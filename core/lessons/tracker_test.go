package lessons

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
	"github.com/koscakluka/macca-core/internal/utils"
)

func stepComplete(v bool) *coaching.Feedback {
	return &coaching.Feedback{StepComplete: utils.Ptr(v)}
}

func TestStepCompleteAdvancesUntilLastStep(t *testing.T) {
	tracker, err := NewTracker(coaching.Lesson{
		ID:          "lesson_1",
		Steps:       []string{"Warm-up", "Roleplay", "Wrap-up"},
		CurrentStep: 1,
	})
	if err != nil {
		t.Fatalf("expected tracker, got %v", err)
	}

	if !tracker.OnFeedback(stepComplete(true)) || tracker.CurrentStep() != 2 {
		t.Fatalf("expected step 2 after first completion, got %d", tracker.CurrentStep())
	}
	if tracker.StepTitle() != "Roleplay" {
		t.Fatalf("expected Roleplay, got %q", tracker.StepTitle())
	}
	if !tracker.OnFeedback(stepComplete(true)) || tracker.CurrentStep() != 3 {
		t.Fatalf("expected step 3 after second completion, got %d", tracker.CurrentStep())
	}
	if tracker.OnFeedback(stepComplete(true)) || tracker.CurrentStep() != 3 {
		t.Fatalf("expected to stay on step 3, got %d", tracker.CurrentStep())
	}
	if !tracker.IsComplete() {
		t.Fatalf("expected lesson to be complete")
	}
	if tracker.Progress() != 1 {
		t.Fatalf("expected full progress, got %v", tracker.Progress())
	}
}

func TestFeedbackWithoutStepCompleteIsNoSignal(t *testing.T) {
	tracker, _ := NewTracker(coaching.Lesson{Steps: []string{"a", "b"}, CurrentStep: 1})

	for _, fb := range []*coaching.Feedback{
		nil,
		{},
		stepComplete(false),
		{GrammarOK: utils.Ptr(true), FluencyScore: utils.Ptr(95)},
	} {
		if tracker.OnFeedback(fb) {
			t.Fatalf("expected no advance for %+v", fb)
		}
	}
	if tracker.CurrentStep() != 1 {
		t.Fatalf("expected step 1, got %d", tracker.CurrentStep())
	}
}

func TestInitialStepComesFromLessonAndIsClamped(t *testing.T) {
	steps := []string{"a", "b", "c", "d"}
	cases := []struct {
		current int
		want    int
	}{
		{current: 3, want: 3},
		{current: 0, want: 1},
		{current: -2, want: 1},
		{current: 9, want: 4},
	}

	for _, tc := range cases {
		tracker, err := NewTracker(coaching.Lesson{Steps: steps, CurrentStep: tc.current})
		if err != nil {
			t.Fatalf("expected tracker, got %v", err)
		}
		if got := tracker.CurrentStep(); got != tc.want {
			t.Fatalf("current step %d: expected %d, got %d", tc.current, tc.want, got)
		}
	}
}

func TestLessonWithoutStepsIsRejected(t *testing.T) {
	if _, err := NewTracker(coaching.Lesson{ID: "empty"}); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}

func TestStepIsMonotonicAndBoundedForRandomFeedback(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 100 {
		n := 1 + rng.IntN(6)
		tracker, _ := NewTracker(coaching.Lesson{Steps: make([]string, n), CurrentStep: 1 + rng.IntN(n)})

		for range 20 {
			before := tracker.CurrentStep()
			var fb *coaching.Feedback
			switch rng.IntN(3) {
			case 0:
				fb = stepComplete(true)
			case 1:
				fb = stepComplete(false)
			}
			advanced := tracker.OnFeedback(fb)
			after := tracker.CurrentStep()

			if after < before || after > before+1 || after > n || after < 1 {
				t.Fatalf("step moved from %d to %d with %d steps", before, after, n)
			}
			if advanced != (after == before+1) {
				t.Fatalf("advance reported %v but step moved from %d to %d", advanced, before, after)
			}
			if advanced && !fb.IsStepComplete() {
				t.Fatalf("advanced without step complete signal")
			}
		}
	}
}

func TestAdvanceEmitsEvents(t *testing.T) {
	var kinds []events.Kind
	tracker, _ := NewTracker(
		coaching.Lesson{ID: "lesson_2", Steps: []string{"a", "b"}, CurrentStep: 1},
		WithEventEmitter(func(event events.Event) { kinds = append(kinds, event.Kind()) }),
	)

	tracker.OnFeedback(stepComplete(true))
	tracker.OnFeedback(stepComplete(true))

	if len(kinds) != 2 || kinds[0] != events.KindLessonStepAdvanced || kinds[1] != events.KindLessonCompleted {
		t.Fatalf("unexpected events: %v", kinds)
	}
}
