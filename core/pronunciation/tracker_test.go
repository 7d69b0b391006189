package pronunciation

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
)

func attempt(word string, score int) coaching.PronunciationResult {
	return coaching.PronunciationResult{Word: word, Score: score, Status: coaching.PronunciationGood}
}

func TestPassingAttemptsWalkThroughWords(t *testing.T) {
	tracker := NewTracker(WithAdvanceDelay(0))
	tracker.SelectTarget(coaching.PronunciationTarget{Sound: "/æ/", Examples: []string{"cat", "bat"}})

	if passed, err := tracker.SubmitAttempt(attempt("cat", 85)); err != nil || !passed {
		t.Fatalf("expected cat to pass, got passed=%v err=%v", passed, err)
	}
	if got := tracker.CompletedWords(); !slices.Equal(got, []string{"cat"}) {
		t.Fatalf("expected [cat], got %v", got)
	}
	if got := tracker.WordIndex(); got != 1 {
		t.Fatalf("expected word index 1, got %d", got)
	}

	if passed, _ := tracker.SubmitAttempt(attempt("bat", 50)); passed {
		t.Fatalf("expected bat to fail at 50")
	}
	if got := tracker.CompletedWords(); !slices.Equal(got, []string{"cat"}) {
		t.Fatalf("expected failed attempt to leave [cat], got %v", got)
	}

	if passed, _ := tracker.SubmitAttempt(attempt("bat", 90)); !passed {
		t.Fatalf("expected bat to pass at 90")
	}
	if got := tracker.CompletedWords(); !slices.Equal(got, []string{"cat", "bat"}) {
		t.Fatalf("expected [cat bat], got %v", got)
	}
	if got := tracker.WordIndex(); got != 1 {
		t.Fatalf("expected word index to stay on the last word, got %d", got)
	}
	if !tracker.IsComplete() {
		t.Fatalf("expected drill to be complete")
	}

	tracker.SubmitAttempt(attempt("bat", 99))
	if got := len(tracker.CompletedWords()); got != 2 {
		t.Fatalf("expected last word to be recorded once, got %d completed", got)
	}
}

func TestAdvanceWaitsForDelay(t *testing.T) {
	advanced := make(chan events.DrillWordAdvanced, 1)
	tracker := NewTracker(
		WithAdvanceDelay(30*time.Millisecond),
		WithEventEmitter(func(event events.Event) {
			if e, ok := event.(events.DrillWordAdvanced); ok {
				advanced <- e
			}
		}),
	)
	tracker.SelectTarget(coaching.PronunciationTarget{Sound: "/r/", Examples: []string{"red", "road"}})

	tracker.SubmitAttempt(attempt("red", 80))

	if got := tracker.WordIndex(); got != 0 {
		t.Fatalf("expected word index to wait for the delay, got %d", got)
	}
	if _, ok := tracker.LastResult(); !ok {
		t.Fatalf("expected passing result to stay visible during the delay")
	}
	if got := tracker.CompletedWords(); !slices.Equal(got, []string{"red"}) {
		t.Fatalf("expected red to be completed right away, got %v", got)
	}
	if passed, _ := tracker.SubmitAttempt(attempt("red", 100)); passed {
		t.Fatalf("expected attempts during the delay to be ignored")
	}

	select {
	case e := <-advanced:
		if e.Index != 1 || e.Word != "road" {
			t.Fatalf("unexpected advance event: %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for advance")
	}

	if got := tracker.WordIndex(); got != 1 {
		t.Fatalf("expected word index 1 after the delay, got %d", got)
	}
	if _, ok := tracker.LastResult(); ok {
		t.Fatalf("expected last result to clear on advance")
	}
}

func TestSelectTargetCancelsPendingAdvance(t *testing.T) {
	tracker := NewTracker(WithAdvanceDelay(20 * time.Millisecond))
	tracker.SelectTarget(coaching.PronunciationTarget{Sound: "/v/", Examples: []string{"very", "voice"}})
	tracker.SubmitAttempt(attempt("very", 95))

	tracker.SelectTarget(coaching.PronunciationTarget{Sound: "/l/", Examples: []string{"light", "love"}})
	time.Sleep(60 * time.Millisecond)

	if got := tracker.WordIndex(); got != 0 {
		t.Fatalf("expected stale advance to be dropped, got word index %d", got)
	}
	if word, _ := tracker.CurrentWord(); word != "light" {
		t.Fatalf("expected light, got %q", word)
	}
}

func TestSelectTargetIsIdempotent(t *testing.T) {
	target := coaching.PronunciationTarget{Sound: "/w/", Examples: []string{"water", "want", "away"}}

	once := NewTracker(WithAdvanceDelay(0))
	once.SubmitAttempt(attempt("x", 90))
	once.SelectTarget(target)

	twice := NewTracker(WithAdvanceDelay(0))
	twice.SelectTarget(target)
	twice.SubmitAttempt(attempt("water", 90))
	twice.SelectTarget(target)
	twice.SelectTarget(target)

	if once.WordIndex() != twice.WordIndex() ||
		!slices.Equal(once.CompletedWords(), twice.CompletedWords()) ||
		once.IsComplete() != twice.IsComplete() {
		t.Fatalf("expected identical drill state after reselecting the target")
	}
	if _, ok := twice.LastResult(); ok {
		t.Fatalf("expected last result to be cleared")
	}
}

func TestAttemptWithoutTargetFails(t *testing.T) {
	tracker := NewTracker()
	if _, err := tracker.SubmitAttempt(attempt("cat", 90)); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	if _, err := tracker.SubmitResults(nil); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget for empty results, got %v", err)
	}
}

func TestSubmitResultsUsesFirstEntryOnly(t *testing.T) {
	tracker := NewTracker(WithAdvanceDelay(0))
	tracker.SelectTarget(coaching.PronunciationTarget{Examples: []string{"ship", "shop"}})

	passed, err := tracker.SubmitResults([]coaching.PronunciationResult{attempt("ship", 40), attempt("sheep", 99)})
	if err != nil || passed {
		t.Fatalf("expected first entry to decide, got passed=%v err=%v", passed, err)
	}
	if got := tracker.WordIndex(); got != 0 {
		t.Fatalf("expected no advance, got %d", got)
	}
}

func TestResultForAnotherWordIsIgnored(t *testing.T) {
	tracker := NewTracker(WithAdvanceDelay(0))
	tracker.SelectTarget(coaching.PronunciationTarget{Sound: "/æ/", Examples: []string{"cat", "bat", "hat"}})

	if passed, _ := tracker.SubmitAttempt(attempt("cat", 90)); !passed {
		t.Fatalf("expected cat to pass")
	}
	// A late analysis of cat arrives after the drill moved on to bat.
	if passed, err := tracker.SubmitAttempt(attempt("cat", 95)); err != nil || passed {
		t.Fatalf("expected stale result to be ignored, got passed=%v err=%v", passed, err)
	}

	if got := tracker.CompletedWords(); !slices.Equal(got, []string{"cat"}) {
		t.Fatalf("expected only cat to be completed, got %v", got)
	}
	if got := tracker.WordIndex(); got != 1 {
		t.Fatalf("expected to stay on bat, got word index %d", got)
	}
	if _, ok := tracker.LastResult(); ok {
		t.Fatalf("expected ignored result not to be shown")
	}

	if passed, _ := tracker.SubmitAttempt(attempt("BAT", 85)); !passed {
		t.Fatalf("expected words to match case-insensitively")
	}
}

func TestCompletedWordsOnlyGrowOnPassingScores(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 50 {
		examples := []string{"a", "b", "c", "d"}[:1+rng.IntN(4)]
		tracker := NewTracker(WithAdvanceDelay(0))
		tracker.SelectTarget(coaching.PronunciationTarget{Examples: examples})

		for range 20 {
			before := len(tracker.CompletedWords())
			index := tracker.WordIndex()
			score := rng.IntN(101)

			tracker.SubmitAttempt(attempt("", score))

			after := len(tracker.CompletedWords())
			if score < DefaultPassScore && (after != before || tracker.WordIndex() != index) {
				t.Fatalf("failing score %d changed the drill", score)
			}
			if tracker.WordIndex() > len(examples)-1 {
				t.Fatalf("word index %d past the last word", tracker.WordIndex())
			}
			if after > len(examples) {
				t.Fatalf("completed %d of %d words", after, len(examples))
			}
		}
	}
}

func TestFindTarget(t *testing.T) {
	for _, query := range []string{"/θ/", "θ", "th (voiceless)"} {
		target, ok := FindTarget(query)
		if !ok || target.ID != 9 {
			t.Fatalf("expected target 9 for %q, got %+v", query, target)
		}
	}
	if _, ok := FindTarget("/q/"); ok {
		t.Fatalf("expected unknown sound to be missing")
	}
	if got := len(Targets()); got != 12 {
		t.Fatalf("expected 12 built-in targets, got %d", got)
	}
}
