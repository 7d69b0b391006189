package pronunciation

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/koscakluka/macca-core/core/coaching"
	"github.com/koscakluka/macca-core/core/events"
)

// ErrNoTarget is returned when an attempt is submitted before any target
// was selected.
var ErrNoTarget = errors.New("no pronunciation target selected")

// Tracker runs a drill over the example words of one target. A word is
// mastered by an attempt scoring at least the pass score; the drill then
// moves to the next word after the advance delay.
type Tracker struct {
	passScore    int
	advanceDelay time.Duration
	emit         events.Emitter

	mu         sync.Mutex
	target     *coaching.PronunciationTarget
	wordIndex  int
	completed  []string
	lastResult *coaching.PronunciationResult

	advance    *time.Timer
	generation uint64
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		passScore:    DefaultPassScore,
		advanceDelay: DefaultAdvanceDelay,
		emit:         events.Noop,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SelectTarget starts a fresh drill on target. Any progress on the previous
// target, including a pending advance, is dropped.
func (t *Tracker) SelectTarget(target coaching.PronunciationTarget) {
	target = cloneTarget(target)

	t.mu.Lock()
	t.cancelAdvanceLocked()
	t.target = &target
	t.wordIndex = 0
	t.completed = nil
	t.lastResult = nil
	t.mu.Unlock()

	t.emit(events.NewDrillTargetSelected(target.Sound))
}

// SubmitResults feeds the first result of an analysis to the drill. Any
// further entries are secondary analyses and are ignored.
func (t *Tracker) SubmitResults(results []coaching.PronunciationResult) (bool, error) {
	if len(results) == 0 {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.target == nil {
			return false, ErrNoTarget
		}
		return false, nil
	}
	return t.SubmitAttempt(results[0])
}

// SubmitAttempt records result for the current word and reports whether it
// passed. Attempts made while the drill waits to advance are ignored, and so
// are results naming a word other than the current one.
func (t *Tracker) SubmitAttempt(result coaching.PronunciationResult) (bool, error) {
	t.mu.Lock()
	if t.target == nil {
		t.mu.Unlock()
		return false, ErrNoTarget
	}
	if t.advance != nil || len(t.target.Examples) == 0 {
		t.mu.Unlock()
		return false, nil
	}

	word := t.target.Examples[t.wordIndex]
	if result.Word != "" && !strings.EqualFold(result.Word, word) {
		t.mu.Unlock()
		logger.Debug("ignoring result for another word", "word", result.Word, "current", word)
		return false, nil
	}
	sound := t.target.Sound
	t.lastResult = &result
	passed := result.Score >= t.passScore

	var toEmit []events.Event
	toEmit = append(toEmit, events.NewDrillAttemptScored(word, result.Score, passed))

	if passed {
		// The last word can be passed again without being recorded twice.
		if len(t.completed) == t.wordIndex {
			t.completed = append(t.completed, word)
			toEmit = append(toEmit, events.NewDrillWordCompleted(word))
			if len(t.completed) == len(t.target.Examples) {
				toEmit = append(toEmit, events.NewDrillCompleted(sound))
			}
		}

		if t.wordIndex < len(t.target.Examples)-1 {
			if t.advanceDelay == 0 {
				toEmit = append(toEmit, t.advanceLocked())
			} else {
				generation := t.generation
				t.advance = time.AfterFunc(t.advanceDelay, func() { t.advanceAfterDelay(generation) })
			}
		}
	}
	t.mu.Unlock()

	logger.Debug("pronunciation attempt scored", "word", word, "score", result.Score, "passed", passed)
	for _, event := range toEmit {
		t.emit(event)
	}
	return passed, nil
}

func (t *Tracker) advanceAfterDelay(generation uint64) {
	t.mu.Lock()
	if t.generation != generation || t.advance == nil {
		t.mu.Unlock()
		return
	}
	t.advance = nil
	event := t.advanceLocked()
	t.mu.Unlock()

	t.emit(event)
}

func (t *Tracker) advanceLocked() events.Event {
	t.wordIndex++
	t.lastResult = nil
	return events.NewDrillWordAdvanced(t.wordIndex, t.target.Examples[t.wordIndex])
}

func (t *Tracker) cancelAdvanceLocked() {
	t.generation++
	if t.advance != nil {
		t.advance.Stop()
		t.advance = nil
	}
}

// Close drops a pending advance.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelAdvanceLocked()
}

func (t *Tracker) Target() (coaching.PronunciationTarget, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.target == nil {
		return coaching.PronunciationTarget{}, false
	}
	return cloneTarget(*t.target), true
}

// WordIndex is 0-based.
func (t *Tracker) WordIndex() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wordIndex
}

func (t *Tracker) CurrentWord() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.target == nil || len(t.target.Examples) == 0 {
		return "", false
	}
	return t.target.Examples[t.wordIndex], true
}

func (t *Tracker) CompletedWords() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.completed...)
}

func (t *Tracker) LastResult() (coaching.PronunciationResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastResult == nil {
		return coaching.PronunciationResult{}, false
	}
	return *t.lastResult, true
}

// IsAdvancing reports whether a passing result is on display before the
// move to the next word.
func (t *Tracker) IsAdvancing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.advance != nil
}

func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target != nil && len(t.completed) == len(t.target.Examples)
}
