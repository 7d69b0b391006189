package coaching

// Mode selects which progression tracker, if any, consumes turn feedback.
type Mode string

const (
	ModeLive          Mode = "live"
	ModeGuided        Mode = "guided"
	ModePronunciation Mode = "pronunciation"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeLive, ModeGuided, ModePronunciation:
		return true
	}
	return false
}

func (m Mode) String() string { return string(m) }

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single utterance in the transcript.
//
// Turns are values: once appended to a transcript they are never changed,
// reordered or removed.
type Turn struct {
	ID   string
	Role Role
	Text string
	// Feedback is nil when the turn was not evaluated, which is always the
	// case for user turns and for fallback assistant turns.
	Feedback *Feedback

	// IsVoice is set for user turns that were submitted as audio.
	IsVoice bool
	// IsFallback marks a synthetic assistant turn appended after a failed
	// exchange.
	IsFallback bool
}

// HasFeedback reports whether the turn carries an evaluation.
func (t Turn) HasFeedback() bool { return t.Feedback != nil }
