package coaching

// Feedback is the structured evaluation of a user turn.
//
// Every field is optional: a nil field means "not evaluated", never false or
// zero.
type Feedback struct {
	GrammarOK       *bool   `json:"grammar_ok,omitempty"`
	FluencyScore    *int    `json:"fluency_score,omitempty"`
	TipID           *string `json:"tip_id,omitempty"`
	EncouragementID *string `json:"encouragement_id,omitempty"`
	StepComplete    *bool   `json:"step_complete,omitempty"`
}

const (
	MinFluencyScore = 0
	MaxFluencyScore = 100
)

// IsStepComplete reports whether the feedback carries an explicit
// step-complete signal.
func (f *Feedback) IsStepComplete() bool {
	return f != nil && f.StepComplete != nil && *f.StepComplete
}

// IsZero reports whether nothing was evaluated.
func (f *Feedback) IsZero() bool {
	return f == nil ||
		f.GrammarOK == nil &&
			f.FluencyScore == nil &&
			f.TipID == nil &&
			f.EncouragementID == nil &&
			f.StepComplete == nil
}

// Clone returns a deep copy so stored turns cannot be changed through a
// pointer held by the caller.
func (f *Feedback) Clone() *Feedback {
	if f == nil {
		return nil
	}

	clone := &Feedback{}
	if f.GrammarOK != nil {
		v := *f.GrammarOK
		clone.GrammarOK = &v
	}
	if f.FluencyScore != nil {
		v := *f.FluencyScore
		clone.FluencyScore = &v
	}
	if f.TipID != nil {
		v := *f.TipID
		clone.TipID = &v
	}
	if f.EncouragementID != nil {
		v := *f.EncouragementID
		clone.EncouragementID = &v
	}
	if f.StepComplete != nil {
		v := *f.StepComplete
		clone.StepComplete = &v
	}
	return clone
}
