package coaching

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// PronunciationTarget is a phoneme to drill together with the practice
// words that exercise it.
type PronunciationTarget struct {
	ID         int
	Sound      string
	Name       string
	Difficulty Difficulty
	Examples   []string
}

type PronunciationStatus string

const (
	PronunciationExcellent PronunciationStatus = "excellent"
	PronunciationGood      PronunciationStatus = "good"
	PronunciationNeedsWork PronunciationStatus = "needs_work"
)

func (s PronunciationStatus) Valid() bool {
	switch s {
	case PronunciationExcellent, PronunciationGood, PronunciationNeedsWork:
		return true
	}
	return false
}

// PronunciationResult is the analysis of a single spoken word.
type PronunciationResult struct {
	Word        string
	TargetSound string
	// Score ranges from 0 to 100.
	Score  int
	Status PronunciationStatus
	// Tip is explained in Indonesian, TipEN in English.
	Tip   string
	TipEN string
}

// TipFor returns the tip in the requested explanation language, falling
// back to whichever one is present.
func (r PronunciationResult) TipFor(language string) string {
	if language == ExplanationLanguageEnglish && r.TipEN != "" {
		return r.TipEN
	}
	if r.Tip != "" {
		return r.Tip
	}
	return r.TipEN
}
