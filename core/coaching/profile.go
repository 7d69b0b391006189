package coaching

// Profile describes the learner the coach is talking to.
type Profile struct {
	ID   string
	Name string
	// Level is a CEFR level, A1 through C2.
	Level string
	Goal  string
	// ExplanationLanguage is the language tips are explained in, "id" or
	// "en".
	ExplanationLanguage string
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	Name                *string
	Level               *string
	Goal                *string
	ExplanationLanguage *string
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Level == nil && u.Goal == nil && u.ExplanationLanguage == nil
}

const (
	ExplanationLanguageIndonesian = "id"
	ExplanationLanguageEnglish    = "en"
)
