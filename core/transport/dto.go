package transport

import (
	"encoding/json"
	"math"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/macca-core/core/coaching"
)

type turnRequestBody struct {
	UserText string        `json:"user_text"`
	Mode     coaching.Mode `json:"mode"`
}

type turnResponseBody struct {
	MaccaText *string         `json:"macca_text"`
	Feedback  json.RawMessage `json:"feedback"`
}

type profileBody struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Level               string   `json:"level"`
	Goal                string   `json:"goal"`
	ExplanationLanguage string   `json:"explanation_language"`
	CommonIssues        []string `json:"common_issues,omitempty"`
}

type profileUpdateBody struct {
	Name                *string `json:"name,omitempty"`
	Level               *string `json:"level,omitempty"`
	Goal                *string `json:"goal,omitempty"`
	ExplanationLanguage *string `json:"explanation_language,omitempty"`
}

type lessonBody struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Steps       []string `json:"steps"`
	CurrentStep int      `json:"current_step"`
}

type analyzeRequestBody struct {
	Word string `json:"word"`
}

type pronunciationResultBody struct {
	Word        string `json:"word"`
	TargetSound string `json:"target_sound"`
	Status      string `json:"status"`
	Tip         string `json:"tip_id"`
	TipEN       string `json:"tip_en"`
	Score       int    `json:"score"`
}

func toProfile(body profileBody) (coaching.Profile, error) {
	var profile coaching.Profile
	if err := copier.Copy(&profile, &body); err != nil {
		return coaching.Profile{}, err
	}
	return profile, nil
}

func toProfileUpdateBody(update coaching.ProfileUpdate) (profileUpdateBody, error) {
	var body profileUpdateBody
	if err := copier.Copy(&body, &update); err != nil {
		return profileUpdateBody{}, err
	}
	return body, nil
}

func toLessons(bodies []lessonBody) ([]coaching.Lesson, error) {
	lessons := []coaching.Lesson{}
	if err := copier.Copy(&lessons, &bodies); err != nil {
		return nil, err
	}
	return lessons, nil
}

func toPronunciationResults(bodies []pronunciationResultBody) ([]coaching.PronunciationResult, error) {
	results := []coaching.PronunciationResult{}
	if err := copier.Copy(&results, &bodies); err != nil {
		return nil, err
	}
	for i := range results {
		// An unknown status is dropped; the score still stands.
		if status := coaching.PronunciationStatus(bodies[i].Status); status.Valid() {
			results[i].Status = status
		} else {
			results[i].Status = ""
		}
		results[i].Score = min(max(results[i].Score, 0), 100)
	}
	return results, nil
}

// decodeFeedback reads the feedback object field by field. A missing,
// null or mistyped field is left unevaluated instead of failing the reply.
func decodeFeedback(raw json.RawMessage) coaching.Feedback {
	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return coaching.Feedback{}
	}

	var feedback coaching.Feedback
	feedback.GrammarOK = decodeField[bool](fields["grammar_ok"])
	feedback.TipID = decodeField[string](fields["tip_id"])
	feedback.EncouragementID = decodeField[string](fields["encouragement_id"])
	feedback.StepComplete = decodeField[bool](fields["step_complete"])

	if score := decodeField[float64](fields["fluency_score"]); score != nil &&
		*score >= coaching.MinFluencyScore && *score <= coaching.MaxFluencyScore {
		rounded := int(math.Round(*score))
		feedback.FluencyScore = &rounded
	}
	return feedback
}

func decodeField[T any](raw json.RawMessage) *T {
	if len(raw) == 0 {
		return nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
