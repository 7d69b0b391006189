package pronunciation

import (
	"strings"

	"github.com/koscakluka/macca-core/core/coaching"
)

var catalog = []coaching.PronunciationTarget{
	{ID: 1, Sound: "/æ/", Name: "Short A", Difficulty: coaching.DifficultyEasy, Examples: []string{"cat", "bat", "map", "glad"}},
	{ID: 2, Sound: "/ɪ/", Name: "Short I", Difficulty: coaching.DifficultyEasy, Examples: []string{"sit", "bit", "hit", "fit"}},
	{ID: 3, Sound: "/ɛ/", Name: "Short E", Difficulty: coaching.DifficultyEasy, Examples: []string{"bed", "red", "pen", "ten"}},
	{ID: 4, Sound: "/ʌ/", Name: "Short U", Difficulty: coaching.DifficultyEasy, Examples: []string{"cup", "bus", "run", "sun"}},
	{ID: 5, Sound: "/r/", Name: "R sound", Difficulty: coaching.DifficultyMedium, Examples: []string{"red", "road", "berry", "correct"}},
	{ID: 6, Sound: "/v/", Name: "V sound", Difficulty: coaching.DifficultyMedium, Examples: []string{"very", "voice", "live", "have"}},
	{ID: 7, Sound: "/l/", Name: "L sound", Difficulty: coaching.DifficultyMedium, Examples: []string{"light", "love", "hello", "ball"}},
	{ID: 8, Sound: "/w/", Name: "W sound", Difficulty: coaching.DifficultyMedium, Examples: []string{"water", "want", "away", "swim"}},
	{ID: 9, Sound: "/θ/", Name: "TH (voiceless)", Difficulty: coaching.DifficultyHard, Examples: []string{"think", "thank", "three", "mouth"}},
	{ID: 10, Sound: "/ð/", Name: "TH (voiced)", Difficulty: coaching.DifficultyHard, Examples: []string{"this", "that", "the", "mother"}},
	{ID: 11, Sound: "/ʃ/", Name: "SH sound", Difficulty: coaching.DifficultyHard, Examples: []string{"ship", "shop", "fish", "wash"}},
	{ID: 12, Sound: "/tʃ/", Name: "CH sound", Difficulty: coaching.DifficultyHard, Examples: []string{"chair", "church", "watch", "teach"}},
}

// Targets returns the built-in drill targets ordered by difficulty.
func Targets() []coaching.PronunciationTarget {
	targets := make([]coaching.PronunciationTarget, len(catalog))
	for i, target := range catalog {
		targets[i] = cloneTarget(target)
	}
	return targets
}

// FindTarget looks a target up by its sound, with or without the slashes,
// or by its name, ignoring case.
func FindTarget(query string) (coaching.PronunciationTarget, bool) {
	query = strings.TrimSpace(query)
	bare := strings.Trim(query, "/")
	for _, target := range catalog {
		if target.Sound == query ||
			strings.Trim(target.Sound, "/") == bare ||
			strings.EqualFold(target.Name, query) {
			return cloneTarget(target), true
		}
	}
	return coaching.PronunciationTarget{}, false
}

func cloneTarget(target coaching.PronunciationTarget) coaching.PronunciationTarget {
	target.Examples = append([]string(nil), target.Examples...)
	return target
}
