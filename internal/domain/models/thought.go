package models

import (
	"fmt"
	"time"
)

// ChallengeQuestionCount is the number of challenge questions the structured
// generation contract requires. A response with any other count is a parse
// failure, not a usable result.
const ChallengeQuestionCount = 3

// StructuredThought is the parsed result of a structured generation call:
// the refined statement plus its challenge questions. It stays pending on the
// session until the user confirms a focus or abandons it.
type StructuredThought struct {
	CorrectedText      string   `json:"corrected_text"`
	ChallengeQuestions []string `json:"challenge_questions"`
}

// Validate enforces the structured response contract.
func (t *StructuredThought) Validate() error {
	if t.CorrectedText == "" {
		return fmt.Errorf("corrected_text is empty")
	}
	if len(t.ChallengeQuestions) != ChallengeQuestionCount {
		return fmt.Errorf("expected %d challenge questions, got %d", ChallengeQuestionCount, len(t.ChallengeQuestions))
	}
	for i, q := range t.ChallengeQuestions {
		if q == "" {
			return fmt.Errorf("challenge question %d is empty", i+1)
		}
	}
	return nil
}

// Offers reports whether question is one of the offered challenge questions.
func (t *StructuredThought) Offers(question string) bool {
	for _, q := range t.ChallengeQuestions {
		if q == question {
			return true
		}
	}
	return false
}

// ThoughtStep is one confirmed exploration turn. Immutable once appended to a
// session's history.
type ThoughtStep struct {
	Step          int       `json:"step"`
	CorrectedText string    `json:"corrected_text"`
	FocusQuestion string    `json:"focus_question"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

func NewThoughtStep(step int, correctedText, focusQuestion string) ThoughtStep {
	return ThoughtStep{
		Step:          step,
		CorrectedText: correctedText,
		FocusQuestion: focusQuestion,
		ConfirmedAt:   time.Now().UTC(),
	}
}
