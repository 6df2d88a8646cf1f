package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

func TestCompileTranscriptStepsOnly(t *testing.T) {
	s := models.NewSession("vs_test")
	s.SetPending(&models.StructuredThought{
		CorrectedText:      "People should work fewer hours.",
		ChallengeQuestions: []string{"q1", "q2", "q3"},
	})
	_ = s.SelectFocus("q2")
	_, err := s.ConfirmFocus()
	assert.NoError(t, err)

	got := CompileTranscript(s)
	want := "Thought Process Transcript for Blog Post:\n\n" +
		"STEP 1 - Thought/Response: People should work fewer hours.\n" +
		"STEP 1 - Focused Question: q2\n\n"
	assert.Equal(t, want, got)
}

func TestCompileTranscriptAppendsPendingAsFinalThought(t *testing.T) {
	s := models.NewSession("vs_test")
	s.SetPending(&models.StructuredThought{
		CorrectedText:      "First idea.",
		ChallengeQuestions: []string{"a", "b", "c"},
	})
	_ = s.SelectFocus("a")
	_, _ = s.ConfirmFocus()

	// A fresh pending result that was never confirmed surfaces as the final
	// thought under the next unused step number.
	s.SetPending(&models.StructuredThought{
		CorrectedText:      "Second idea, unconfirmed.",
		ChallengeQuestions: []string{"d", "e", "f"},
	})

	got := CompileTranscript(s)
	want := "Thought Process Transcript for Blog Post:\n\n" +
		"STEP 1 - Thought/Response: First idea.\n" +
		"STEP 1 - Focused Question: a\n\n" +
		"STEP 2 - Final Thought: Second idea, unconfirmed.\n"
	assert.Equal(t, want, got)
}

func TestCompileTranscriptEmptySession(t *testing.T) {
	s := models.NewSession("vs_test")
	assert.Equal(t, "Thought Process Transcript for Blog Post:\n\n", CompileTranscript(s))
}
