// Package prompt holds the provider-facing instruction texts, the structured
// response schema and the summary transcript compiler. Everything here is
// deterministic; the only consumer of its output is the generation service.
package prompt

import (
	"fmt"
	"strings"

	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

const ThoughtCoachInstruction = "You are a world-class language tutor and deep-thinking coach. " +
	"Your primary task is two-fold. " +
	"First, take the raw, error-prone user transcription, correct all grammatical errors, smooth out " +
	"pauses, filler words, and repetitions, and output it as clear, coherent, formal English text. " +
	"Second, based *only* on the refined text, generate precisely 3 unique, thought-provoking questions. " +
	"These questions must challenge the core assumption, explore the central idea's consequences, or push " +
	"the user to consider the opposite perspective."

const BlogInstruction = "You are a skilled content creator. Take the provided thought process, which is a sequence of initial thought and responses to challenge questions. " +
	"Write a concise, engaging, and reflective blog post (3-4 paragraphs) that summarizes the core idea and the journey of exploration the user took. " +
	"Use a positive and encouraging tone, suitable for a young audience, avoiding complex jargon." +
	"Format the output as clear, clean text."

const DebateInstruction = "You are a skilled, highly intellectual devil's advocate. Your role is to debate the user's stance. " +
	"Analyze the user's previous statement or argument. Generate a concise, intellectual, and challenging counter-argument or rebuttal. " +
	"Do not agree with the user. Your response must continue the debate. " +
	"Keep your response focused and always end by prompting the user for their next point. " +
	"Maintain the persona of a rigorous academic opponent. Respond in plain text only."

// ThoughtSchema is the response schema sent with every structured call. The
// provider is constrained to the refined text plus exactly three challenge
// questions; anything else is rejected at parse time.
func ThoughtSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"corrected_text": map[string]any{
				"type":        "STRING",
				"description": "The cleaned, grammatically correct, and formal English version of the user's raw speech transcription.",
			},
			"challenge_questions": map[string]any{
				"type":        "ARRAY",
				"description": "A list of exactly three thought-provoking questions designed to challenge the main assumption or explore the core idea of the corrected text further.",
				"items":       map[string]any{"type": "STRING"},
			},
		},
		"required":         []string{"corrected_text", "challenge_questions"},
		"propertyOrdering": []string{"corrected_text", "challenge_questions"},
	}
}

// CompileTranscript flattens a session's confirmed steps into the prompt text
// for the blog summary. Steps appear in ascending order; an unconfirmed
// pending result is appended as a final-thought block under the next unused
// step number.
func CompileTranscript(s *models.Session) string {
	var b strings.Builder
	b.WriteString("Thought Process Transcript for Blog Post:\n\n")

	for _, step := range s.History {
		fmt.Fprintf(&b, "STEP %d - Thought/Response: %s\n", step.Step, step.CorrectedText)
		fmt.Fprintf(&b, "STEP %d - Focused Question: %s\n\n", step.Step, step.FocusQuestion)
	}

	if s.Pending != nil && s.Pending.CorrectedText != "" {
		fmt.Fprintf(&b, "STEP %d - Final Thought: %s\n", s.CurrentStep, s.Pending.CorrectedText)
	}

	return b.String()
}
