package session

import (
	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

// EventType identifies what a background completion produced.
type EventType string

const (
	// EventThoughtRefined carries the structured result now pending on the session.
	EventThoughtRefined EventType = "thought_refined"
	// EventDebateReply carries the opponent's latest turn.
	EventDebateReply EventType = "debate_reply"
	// EventSummaryReady carries the generated blog-style summary text.
	EventSummaryReady EventType = "summary_ready"
	// EventProcessingFailed reports an exhausted generation call. Session state
	// is exactly as it was before the call, except for a retained user
	// rebuttal in debate mode.
	EventProcessingFailed EventType = "processing_failed"
)

// Event is delivered on the engine's single-consumer channel when a
// background generation call completes and is still current.
type Event struct {
	Type    EventType                 `json:"type"`
	Thought *models.StructuredThought `json:"thought,omitempty"`
	Reply   string                    `json:"reply,omitempty"`
	Summary string                    `json:"summary,omitempty"`
	Err     error                     `json:"-"`
	Detail  string                    `json:"detail,omitempty"`
}
