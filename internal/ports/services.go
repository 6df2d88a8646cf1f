package ports

import (
	"context"

	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

// GenerativeService is the boundary to the text-generation provider. Both
// operations retry transient failures internally; after the attempt budget is
// exhausted they return domain.ErrGenerationExhausted instead of a partial
// result. A missing credential fails fast with domain.ErrMissingAPIKey before
// any network traffic.
type GenerativeService interface {
	// Ready reports synchronously whether the service can be invoked at all
	// (credentials present). Callers use it to reject work before dispatching
	// a background call.
	Ready() error

	// GenerateStructured sends a single user text with a system instruction
	// and the fixed response schema, returning the parsed structured thought.
	GenerateStructured(ctx context.Context, userText, systemInstruction string) (*models.StructuredThought, error)

	// GenerateChat sends the full ordered turn list with a system instruction
	// and returns the provider's free-form reply text.
	GenerateChat(ctx context.Context, turns []models.DebateTurn, systemInstruction string) (string, error)
}

// TranscriptStatus classifies the outcome of one recording's transcription.
type TranscriptStatus string

const (
	TranscriptSuccess      TranscriptStatus = "success"
	TranscriptUnknown      TranscriptStatus = "unknown"
	TranscriptRequestError TranscriptStatus = "error_request"
	TranscriptGeneralError TranscriptStatus = "error_general"
)

// TranscriptResult is delivered asynchronously, exactly once per recording.
type TranscriptResult struct {
	Status TranscriptStatus `json:"status"`
	Text   string           `json:"text,omitempty"`
	Detail string           `json:"detail,omitempty"`
}

// TranscriptIngester supplies raw text from speech input. The returned channel
// receives exactly one result and is then closed; the consumer feeds a
// successful text into the session engine.
type TranscriptIngester interface {
	Ingest(ctx context.Context, audio []byte, format string) <-chan TranscriptResult
}

// IDGenerator produces identifiers for sessions and related entities.
type IDGenerator interface {
	GenerateSessionID() string
}
