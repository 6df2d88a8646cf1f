package domain

import "errors"

// Common domain errors
var (
	// Configuration errors
	ErrMissingAPIKey = errors.New("generation API key is missing")

	// Validation errors (caller mistakes, rejected before any network call)
	ErrEmptyInput         = errors.New("input text is empty or placeholder")
	ErrNoPendingThought   = errors.New("no pending thought to act on")
	ErrNoFocusSelected    = errors.New("no focus question selected")
	ErrUnknownQuestion    = errors.New("question is not among the offered challenges")
	ErrInvalidMode        = errors.New("operation is not valid in the current mode")
	ErrNothingToSummarize = errors.New("no confirmed steps or pending thought to summarize")

	// Concurrency errors
	ErrRequestInFlight = errors.New("a request is already in flight for this session")

	// Generation errors
	ErrGenerationExhausted = errors.New("generation failed after all retry attempts")
	ErrProcessingFailed    = errors.New("thought processing failed")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Transcription errors
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrAudioNotUnderstood  = errors.New("audio could not be understood")

	// Debate errors
	ErrRoleOrder = errors.New("debate turns must alternate starting with the user")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{
		Err:     err,
		Message: message,
	}
}

// IsValidation reports whether err belongs to the validation class: a caller
// mistake that is surfaced synchronously and never mutates session state.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrEmptyInput,
		ErrNoPendingThought,
		ErrNoFocusSelected,
		ErrUnknownQuestion,
		ErrInvalidMode,
		ErrNothingToSummarize,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
