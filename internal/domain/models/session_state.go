package models

import (
	"fmt"
)

// Mode is the interaction mode of a session. Exactly one mode is active at a
// time; guided state and debate state are mutually exclusive.
type Mode string

const (
	ModeGuided Mode = "guided"
	ModeDebate Mode = "debate"
)

// ModeTransition represents a mode change
type ModeTransition struct {
	From Mode
	To   Mode
}

// validModeTransitions defines the allowed mode changes. Guided → Debate via
// StartDebate, Debate → Guided via EndDebate; nothing else is legal.
var validModeTransitions = map[ModeTransition]bool{
	{ModeGuided, ModeDebate}: true,
	{ModeDebate, ModeGuided}: true,
}

// ValidateModeTransition checks if a mode change is valid and returns an error if not
func ValidateModeTransition(from, to Mode) error {
	if from == to {
		return NewInvalidModeTransitionError(from, to)
	}
	if !validModeTransitions[ModeTransition{From: from, To: to}] {
		return NewInvalidModeTransitionError(from, to)
	}
	return nil
}

// InvalidModeTransitionError represents an error for invalid mode changes
type InvalidModeTransitionError struct {
	From    Mode
	To      Mode
	Message string
}

func (e *InvalidModeTransitionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("invalid mode transition from '%s' to '%s'", e.From, e.To)
}

// NewInvalidModeTransitionError creates a new InvalidModeTransitionError with a descriptive message
func NewInvalidModeTransitionError(from, to Mode) *InvalidModeTransitionError {
	var message string
	switch {
	case from == to && from == ModeDebate:
		message = "session is already in debate mode"
	case from == to:
		message = "session is already in guided mode"
	case from == ModeDebate:
		message = fmt.Sprintf("cannot transition from debate to '%s': use EndDebate", to)
	}
	return &InvalidModeTransitionError{
		From:    from,
		To:      to,
		Message: message,
	}
}
