package models

import (
	"time"

	"github.com/voicepal-ai/voicepal/internal/domain"
)

// Session is the root aggregate of one exploration. All mutation goes through
// the methods below; the engine owns the instance and serializes access.
type Session struct {
	ID          string    `json:"id"`
	Mode        Mode      `json:"mode"`
	CurrentStep int       `json:"current_step"`

	// Guided mode state
	History       []ThoughtStep      `json:"history"`
	Pending       *StructuredThought `json:"pending,omitempty"`
	SelectedFocus string             `json:"selected_focus,omitempty"`

	// Debate mode state, empty outside of ModeDebate
	DebateTurns []DebateTurn `json:"debate_turns,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:          id,
		Mode:        ModeGuided,
		CurrentStep: 1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetPending stores a freshly parsed structured result, replacing any prior
// unconfirmed one and clearing the focus selection.
func (s *Session) SetPending(thought *StructuredThought) {
	s.Pending = thought
	s.SelectedFocus = ""
	s.touch()
}

// SelectFocus records the candidate focus for the pending result. The question
// must be one of the three offered.
func (s *Session) SelectFocus(question string) error {
	if s.Pending == nil {
		return domain.ErrNoPendingThought
	}
	if !s.Pending.Offers(question) {
		return domain.ErrUnknownQuestion
	}
	s.SelectedFocus = question
	s.touch()
	return nil
}

// ConfirmFocus promotes the pending result into a ThoughtStep, appends it to
// the history and advances the step counter. CurrentStep == len(History)+1
// holds again once the pending result is cleared.
func (s *Session) ConfirmFocus() (ThoughtStep, error) {
	if s.Pending == nil {
		return ThoughtStep{}, domain.ErrNoPendingThought
	}
	if s.SelectedFocus == "" {
		return ThoughtStep{}, domain.ErrNoFocusSelected
	}
	step := NewThoughtStep(s.CurrentStep, s.Pending.CorrectedText, s.SelectedFocus)
	s.History = append(s.History, step)
	s.CurrentStep++
	s.Pending = nil
	s.SelectedFocus = ""
	s.touch()
	return step, nil
}

// DebateArgument returns the statement a debate would open with: the pending
// corrected text when present, otherwise the most recently confirmed step.
func (s *Session) DebateArgument() string {
	if s.Pending != nil && s.Pending.CorrectedText != "" {
		return s.Pending.CorrectedText
	}
	if n := len(s.History); n > 0 {
		return s.History[n-1].CorrectedText
	}
	return ""
}

// EnterDebate switches the session into debate mode seeded with the opening
// argument as the first user turn. The pending result is abandoned.
func (s *Session) EnterDebate(argument string) error {
	if err := ValidateModeTransition(s.Mode, ModeDebate); err != nil {
		return err
	}
	s.Mode = ModeDebate
	s.Pending = nil
	s.SelectedFocus = ""
	s.DebateTurns = []DebateTurn{{Role: TurnRoleUser, Text: argument}}
	s.touch()
	return nil
}

// AppendTurn appends a debate turn, enforcing role alternation.
func (s *Session) AppendTurn(turn DebateTurn) error {
	next := append(append([]DebateTurn(nil), s.DebateTurns...), turn)
	if !AlternatesFromUser(next) {
		return domain.ErrRoleOrder
	}
	s.DebateTurns = next
	s.touch()
	return nil
}

// ExitDebate leaves debate mode and performs the full reset the product ships
// with today: debate turns, confirmed history, the step counter and any
// pending result are all cleared, returning the session to a fresh guided
// start. See DESIGN.md for the open product question around wiping history.
func (s *Session) ExitDebate() error {
	if err := ValidateModeTransition(s.Mode, ModeGuided); err != nil {
		return err
	}
	s.Mode = ModeGuided
	s.DebateTurns = nil
	s.History = nil
	s.CurrentStep = 1
	s.Pending = nil
	s.SelectedFocus = ""
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
