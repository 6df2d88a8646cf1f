package dto

import (
	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

type ThoughtRequest struct {
	Text string `json:"text"`
}

type FocusRequest struct {
	Question string `json:"question"`
}

type RebuttalRequest struct {
	Text string `json:"text"`
}

type SessionResponse struct {
	ID            string                    `json:"id"`
	Mode          models.Mode               `json:"mode"`
	CurrentStep   int                       `json:"current_step"`
	History       []models.ThoughtStep      `json:"history"`
	Pending       *models.StructuredThought `json:"pending,omitempty"`
	SelectedFocus string                    `json:"selected_focus,omitempty"`
	DebateTurns   []models.DebateTurn       `json:"debate_turns,omitempty"`
	Busy          bool                      `json:"busy"`
}

func NewSessionResponse(s models.Session, busy bool) *SessionResponse {
	if s.History == nil {
		s.History = []models.ThoughtStep{}
	}
	return &SessionResponse{
		ID:            s.ID,
		Mode:          s.Mode,
		CurrentStep:   s.CurrentStep,
		History:       s.History,
		Pending:       s.Pending,
		SelectedFocus: s.SelectedFocus,
		DebateTurns:   s.DebateTurns,
		Busy:          busy,
	}
}

type StepResponse struct {
	Step models.ThoughtStep `json:"step"`
}

type AcceptedResponse struct {
	Status string `json:"status"`
}

func Accepted() *AcceptedResponse {
	return &AcceptedResponse{Status: "accepted"}
}

type TranscriptResponse struct {
	Status string `json:"status"`
	Text   string `json:"text,omitempty"`
	Detail string `json:"detail,omitempty"`
}
