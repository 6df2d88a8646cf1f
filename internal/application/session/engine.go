// Package session implements the exploration engine: the state machine that
// drives guided thought refinement and debate exchanges over an unreliable
// provider boundary.
//
// The engine owns its Session value outright. Public operations validate and
// mutate synchronously under one mutex; provider calls run in background
// goroutines whose completions re-enter under the same mutex, tagged with the
// epoch captured at dispatch. A completion whose epoch no longer matches (the
// operation was abandoned by a mode switch or reset) is dropped unapplied.
// At most one provider call is in flight per session.
package session

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/voicepal-ai/voicepal/internal/adapters/metrics"
	"github.com/voicepal-ai/voicepal/internal/domain"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
	"github.com/voicepal-ai/voicepal/internal/ports"
	"github.com/voicepal-ai/voicepal/internal/prompt"
)

// Input placeholders shown by clients; text still carrying one of these has
// not been edited by the user and is rejected the same as empty input.
const (
	PlaceholderNewThought = "Start a new thought here..."
	PlaceholderResponse   = "Enter your response here..."
	PlaceholderRebuttal   = "Enter your counter-argument here..."
)

func isPlaceholder(text string) bool {
	if text == "" {
		return true
	}
	for _, p := range []string{PlaceholderNewThought, PlaceholderResponse, PlaceholderRebuttal} {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// Engine orchestrates one exploration session.
type Engine struct {
	mu       sync.Mutex
	session  *models.Session
	llm      ports.GenerativeService
	events   chan Event
	inFlight bool
	epoch    uint64
}

// NewEngine creates an engine owning the given session.
func NewEngine(sess *models.Session, llm ports.GenerativeService) *Engine {
	return &Engine{
		session: sess,
		llm:     llm,
		events:  make(chan Event, 16),
	}
}

// Events returns the single-consumer channel background completions are
// delivered on.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Snapshot returns a copy of the session safe to read concurrently.
func (e *Engine) Snapshot() models.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := *e.session
	snap.History = append([]models.ThoughtStep(nil), e.session.History...)
	snap.DebateTurns = append([]models.DebateTurn(nil), e.session.DebateTurns...)
	if e.session.Pending != nil {
		pending := *e.session.Pending
		pending.ChallengeQuestions = append([]string(nil), e.session.Pending.ChallengeQuestions...)
		snap.Pending = &pending
	}
	return snap
}

// Busy reports whether a provider call is currently in flight.
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// SubmitThought validates rawText and dispatches a structured generation call.
// The refined result arrives as EventThoughtRefined; exhaustion as
// EventProcessingFailed with session state untouched.
func (e *Engine) SubmitThought(ctx context.Context, rawText string) error {
	rawText = strings.TrimSpace(rawText)
	if isPlaceholder(rawText) {
		return domain.ErrEmptyInput
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeGuided {
		return domain.ErrInvalidMode
	}
	if e.inFlight {
		return domain.ErrRequestInFlight
	}
	if err := e.llm.Ready(); err != nil {
		return err
	}

	e.inFlight = true
	go e.runSubmit(ctx, e.epoch, rawText)
	return nil
}

func (e *Engine) runSubmit(ctx context.Context, epoch uint64, rawText string) {
	thought, err := e.llm.GenerateStructured(ctx, rawText, prompt.ThoughtCoachInstruction)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.settle(epoch) {
		return
	}
	if err != nil {
		e.emit(Event{
			Type:   EventProcessingFailed,
			Err:    domain.NewDomainError(domain.ErrProcessingFailed, "thought refinement"),
			Detail: err.Error(),
		})
		return
	}
	e.session.SetPending(thought)
	e.emit(Event{Type: EventThoughtRefined, Thought: thought})
}

// SelectFocus records question as the candidate focus for the pending result.
func (e *Engine) SelectFocus(question string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeGuided {
		return domain.ErrInvalidMode
	}
	return e.session.SelectFocus(question)
}

// ConfirmFocus promotes the pending result and selected focus into a
// permanent history step.
func (e *Engine) ConfirmFocus() (models.ThoughtStep, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeGuided {
		return models.ThoughtStep{}, domain.ErrInvalidMode
	}
	step, err := e.session.ConfirmFocus()
	if err != nil {
		return models.ThoughtStep{}, err
	}
	metrics.ThoughtStepsTotal.Inc()
	return step, nil
}

// StartDebate switches to debate mode seeded with the pending corrected text
// (or, absent one, the last confirmed step) and immediately dispatches the
// opponent's first turn; no fresh user input is needed.
func (e *Engine) StartDebate(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeGuided {
		return domain.ErrInvalidMode
	}
	if e.inFlight {
		return domain.ErrRequestInFlight
	}

	argument := e.session.DebateArgument()
	if isPlaceholder(argument) {
		return domain.NewDomainError(domain.ErrEmptyInput, "no argument to open a debate with")
	}
	if err := e.llm.Ready(); err != nil {
		return err
	}
	if err := e.session.EnterDebate(argument); err != nil {
		return err
	}
	metrics.DebateTurnsTotal.Inc()

	e.inFlight = true
	go e.runDebateTurn(ctx, e.epoch, e.turnsLocked())
	return nil
}

// SubmitRebuttal appends the user's next argument and dispatches the
// opponent's reply. When the previous dispatch failed the retained user turn
// is updated in place instead of appended, preserving role alternation.
func (e *Engine) SubmitRebuttal(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeDebate {
		return domain.ErrInvalidMode
	}
	if e.inFlight {
		return domain.ErrRequestInFlight
	}
	if isPlaceholder(text) {
		return domain.ErrEmptyInput
	}
	if err := e.llm.Ready(); err != nil {
		return err
	}

	turns := e.session.DebateTurns
	if n := len(turns); n > 0 && turns[n-1].Role == models.TurnRoleUser {
		// Retry after a failed opponent turn: the user turn was retained.
		turns[n-1].Text = text
	} else {
		if err := e.session.AppendTurn(models.DebateTurn{Role: models.TurnRoleUser, Text: text}); err != nil {
			return err
		}
		metrics.DebateTurnsTotal.Inc()
	}

	e.inFlight = true
	go e.runDebateTurn(ctx, e.epoch, e.turnsLocked())
	return nil
}

func (e *Engine) runDebateTurn(ctx context.Context, epoch uint64, turns []models.DebateTurn) {
	reply, err := e.llm.GenerateChat(ctx, turns, prompt.DebateInstruction)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.settle(epoch) {
		return
	}
	if err != nil {
		// The user's turn stays appended so they can retry.
		e.emit(Event{
			Type:   EventProcessingFailed,
			Err:    domain.NewDomainError(domain.ErrProcessingFailed, "debate turn"),
			Detail: err.Error(),
		})
		return
	}
	if err := e.session.AppendTurn(models.DebateTurn{Role: models.TurnRoleAssistant, Text: reply}); err != nil {
		log.Printf("session %s: dropping out-of-order opponent turn: %v", e.session.ID, err)
		return
	}
	metrics.DebateTurnsTotal.Inc()
	e.emit(Event{Type: EventDebateReply, Reply: reply})
}

// EndDebate leaves debate mode and resets the session to a fresh guided
// start. Any in-flight completion is invalidated and will be dropped.
func (e *Engine) EndDebate() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeDebate {
		return domain.ErrInvalidMode
	}
	if err := e.session.ExitDebate(); err != nil {
		return err
	}
	e.epoch++
	e.inFlight = false
	return nil
}

// RequestSummary compiles the exploration transcript and dispatches one chat
// call for the blog-style summary. The pending result, if any, is included as
// the final thought and survives the request.
func (e *Engine) RequestSummary(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Mode != models.ModeGuided {
		return domain.ErrInvalidMode
	}
	if e.inFlight {
		return domain.ErrRequestInFlight
	}
	hasPending := e.session.Pending != nil && !isPlaceholder(e.session.Pending.CorrectedText)
	if len(e.session.History) == 0 && !hasPending {
		return domain.ErrNothingToSummarize
	}
	if err := e.llm.Ready(); err != nil {
		return err
	}

	transcript := prompt.CompileTranscript(e.session)
	e.inFlight = true
	go e.runSummary(ctx, e.epoch, transcript)
	return nil
}

func (e *Engine) runSummary(ctx context.Context, epoch uint64, transcript string) {
	turns := []models.DebateTurn{{Role: models.TurnRoleUser, Text: transcript}}
	summary, err := e.llm.GenerateChat(ctx, turns, prompt.BlogInstruction)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.settle(epoch) {
		return
	}
	if err != nil {
		e.emit(Event{
			Type:   EventProcessingFailed,
			Err:    domain.NewDomainError(domain.ErrProcessingFailed, "summary generation"),
			Detail: err.Error(),
		})
		return
	}
	e.emit(Event{Type: EventSummaryReady, Summary: summary})
}

// turnsLocked copies the current turn list for a dispatch. Callers hold e.mu.
func (e *Engine) turnsLocked() []models.DebateTurn {
	return append([]models.DebateTurn(nil), e.session.DebateTurns...)
}

// settle reports whether a completion is still current. Stale completions
// from abandoned operations are dropped without touching state.
func (e *Engine) settle(epoch uint64) bool {
	if epoch != e.epoch {
		return false
	}
	e.inFlight = false
	return true
}

// emit delivers an event without ever blocking state transitions. A consumer
// that stops draining loses events, not consistency; the session snapshot
// remains the source of truth.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		log.Printf("session %s: dropping %s event, consumer not draining", e.session.ID, ev.Type)
	}
}
