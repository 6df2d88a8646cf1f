package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicepal-ai/voicepal/internal/domain"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

// stubLLM is a controllable GenerativeService. When gate is non-nil every
// generation call blocks until the gate closes, which lets tests observe the
// in-flight window.
type stubLLM struct {
	mu sync.Mutex

	readyErr  error
	thought   *models.StructuredThought
	structErr error
	replies   []string
	chatErr   error
	gate      chan struct{}

	structCalls int
	chatCalls   int
	lastTurns   []models.DebateTurn
	lastSystem  string
	lastUser    string
}

func (s *stubLLM) Ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readyErr
}

func (s *stubLLM) GenerateStructured(ctx context.Context, userText, systemInstruction string) (*models.StructuredThought, error) {
	s.mu.Lock()
	s.structCalls++
	s.lastUser = userText
	s.lastSystem = systemInstruction
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.structErr != nil {
		return nil, s.structErr
	}
	return s.thought, nil
}

func (s *stubLLM) GenerateChat(ctx context.Context, turns []models.DebateTurn, systemInstruction string) (string, error) {
	s.mu.Lock()
	s.chatCalls++
	s.lastTurns = append([]models.DebateTurn(nil), turns...)
	s.lastSystem = systemInstruction
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.chatErr != nil {
		return "", s.chatErr
	}
	if len(s.replies) == 0 {
		return "as you say", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func sampleThought() *models.StructuredThought {
	return &models.StructuredThought{
		CorrectedText: "Remote work increases output for focused tasks.",
		ChallengeQuestions: []string{
			"What evidence supports this?",
			"Which tasks suffer without co-location?",
			"How would you measure output honestly?",
		},
	}
}

func newTestEngine(llm *stubLLM) *Engine {
	return NewEngine(models.NewSession("vs_test"), llm)
}

func waitEvent(t *testing.T, e *Engine) Event {
	t.Helper()
	select {
	case ev := <-e.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine event")
		return Event{}
	}
}

func refine(t *testing.T, e *Engine) {
	t.Helper()
	require.NoError(t, e.SubmitThought(context.Background(), "remote work is more productive"))
	ev := waitEvent(t, e)
	require.Equal(t, EventThoughtRefined, ev.Type)
}

func TestSubmitThoughtSetsPending(t *testing.T) {
	llm := &stubLLM{thought: sampleThought()}
	e := newTestEngine(llm)

	require.NoError(t, e.SubmitThought(context.Background(), "  remote work is more productive  "))

	ev := waitEvent(t, e)
	require.Equal(t, EventThoughtRefined, ev.Type)
	require.NotNil(t, ev.Thought)
	assert.Len(t, ev.Thought.ChallengeQuestions, models.ChallengeQuestionCount)

	snap := e.Snapshot()
	require.NotNil(t, snap.Pending)
	assert.Equal(t, "Remote work increases output for focused tasks.", snap.Pending.CorrectedText)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.Empty(t, snap.History)
	assert.Equal(t, "remote work is more productive", llm.lastUser)
	assert.False(t, e.Busy())
}

func TestSubmitThoughtRejectsPlaceholderInput(t *testing.T) {
	llm := &stubLLM{thought: sampleThought()}
	e := newTestEngine(llm)

	for _, raw := range []string{"", "   ", PlaceholderNewThought, PlaceholderResponse, PlaceholderRebuttal} {
		err := e.SubmitThought(context.Background(), raw)
		assert.ErrorIs(t, err, domain.ErrEmptyInput, "input %q", raw)
	}
	assert.Zero(t, llm.structCalls)
}

func TestSubmitThoughtRejectedWhileBusy(t *testing.T) {
	gate := make(chan struct{})
	llm := &stubLLM{thought: sampleThought(), gate: gate}
	e := newTestEngine(llm)

	require.NoError(t, e.SubmitThought(context.Background(), "first thought"))
	err := e.SubmitThought(context.Background(), "second thought")
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	close(gate)
	waitEvent(t, e)
	assert.Equal(t, 1, llm.structCalls)
}

func TestSubmitThoughtNotConfigured(t *testing.T) {
	llm := &stubLLM{readyErr: domain.ErrMissingAPIKey}
	e := newTestEngine(llm)

	err := e.SubmitThought(context.Background(), "a thought")
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Zero(t, llm.structCalls)
}

func TestSubmitThoughtFailureLeavesStateUntouched(t *testing.T) {
	llm := &stubLLM{structErr: domain.ErrGenerationExhausted}
	e := newTestEngine(llm)

	require.NoError(t, e.SubmitThought(context.Background(), "a thought"))

	ev := waitEvent(t, e)
	require.Equal(t, EventProcessingFailed, ev.Type)
	assert.ErrorIs(t, ev.Err, domain.ErrProcessingFailed)

	snap := e.Snapshot()
	assert.Nil(t, snap.Pending)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.False(t, e.Busy())
}

func TestSelectAndConfirmFocus(t *testing.T) {
	llm := &stubLLM{thought: sampleThought()}
	e := newTestEngine(llm)
	refine(t, e)

	err := e.SelectFocus("a question nobody asked")
	assert.ErrorIs(t, err, domain.ErrUnknownQuestion)

	require.NoError(t, e.SelectFocus("What evidence supports this?"))

	step, err := e.ConfirmFocus()
	require.NoError(t, err)
	assert.Equal(t, 1, step.Step)
	assert.Equal(t, "What evidence supports this?", step.FocusQuestion)

	snap := e.Snapshot()
	assert.Nil(t, snap.Pending)
	assert.Empty(t, snap.SelectedFocus)
	assert.Equal(t, 2, snap.CurrentStep)
	require.Len(t, snap.History, 1)
	assert.Equal(t, snap.CurrentStep, len(snap.History)+1)
}

func TestConfirmFocusWithoutSelection(t *testing.T) {
	llm := &stubLLM{thought: sampleThought()}
	e := newTestEngine(llm)
	refine(t, e)

	_, err := e.ConfirmFocus()
	assert.ErrorIs(t, err, domain.ErrNoFocusSelected)

	snap := e.Snapshot()
	require.NotNil(t, snap.Pending)
	assert.Equal(t, 1, snap.CurrentStep)
	assert.Empty(t, snap.History)
}

func TestStartDebateSeedsArgumentAndReplies(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"I disagree entirely."}}
	e := newTestEngine(llm)
	refine(t, e)

	require.NoError(t, e.StartDebate(context.Background()))

	ev := waitEvent(t, e)
	require.Equal(t, EventDebateReply, ev.Type)
	assert.Equal(t, "I disagree entirely.", ev.Reply)

	snap := e.Snapshot()
	assert.Equal(t, models.ModeDebate, snap.Mode)
	assert.Nil(t, snap.Pending)
	require.Len(t, snap.DebateTurns, 2)
	assert.Equal(t, models.TurnRoleUser, snap.DebateTurns[0].Role)
	assert.Equal(t, "Remote work increases output for focused tasks.", snap.DebateTurns[0].Text)
	assert.Equal(t, models.TurnRoleAssistant, snap.DebateTurns[1].Role)
	assert.True(t, models.AlternatesFromUser(snap.DebateTurns))

	// The dispatched turn list held only the seeded user argument.
	require.Len(t, llm.lastTurns, 1)
	assert.Equal(t, models.TurnRoleUser, llm.lastTurns[0].Role)
}

func TestStartDebateWithoutArgument(t *testing.T) {
	llm := &stubLLM{}
	e := newTestEngine(llm)

	err := e.StartDebate(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Equal(t, models.ModeGuided, e.Snapshot().Mode)
	assert.Zero(t, llm.chatCalls)
}

func TestStartDebateUsesLastConfirmedStep(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"counterpoint"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.SelectFocus("What evidence supports this?"))
	_, err := e.ConfirmFocus()
	require.NoError(t, err)

	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	snap := e.Snapshot()
	assert.Equal(t, "Remote work increases output for focused tasks.", snap.DebateTurns[0].Text)
}

func TestSubmitRebuttalExtendsExchange(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"first rebuttal", "second rebuttal"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	require.NoError(t, e.SubmitRebuttal(context.Background(), "But deep work needs isolation."))
	ev := waitEvent(t, e)
	require.Equal(t, EventDebateReply, ev.Type)
	assert.Equal(t, "second rebuttal", ev.Reply)

	snap := e.Snapshot()
	require.Len(t, snap.DebateTurns, 4)
	assert.True(t, models.AlternatesFromUser(snap.DebateTurns))
	// Rebuttal dispatch carried the full history including the new turn.
	assert.Len(t, llm.lastTurns, 3)
}

func TestSubmitRebuttalOutsideDebate(t *testing.T) {
	e := newTestEngine(&stubLLM{})
	err := e.SubmitRebuttal(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestFailedOpponentTurnRetainsUserArgument(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"opening"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	llm.mu.Lock()
	llm.chatErr = domain.ErrGenerationExhausted
	llm.mu.Unlock()

	require.NoError(t, e.SubmitRebuttal(context.Background(), "my first attempt"))
	ev := waitEvent(t, e)
	require.Equal(t, EventProcessingFailed, ev.Type)

	snap := e.Snapshot()
	require.Len(t, snap.DebateTurns, 3)
	assert.Equal(t, models.TurnRoleUser, snap.DebateTurns[2].Role)
	assert.Equal(t, "my first attempt", snap.DebateTurns[2].Text)

	// Retrying replaces the retained turn in place, keeping alternation.
	llm.mu.Lock()
	llm.chatErr = nil
	llm.replies = []string{"now I answer"}
	llm.mu.Unlock()

	require.NoError(t, e.SubmitRebuttal(context.Background(), "my revised attempt"))
	ev = waitEvent(t, e)
	require.Equal(t, EventDebateReply, ev.Type)

	snap = e.Snapshot()
	require.Len(t, snap.DebateTurns, 4)
	assert.Equal(t, "my revised attempt", snap.DebateTurns[2].Text)
	assert.True(t, models.AlternatesFromUser(snap.DebateTurns))
}

func TestEndDebateResetsEverything(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"opening"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	require.NoError(t, e.EndDebate())

	snap := e.Snapshot()
	assert.Equal(t, models.ModeGuided, snap.Mode)
	assert.Empty(t, snap.DebateTurns)
	assert.Empty(t, snap.History)
	assert.Nil(t, snap.Pending)
	assert.Equal(t, 1, snap.CurrentStep)

	// Back in guided mode a fresh thought is accepted.
	require.NoError(t, e.SubmitThought(context.Background(), "a new beginning"))
	waitEvent(t, e)
}

func TestEndDebateDropsStaleCompletion(t *testing.T) {
	gate := make(chan struct{})
	llm := &stubLLM{thought: sampleThought(), replies: []string{"opening", "stale"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	llm.mu.Lock()
	llm.gate = gate
	llm.mu.Unlock()

	require.NoError(t, e.SubmitRebuttal(context.Background(), "a rebuttal"))
	require.NoError(t, e.EndDebate())
	close(gate)

	select {
	case ev := <-e.Events():
		t.Fatalf("expected stale completion to be dropped, got %s", ev.Type)
	case <-time.After(100 * time.Millisecond):
	}

	snap := e.Snapshot()
	assert.Equal(t, models.ModeGuided, snap.Mode)
	assert.Empty(t, snap.DebateTurns)
	assert.False(t, e.Busy())
}

func TestRequestSummaryRequiresContent(t *testing.T) {
	llm := &stubLLM{}
	e := newTestEngine(llm)

	err := e.RequestSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrNothingToSummarize)
	assert.Zero(t, llm.chatCalls)
}

func TestRequestSummaryIncludesPendingThought(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"## A Blog Post"}}
	e := newTestEngine(llm)
	refine(t, e)

	require.NoError(t, e.RequestSummary(context.Background()))

	ev := waitEvent(t, e)
	require.Equal(t, EventSummaryReady, ev.Type)
	assert.Equal(t, "## A Blog Post", ev.Summary)

	require.Len(t, llm.lastTurns, 1)
	transcript := llm.lastTurns[0].Text
	assert.True(t, strings.HasPrefix(transcript, "Thought Process Transcript for Blog Post:"))
	assert.Contains(t, transcript, "Final Thought")
	assert.Contains(t, transcript, "Remote work increases output for focused tasks.")

	// The pending result survives summarization.
	require.NotNil(t, e.Snapshot().Pending)
}

func TestRequestSummaryDuringDebate(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), replies: []string{"opening"}}
	e := newTestEngine(llm)
	refine(t, e)
	require.NoError(t, e.StartDebate(context.Background()))
	waitEvent(t, e)

	err := e.RequestSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}

func TestSummaryFailureEmitsProcessingError(t *testing.T) {
	llm := &stubLLM{thought: sampleThought(), chatErr: errors.New("provider down")}
	e := newTestEngine(llm)
	refine(t, e)

	require.NoError(t, e.RequestSummary(context.Background()))

	ev := waitEvent(t, e)
	require.Equal(t, EventProcessingFailed, ev.Type)
	assert.ErrorIs(t, ev.Err, domain.ErrProcessingFailed)
	assert.Contains(t, ev.Detail, "provider down")
}
