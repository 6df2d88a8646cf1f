package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
)

// setURLParam adds a URL parameter to the request context (chi router style)
func setURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// MockIDGenerator is a mock ID generator for testing
type MockIDGenerator struct {
	counter int
}

func (m *MockIDGenerator) GenerateSessionID() string {
	m.counter++
	return fmt.Sprintf("vs_test_%d", m.counter)
}

// MockGenerativeService returns canned results synchronously.
type MockGenerativeService struct {
	mu        sync.Mutex
	readyErr  error
	thought   *models.StructuredThought
	structErr error
	reply     string
	chatErr   error
	chatCalls int
}

func (m *MockGenerativeService) Ready() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyErr
}

func (m *MockGenerativeService) GenerateStructured(ctx context.Context, userText, systemInstruction string) (*models.StructuredThought, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.structErr != nil {
		return nil, m.structErr
	}
	return m.thought, nil
}

func (m *MockGenerativeService) GenerateChat(ctx context.Context, turns []models.DebateTurn, systemInstruction string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func testThought() *models.StructuredThought {
	return &models.StructuredThought{
		CorrectedText: "Cities should price road use by congestion.",
		ChallengeQuestions: []string{
			"Who bears the cost burden?",
			"What alternatives exist for low-income drivers?",
			"How is congestion measured fairly?",
		},
	}
}
