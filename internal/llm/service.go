package llm

import (
	"context"
	"errors"
	"time"

	"github.com/voicepal-ai/voicepal/internal/adapters/metrics"
	"github.com/voicepal-ai/voicepal/internal/domain"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

// Service implements ports.GenerativeService on top of the generateContent
// client, adding the per-call timeout and metrics.
type Service struct {
	client  *Client
	timeout time.Duration
}

var _ ports.GenerativeService = (*Service)(nil)

// NewService creates a new generation service
func NewService(client *Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Service{client: client, timeout: timeout}
}

func (s *Service) Ready() error {
	return s.client.Ready()
}

func (s *Service) GenerateStructured(ctx context.Context, userText, systemInstruction string) (*models.StructuredThought, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	thought, err := s.client.GenerateStructured(ctx, userText, systemInstruction)
	s.observe("structured", start, err)
	return thought, err
}

func (s *Service) GenerateChat(ctx context.Context, turns []models.DebateTurn, systemInstruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	reply, err := s.client.GenerateChat(ctx, turns, systemInstruction)
	s.observe("chat", start, err)
	return reply, err
}

func (s *Service) observe(kind string, start time.Time, err error) {
	status := "ok"
	switch {
	case err == nil:
	case isExhausted(err):
		status = "exhausted"
	default:
		status = "error"
	}
	metrics.GenerationRequestsTotal.WithLabelValues(kind, status).Inc()
	metrics.GenerationRequestDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func isExhausted(err error) bool {
	return errors.Is(err, domain.ErrGenerationExhausted)
}
