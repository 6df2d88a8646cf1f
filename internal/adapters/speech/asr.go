// Package speech adapts a Whisper-compatible transcription endpoint to the
// transcript ingestion port. Each recording produces exactly one result,
// delivered asynchronously and classified so the caller can tell a service
// outage from audio the model could not make out.
package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/voicepal-ai/voicepal/internal/adapters/circuitbreaker"
	"github.com/voicepal-ai/voicepal/internal/adapters/metrics"
	"github.com/voicepal-ai/voicepal/internal/ports"
)

const (
	defaultASREndpoint = "http://localhost:8000"
	transcriptionsPath = "/v1/audio/transcriptions"
	ASRTimeout         = 30 * time.Second
)

type ASRAdapter struct {
	client  *Client
	model   string
	breaker *circuitbreaker.CircuitBreaker
}

var _ ports.TranscriptIngester = (*ASRAdapter)(nil)

func NewASRAdapter(endpoint, apiKey, model string) *ASRAdapter {
	if endpoint == "" {
		endpoint = defaultASREndpoint
	}
	if model == "" {
		model = "whisper-1"
	}

	return &ASRAdapter{
		client:  NewClient(endpoint, apiKey),
		model:   model,
		breaker: circuitbreaker.New(5, 30*time.Second),
	}
}

type whisperResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language,omitempty"`
	Duration float32 `json:"duration,omitempty"`
}

// Ingest transcribes one recording. The returned channel receives exactly one
// result and is then closed.
func (a *ASRAdapter) Ingest(ctx context.Context, audio []byte, format string) <-chan ports.TranscriptResult {
	results := make(chan ports.TranscriptResult, 1)

	go func() {
		defer close(results)
		results <- a.transcribe(ctx, audio, format)
	}()

	return results
}

func (a *ASRAdapter) transcribe(ctx context.Context, audio []byte, format string) ports.TranscriptResult {
	if len(audio) == 0 {
		return ports.TranscriptResult{
			Status: ports.TranscriptGeneralError,
			Detail: "audio data is empty",
		}
	}
	if format == "" {
		format = "wav"
	}

	ctx, cancel := context.WithTimeout(ctx, ASRTimeout)
	defer cancel()

	start := time.Now()
	var response whisperResponse
	err := a.breaker.Execute(func() error {
		fields := map[string]string{
			"model":           a.model,
			"response_format": "json",
		}
		fileName := fmt.Sprintf("audio.%s", format)
		return a.client.PostMultipart(ctx, transcriptionsPath, fields, "file", fileName, audio, &response)
	})
	metrics.TranscriptionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return classify(err)
	}

	text := strings.TrimSpace(response.Text)
	if text == "" {
		return ports.TranscriptResult{
			Status: ports.TranscriptUnknown,
			Detail: "no speech recognized",
		}
	}

	return ports.TranscriptResult{Status: ports.TranscriptSuccess, Text: text}
}

// classify maps transport-level failures, which include an unavailable
// service and an open breaker, apart from everything else.
func classify(err error) ports.TranscriptResult {
	switch {
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, context.DeadlineExceeded),
		strings.Contains(err.Error(), "failed to send request"),
		strings.Contains(err.Error(), "API error"):
		return ports.TranscriptResult{
			Status: ports.TranscriptRequestError,
			Detail: err.Error(),
		}
	default:
		return ports.TranscriptResult{
			Status: ports.TranscriptGeneralError,
			Detail: err.Error(),
		}
	}
}

func (a *ASRAdapter) SetModel(model string) {
	a.model = model
}
