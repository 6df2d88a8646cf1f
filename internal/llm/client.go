package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/voicepal-ai/voicepal/internal/adapters/retry"
	"github.com/voicepal-ai/voicepal/internal/domain"
	"github.com/voicepal-ai/voicepal/internal/domain/models"
	"github.com/voicepal-ai/voicepal/internal/prompt"
)

const generatePathFormat = "/v1beta/models/%s:generateContent"

// content mirrors the provider's content block: an optional role plus text parts.
type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Client talks to a Gemini-style generateContent endpoint. Every public call
// runs the full retry/backoff budget internally; transient failures never
// escape it. After exhaustion it reports domain.ErrGenerationExhausted.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	httpClient  *http.Client
	retryConfig retry.BackoffConfig
}

// NewClient creates a new generation client
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryConfig: retry.DefaultConfig(),
	}
}

// SetRetryConfig overrides the retry policy. Tests use it to collapse waits.
func (c *Client) SetRetryConfig(cfg retry.BackoffConfig) {
	c.retryConfig = cfg
}

// Ready reports whether the client has credentials to make calls.
func (c *Client) Ready() error {
	if c.apiKey == "" {
		return domain.ErrMissingAPIKey
	}
	return nil
}

// GenerateStructured sends userText with the thought schema and parses the
// structured result. An attempt fails on transport error, non-success status,
// an empty candidate payload, or a payload violating the schema (including a
// wrong question count); all of these are retried within the budget.
func (c *Client) GenerateStructured(ctx context.Context, userText, systemInstruction string) (*models.StructuredThought, error) {
	if err := c.Ready(); err != nil {
		return nil, err
	}

	req := generateRequest{
		Contents:          []content{{Parts: []part{{Text: userText}}}},
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   prompt.ThoughtSchema(),
		},
	}

	var thought *models.StructuredThought
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		text, err := c.generateContent(ctx, req)
		if err != nil {
			return err
		}
		var parsed models.StructuredThought
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return fmt.Errorf("failed to parse structured payload: %w", err)
		}
		if err := parsed.Validate(); err != nil {
			return fmt.Errorf("structured payload violates contract: %w", err)
		}
		thought = &parsed
		return nil
	})
	if err != nil {
		return nil, collapse(err, "structured generation")
	}
	return thought, nil
}

// GenerateChat sends the full ordered turn list and returns the free-form
// reply text. Same retry and exhaustion contract as GenerateStructured.
func (c *Client) GenerateChat(ctx context.Context, turns []models.DebateTurn, systemInstruction string) (string, error) {
	if err := c.Ready(); err != nil {
		return "", err
	}

	contents := make([]content, len(turns))
	for i, turn := range turns {
		contents[i] = content{
			Role:  string(turn.Role),
			Parts: []part{{Text: turn.Text}},
		}
	}

	req := generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
	}

	var reply string
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		text, err := c.generateContent(ctx, req)
		if err != nil {
			return err
		}
		reply = text
		return nil
	})
	if err != nil {
		return "", collapse(err, "chat generation")
	}
	return reply, nil
}

// generateContent performs one attempt and extracts the first candidate text.
func (c *Client) generateContent(ctx context.Context, req generateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + fmt.Sprintf(generatePathFormat, c.model) + "?key=" + c.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response contains no candidate text")
	}
	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("candidate text is empty")
	}
	return text, nil
}

// collapse maps a retry outcome to the public contract: cancellation passes
// through, everything else becomes the exhaustion sentinel.
func collapse(err error, op string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.NewDomainError(domain.ErrGenerationExhausted, op)
}
