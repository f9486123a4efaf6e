// Package ai wraps the text-generation capability: prompt templates,
// the HTTP gateway to the model, and tolerant parsing of its output.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ideaforge/internal/apperr"
)

// Gateway is the single capability the pipeline consumes: submit a
// prompt, receive plain text back, possibly failing.
type Gateway interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GatewayConfig configures the HTTP gateway.
type GatewayConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// HTTPGateway calls an Anthropic-messages-style endpoint and normalizes
// whichever response shape comes back into plain text. It performs no
// retries and no caching; the circuit breaker only short-circuits calls
// while the upstream is known to be failing.
type HTTPGateway struct {
	cfg        GatewayConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewHTTPGateway creates a gateway for the configured model endpoint.
func NewHTTPGateway(cfg GatewayConfig, logger *zap.Logger) *HTTPGateway {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.anthropic.com/v1/messages"
	}
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-5-20250929"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "model-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("model gateway breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPGateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
	}
}

type generateRequest struct {
	Model       string            `json:"model"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
	Messages    []generateMessage `json:"messages"`
}

type generateMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentSegment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type choiceMessage struct {
	Content string `json:"content"`
}

type responseChoice struct {
	Text    string        `json:"text"`
	Message choiceMessage `json:"message"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// generateResponse covers the response shapes the gateway understands:
// a content-segment list (Anthropic), a bare text field, or a choices
// list (chat-completion style).
type generateResponse struct {
	Content []contentSegment `json:"content"`
	Text    string           `json:"text"`
	Choices []responseChoice `json:"choices"`
	Error   *apiError        `json:"error,omitempty"`
}

// Generate submits the prompt and returns the normalized model text.
// Every failure mode surfaces as an AI_UNAVAILABLE error; the gateway
// never substitutes empty text for an error.
func (g *HTTPGateway) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apperr.NewValidation("prompt must not be empty")
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.call(ctx, prompt)
	})
	if err != nil {
		switch err {
		case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
			return "", apperr.NewAiUnavailable("model gateway circuit open", err)
		}
		if apperr.KindOf(err) != "" {
			return "", err
		}
		return "", apperr.NewAiUnavailable("model call failed", err)
	}

	return result.(string), nil
}

func (g *HTTPGateway) call(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []generateMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.cfg.BaseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("model API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	return normalizeResponse(body)
}

// normalizeResponse resolves the response-shape union in one place.
// Shapes are tried in order: content segments, bare text, choices; a
// decodable body matching none of them is serialized back as-is.
func normalizeResponse(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unrecognized response body: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", resp.Error.Type, resp.Error.Message)
	}

	if len(resp.Content) > 0 {
		var sb strings.Builder
		for _, seg := range resp.Content {
			sb.WriteString(seg.Text)
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	if resp.Text != "" {
		return resp.Text, nil
	}

	if len(resp.Choices) > 0 {
		var sb strings.Builder
		for _, c := range resp.Choices {
			if c.Text != "" {
				sb.WriteString(c.Text)
			} else {
				sb.WriteString(c.Message.Content)
			}
		}
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	// Fallback: the body decoded but matches no known shape. Hand the
	// serialized body downstream rather than guessing at fields.
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "{}" || trimmed == "null" {
		return "", fmt.Errorf("response contains no generated text")
	}
	return trimmed, nil
}
