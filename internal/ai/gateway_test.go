package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaforge/internal/apperr"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPGateway(GatewayConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, zap.NewNop())
}

func TestGenerateContentSegments(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		w.Write([]byte(`{"content": [{"type": "text", "text": "hello "}, {"type": "text", "text": "world"}]}`))
	})

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestGenerateBareTextField(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text": "plain response"}`))
	})

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "plain response", text)
}

func TestGenerateChoices(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"text": "first"}, {"message": {"content": " second"}}]}`))
	})

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "first second", text)
}

func TestGenerateFallbackSerialization(t *testing.T) {
	body := `{"unexpected": {"shape": true}}`
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, body, text)
}

func TestGenerateErrorStatus(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"type": "overloaded", "message": "try later"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperr.IsAiUnavailable(err))
}

func TestGenerateAPIErrorPayload(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"type": "invalid_request", "message": "bad model"}}`))
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperr.IsAiUnavailable(err))
}

func TestGenerateNonJSONBody(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperr.IsAiUnavailable(err))
}

func TestGenerateEmptyResponse(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	// No recognized shape and nothing to serialize: never silently
	// return empty text.
	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperr.IsAiUnavailable(err))
}

func TestGenerateEmptyPrompt(t *testing.T) {
	called := false
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := g.Generate(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
	assert.False(t, called)
}

func TestGenerateUnreachableEndpoint(t *testing.T) {
	g := NewHTTPGateway(GatewayConfig{
		APIKey:  "test-key",
		BaseURL: "http://127.0.0.1:1",
	}, zap.NewNop())

	_, err := g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, apperr.IsAiUnavailable(err))
}
