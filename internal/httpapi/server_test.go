package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ideaforge/internal/models"
	"ideaforge/internal/pipeline"
	"ideaforge/internal/registry"
)

const validIdeaMapJSON = `{
  "root": {
    "label": "HabitLoop",
    "branches": [
      {"label": "User Journey", "children": ["sign up", "set a habit", "log progress"]},
      {"label": "Core Functions", "children": ["habit CRUD", "streak tracking", "reminders"]},
      {"label": "Data & Output", "children": ["streak charts", "weekly summary", "export CSV"]},
      {"label": "Internal Engine", "children": ["scheduler", "streak calculator", "notification queue"]},
      {"label": "Automation & Logic", "children": ["smart reminders", "streak recovery", "goal suggestions"]}
    ]
  },
  "insight": {
    "summary": "A focused habit tracker with a strong retention loop.",
    "themes": ["habit formation", "retention"],
    "nextSteps": ["validate reminder channels", "prototype streak UI"]
  }
}`

type stubGateway struct {
	mu       sync.Mutex
	response string
}

func (g *stubGateway) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.response, nil
}

func newTestRouter(gw *stubGateway) http.Handler {
	svc := pipeline.NewService(gw, registry.NewMemoryRegistry(), nil, zap.NewNop(), nil)
	return NewServer(svc, zap.NewNop(), nil).Router()
}

func TestProcessEndpoint(t *testing.T) {
	gw := &stubGateway{response: validIdeaMapJSON}
	router := newTestRouter(gw)

	body := bytes.NewBufferString(`{"text": "A SaaS for habit tracking"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/ideas/process", body))

	require.Equal(t, http.StatusCreated, rec.Code)

	var idea models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idea))
	assert.Equal(t, "HabitLoop", idea.Root.Label)
	assert.NotEmpty(t, idea.ID)

	// The created idea is immediately retrievable.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ideas/"+idea.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ideas/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []models.IdeaSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, idea.ID, summaries[0].ID)
}

func TestProcessEndpointMissingText(t *testing.T) {
	router := newTestRouter(&stubGateway{response: validIdeaMapJSON})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/ideas/process", bytes.NewBufferString(`{}`)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestUnknownIdeaReturns404(t *testing.T) {
	router := newTestRouter(&stubGateway{response: validIdeaMapJSON})

	for _, path := range []string{
		"/api/ideas/missing",
		"/api/ideas/missing/tech-stack",
		"/api/ideas/missing/mvp",
		"/api/ideas/missing/dev-prompt",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code, "path %s", path)
		assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	}
}

func TestModelGarbageReturns502(t *testing.T) {
	gw := &stubGateway{response: validIdeaMapJSON}
	router := newTestRouter(gw)

	body := bytes.NewBufferString(`{"text": "A SaaS for habit tracking"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", "/api/ideas/process", body))
	require.Equal(t, http.StatusCreated, rec.Code)

	var idea models.Idea
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &idea))

	gw.mu.Lock()
	gw.response = "Invalid JSON response from AI"
	gw.mu.Unlock()

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ideas/"+idea.ID+"/mvp", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "AI_PARSE_ERROR")
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&stubGateway{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
