// Package pipeline sequences the four idea flows: Process, TechStack,
// Mvp and DevPrompt.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ideaforge/internal/ai"
	"ideaforge/internal/apperr"
	"ideaforge/internal/models"
	"ideaforge/internal/registry"
)

// historyLimit caps how many recent ideas enrich the memory context of
// a Process call; historyTruncate caps each entry's length.
const (
	historyLimit    = 3
	historyTruncate = 160
)

// Notifier announces processed ideas to an out-of-band channel.
// Implementations handle their own failures; announcing is always
// best-effort.
type Notifier interface {
	IdeaProcessed(idea *models.Idea)
}

// Service orchestrates the idea flows. Each method runs one request to
// completion or to a classified failure; nothing is retried.
type Service struct {
	gateway  ai.Gateway
	registry registry.Registry
	notifier Notifier
	logger   *zap.Logger
	metrics  *Metrics
}

// NewService creates the pipeline service. notifier and metrics may be
// nil.
func NewService(gateway ai.Gateway, reg registry.Registry, notifier Notifier, logger *zap.Logger, metrics *Metrics) *Service {
	return &Service{
		gateway:  gateway,
		registry: reg,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
	}
}

// Process turns raw idea text into a stored Idea: build prompt, call
// the model, sanitize, parse/validate, persist.
func (s *Service) Process(ctx context.Context, text, memoryContext string) (idea *models.Idea, err error) {
	defer func() { s.metrics.observe("process", err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.NewValidation("text must not be empty")
	}

	enriched := s.enrichContext(ctx, memoryContext)

	prompt := ai.BuildIdeaMapPrompt(text, enriched)
	rawText, err := s.gateway.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	m, err := ai.ParseIdeaMap(ai.Sanitize(rawText), rawText)
	if err != nil {
		return nil, err
	}

	idea = &models.Idea{
		ID:            newIdeaID(),
		OriginalText:  text,
		MemoryContext: memoryContext,
		GeneratedAt:   time.Now().UTC(),
		Root:          m.Root,
		Insight:       m.Insight,
	}

	if err := s.registry.Put(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to store idea: %w", err)
	}

	s.logger.Info("idea processed",
		zap.String("id", idea.ID),
		zap.String("name", idea.Root.Label),
	)

	if s.notifier != nil {
		go s.notifier.IdeaProcessed(idea)
	}

	return idea, nil
}

// TechStack derives a technology recommendation for a stored idea.
func (s *Service) TechStack(ctx context.Context, id string) (items []models.TechStackItem, err error) {
	defer func() { s.metrics.observe("tech_stack", err) }()

	idea, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rawText, err := s.gateway.Generate(ctx, ai.BuildTechStackPrompt(idea))
	if err != nil {
		return nil, err
	}

	return ai.ParseTechStack(ai.Sanitize(rawText), rawText)
}

// Mvp derives the three-bucket MVP plan for a stored idea.
func (s *Service) Mvp(ctx context.Context, id string) (plan *models.MvpPlan, err error) {
	defer func() { s.metrics.observe("mvp", err) }()

	idea, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rawText, err := s.gateway.Generate(ctx, ai.BuildMvpPrompt(idea))
	if err != nil {
		return nil, err
	}

	return ai.ParseMvpPlan(ai.Sanitize(rawText), rawText)
}

// DevPrompt derives the long-form development prompt for a stored idea.
func (s *Service) DevPrompt(ctx context.Context, id string) (dp *models.DevPrompt, err error) {
	defer func() { s.metrics.observe("dev_prompt", err) }()

	idea, err := s.registry.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rawText, err := s.gateway.Generate(ctx, ai.BuildDevPrompt(idea))
	if err != nil {
		return nil, err
	}

	return ai.ParseDevPrompt(ai.Sanitize(rawText), rawText)
}

// GetIdea returns a stored idea.
func (s *Service) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	return s.registry.Get(ctx, id)
}

// ListIdeas returns summaries of all stored ideas.
func (s *Service) ListIdeas(ctx context.Context) ([]models.IdeaSummary, error) {
	return s.registry.List(ctx)
}

// enrichContext appends the most recent ideas to the caller-supplied
// memory context. History is an optional enhancement: any failure here
// degrades silently to the caller's value and never fails the flow.
func (s *Service) enrichContext(ctx context.Context, memoryContext string) string {
	summaries, err := s.registry.List(ctx)
	if err != nil {
		s.logger.Debug("history enrichment skipped", zap.Error(err))
		return memoryContext
	}
	if len(summaries) == 0 {
		return memoryContext
	}

	if len(summaries) > historyLimit {
		summaries = summaries[len(summaries)-historyLimit:]
	}

	lines := make([]string, 0, len(summaries))
	for _, sum := range summaries {
		lines = append(lines, truncate(fmt.Sprintf("%s: %s", sum.Name, sum.Summary), historyTruncate))
	}

	history := "Recent ideas: " + strings.Join(lines, " | ")
	if memoryContext == "" {
		return history
	}
	return memoryContext + "\n" + history
}

// newIdeaID mints a process-unique id: UUIDv7 carries a non-decreasing
// millisecond timestamp plus random bits, so concurrent creations do
// not collide and need no coordination.
func newIdeaID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
