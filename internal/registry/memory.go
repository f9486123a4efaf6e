package registry

import (
	"context"
	"fmt"
	"sync"

	"ideaforge/internal/apperr"
	"ideaforge/internal/models"
)

// MemoryRegistry keeps ideas in process memory. Used when no database
// is configured, and by tests.
type MemoryRegistry struct {
	mu    sync.RWMutex
	ideas map[string]*models.Idea
	order []string
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		ideas: make(map[string]*models.Idea),
	}
}

// Put inserts an idea. Inserting an id twice is an error.
func (r *MemoryRegistry) Put(ctx context.Context, idea *models.Idea) error {
	if idea.ID == "" {
		return fmt.Errorf("idea id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ideas[idea.ID]; exists {
		return fmt.Errorf("idea %s already exists", idea.ID)
	}

	// Copy so callers cannot mutate the stored record afterwards.
	stored := *idea
	r.ideas[idea.ID] = &stored
	r.order = append(r.order, idea.ID)
	return nil
}

// Get retrieves an idea by id.
func (r *MemoryRegistry) Get(ctx context.Context, id string) (*models.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idea, ok := r.ideas[id]
	if !ok {
		return nil, apperr.NewNotFound(fmt.Sprintf("idea %s not found", id))
	}

	found := *idea
	return &found, nil
}

// List returns summaries of all ideas in insertion order.
func (r *MemoryRegistry) List(ctx context.Context) ([]models.IdeaSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]models.IdeaSummary, 0, len(r.order))
	for _, id := range r.order {
		summaries = append(summaries, r.ideas[id].Summarize())
	}
	return summaries, nil
}
