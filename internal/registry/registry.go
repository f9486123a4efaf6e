// Package registry stores processed ideas keyed by id.
package registry

import (
	"context"

	"ideaforge/internal/models"
)

// Registry is the three-operation store contract the pipeline depends
// on. Put is insert-only: ideas are immutable once stored and there is
// no update path. List returns summaries in insertion order; ordering
// is stable for a process lifetime but not otherwise guaranteed.
//
// Implementations must be safe for concurrent use: Get and List run
// concurrently with Put and observe either a fully-inserted idea or
// none. No eviction or expiry is defined; unbounded growth is a known
// limitation of the product, not something the store papers over.
type Registry interface {
	Put(ctx context.Context, idea *models.Idea) error
	Get(ctx context.Context, id string) (*models.Idea, error)
	List(ctx context.Context) ([]models.IdeaSummary, error)
}
