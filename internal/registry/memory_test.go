package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideaforge/internal/apperr"
	"ideaforge/internal/models"
)

func newTestIdea(id, name string) *models.Idea {
	return &models.Idea{
		ID:           id,
		OriginalText: "some idea text",
		GeneratedAt:  time.Now().UTC(),
		Root:         models.Root{Label: name},
		Insight:      models.Insight{Summary: "summary of " + name},
	}
}

func TestMemoryRegistryPutGet(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	idea := newTestIdea("id-1", "First")
	require.NoError(t, r.Put(ctx, idea))

	got, err := r.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Root.Label)

	// Stored records are insulated from later caller mutation.
	idea.Root.Label = "mutated"
	got, err = r.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Root.Label)
}

func TestMemoryRegistryGetUnknown(t *testing.T) {
	r := NewMemoryRegistry()

	_, err := r.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestMemoryRegistryDuplicatePut(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	require.NoError(t, r.Put(ctx, newTestIdea("id-1", "First")))
	assert.Error(t, r.Put(ctx, newTestIdea("id-1", "Again")))
}

func TestMemoryRegistryListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	for i := 1; i <= 4; i++ {
		require.NoError(t, r.Put(ctx, newTestIdea(fmt.Sprintf("id-%d", i), fmt.Sprintf("Idea %d", i))))
	}

	summaries, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 4)
	for i, s := range summaries {
		assert.Equal(t, fmt.Sprintf("id-%d", i+1), s.ID)
		assert.Equal(t, fmt.Sprintf("Idea %d", i+1), s.Name)
	}
}

func TestMemoryRegistryConcurrentPut(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Put(ctx, newTestIdea(fmt.Sprintf("id-%d", i), "concurrent")))
		}(i)
	}
	wg.Wait()

	summaries, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, summaries, n)

	for i := 0; i < n; i++ {
		_, err := r.Get(ctx, fmt.Sprintf("id-%d", i))
		assert.NoError(t, err)
	}
}
