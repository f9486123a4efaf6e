package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ideaforge/internal/apperr"
	"ideaforge/internal/models"
)

// PostgresRegistry backs the registry with a Postgres table. The tree
// and insight structures are stored as jsonb; insertion order is kept
// by a sequence column.
type PostgresRegistry struct {
	pool *pgxpool.Pool
}

// NewPostgresRegistry connects to the database and ensures the schema
// exists.
func NewPostgresRegistry(ctx context.Context, databaseURL string) (*PostgresRegistry, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database URL: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	r := &PostgresRegistry{pool: pool}
	if err := r.createTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

// Close closes the connection pool.
func (r *PostgresRegistry) Close() {
	r.pool.Close()
}

// Health checks if the database is reachable.
func (r *PostgresRegistry) Health(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PostgresRegistry) createTables(ctx context.Context) error {
	ideasTable := `
	CREATE TABLE IF NOT EXISTS ideas (
		id UUID PRIMARY KEY,
		seq BIGINT GENERATED ALWAYS AS IDENTITY,
		original_text TEXT NOT NULL,
		memory_context TEXT,
		generated_at TIMESTAMPTZ NOT NULL,
		root JSONB NOT NULL,
		insight JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ideas_seq ON ideas(seq);
	`

	if _, err := r.pool.Exec(ctx, ideasTable); err != nil {
		return fmt.Errorf("failed to create ideas table: %w", err)
	}
	return nil
}

// Put inserts a new idea. Duplicate ids fail on the primary key.
func (r *PostgresRegistry) Put(ctx context.Context, idea *models.Idea) error {
	rootJSON, err := json.Marshal(idea.Root)
	if err != nil {
		return fmt.Errorf("failed to marshal root: %w", err)
	}
	insightJSON, err := json.Marshal(idea.Insight)
	if err != nil {
		return fmt.Errorf("failed to marshal insight: %w", err)
	}

	query := `
		INSERT INTO ideas (id, original_text, memory_context, generated_at, root, insight)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.pool.Exec(ctx, query,
		idea.ID,
		idea.OriginalText,
		idea.MemoryContext,
		idea.GeneratedAt,
		rootJSON,
		insightJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert idea: %w", err)
	}

	return nil
}

// Get retrieves an idea by id.
func (r *PostgresRegistry) Get(ctx context.Context, id string) (*models.Idea, error) {
	query := `
		SELECT id, original_text, memory_context, generated_at, root, insight
		FROM ideas
		WHERE id = $1
	`

	idea := &models.Idea{}
	var rootJSON, insightJSON []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&idea.ID,
		&idea.OriginalText,
		&idea.MemoryContext,
		&idea.GeneratedAt,
		&rootJSON,
		&insightJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NewNotFound(fmt.Sprintf("idea %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query idea: %w", err)
	}

	if err := json.Unmarshal(rootJSON, &idea.Root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal root: %w", err)
	}
	if err := json.Unmarshal(insightJSON, &idea.Insight); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insight: %w", err)
	}

	return idea, nil
}

// List returns summaries of all ideas in insertion order.
func (r *PostgresRegistry) List(ctx context.Context) ([]models.IdeaSummary, error) {
	query := `
		SELECT id, root->>'label', insight->>'summary', generated_at
		FROM ideas
		ORDER BY seq
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}
	defer rows.Close()

	var summaries []models.IdeaSummary
	for rows.Next() {
		var s models.IdeaSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Summary, &s.GeneratedAt); err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ideas: %w", err)
	}

	return summaries, nil
}
