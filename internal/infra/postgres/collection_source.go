package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"question-bank/internal/domain"
	"question-bank/internal/normalize"
)

// CollectionSource loads a named collection stored as a JSON document.
type CollectionSource struct {
	pool *pgxpool.Pool
	name string
}

func NewCollectionSource(pool *pgxpool.Pool, name string) *CollectionSource {
	return &CollectionSource{pool: pool, name: name}
}

func (s *CollectionSource) Name() string { return "collection-" + s.name }

func (s *CollectionSource) Fetch(ctx context.Context) ([]normalize.RawQuestion, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM collections WHERE name=$1`, s.name).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("load collection: %w", err)
	}
	return normalize.ParseCollection(raw)
}

// ListCollections returns the stored collection names with their sizes.
func ListCollections(ctx context.Context, pool *pgxpool.Pool) (map[string]int, error) {
	rows, err := pool.Query(ctx, `SELECT name, json_array_length(data) FROM collections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var name string
		var size int
		if err := rows.Scan(&name, &size); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		out[name] = size
	}
	return out, rows.Err()
}
