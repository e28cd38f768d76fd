package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"question-bank/internal/normalize"
)

// ImportCollection stores data under name, replacing any previous version.
// data must parse as a collection; it is stored verbatim so option order is kept.
func ImportCollection(ctx context.Context, db *bun.DB, name string, data []byte) (int, error) {
	raws, err := normalize.ParseCollection(data)
	if err != nil {
		return 0, err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO collections (name, data) VALUES (?, ?::json)
		 ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		name, string(data))
	if err != nil {
		return 0, fmt.Errorf("import collection %s: %w", name, err)
	}
	return len(raws), nil
}
