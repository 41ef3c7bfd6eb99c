package repository

import (
	"context"
	"fmt"
	"time"
)

// Truncate empties the given tables. Only compiled for tests.
func (r *Repository) Truncate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// SetClock replaces the creation timestamp source. Only compiled for tests.
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}
