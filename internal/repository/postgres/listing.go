package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

// maxPrealloc bounds the slice capacity reserved before rows are scanned.
const maxPrealloc = 100

// windowCap is the initial capacity for a Find result of at most limit rows.
func windowCap(limit int) int { return min(max(limit, 0), maxPrealloc) }

// count and lastModified back the pagination.Store read side for every table.
// table is always a package constant, never user input.

func count(ctx context.Context, pool *pgxpool.Pool, table string, w *where) (int, error) {
	if err := ensurePool(pool); err != nil {
		return 0, err
	}
	var n int64
	if err := getQ(ctx, pool).QueryRow(ctx, `SELECT COUNT(*) FROM `+table+w.sql(), w.args...).Scan(&n); err != nil {
		return 0, repository.MapPgError(err)
	}
	return int(n), nil
}

func lastModified(ctx context.Context, pool *pgxpool.Pool, table string, w *where) (time.Time, bool, error) {
	if err := ensurePool(pool); err != nil {
		return time.Time{}, false, err
	}
	var ts *time.Time
	if err := getQ(ctx, pool).QueryRow(ctx, `SELECT MAX(updated_at) FROM `+table+w.sql(), w.args...).Scan(&ts); err != nil {
		return time.Time{}, false, repository.MapPgError(err)
	}
	if ts == nil {
		return time.Time{}, false, nil
	}
	return *ts, true, nil
}
