package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

const stockColumns = `id, item_id, store_id, owner_id, quantity, min_allowed, max_allowed, created_at, updated_at`

type stockRepository struct{ pool *pgxpool.Pool }

func NewStockRepository(pool *pgxpool.Pool) repository.StockRepository {
	return &stockRepository{pool: pool}
}

func scanStock(row pgx.Row) (model.Stock, error) {
	var s model.Stock
	err := row.Scan(&s.ID, &s.ItemID, &s.StoreID, &s.OwnerID, &s.Quantity, &s.MinAllowed, &s.MaxAllowed, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *stockRepository) Create(ctx context.Context, s model.Stock) (model.Stock, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Stock{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO stocks (item_id, store_id, owner_id, quantity, min_allowed, max_allowed)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+stockColumns,
		s.ItemID, s.StoreID, s.OwnerID, s.Quantity, s.MinAllowed, s.MaxAllowed,
	)
	out, err := scanStock(row)
	if err != nil {
		return model.Stock{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (model.Stock, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Stock{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+stockColumns+` FROM stocks WHERE id = $1`, id)
	out, err := scanStock(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Stock{}, repository.ErrNotFound
		}
		return model.Stock{}, repository.MapPgError(err)
	}
	return out, nil
}

// AdjustQuantity applies delta in a single guarded UPDATE so concurrent
// adjustments cannot drive the quantity negative.
func (r *stockRepository) AdjustQuantity(ctx context.Context, id int64, delta float64) (model.Stock, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Stock{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE stocks SET quantity = quantity + $2, updated_at = now()
		 WHERE id = $1 AND quantity + $2 >= 0
		 RETURNING `+stockColumns,
		id, delta,
	)
	out, err := scanStock(row)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.Stock{}, repository.MapPgError(err)
	}
	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM stocks WHERE id = $1)`, id).Scan(&exists); err != nil {
		return model.Stock{}, repository.MapPgError(err)
	}
	if !exists {
		return model.Stock{}, repository.ErrNotFound
	}
	return model.Stock{}, repository.ErrInsufficientQuantity
}

func stockWhere(f repository.StockFilter) *where {
	w := &where{}
	if f.ItemID != 0 {
		w.eq("item_id", f.ItemID)
	}
	if f.StoreID != 0 {
		w.eq("store_id", f.StoreID)
	}
	if f.OwnerID != 0 {
		w.eq("owner_id", f.OwnerID)
	}
	return w
}

func (r *stockRepository) Count(ctx context.Context, f repository.StockFilter) (int, error) {
	return count(ctx, r.pool, "stocks", stockWhere(f))
}

func (r *stockRepository) LastModified(ctx context.Context, f repository.StockFilter) (time.Time, bool, error) {
	return lastModified(ctx, r.pool, "stocks", stockWhere(f))
}

func (r *stockRepository) Find(ctx context.Context, f repository.StockFilter, skip, limit int) ([]model.Stock, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	w := stockWhere(f)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+stockColumns+` FROM stocks`+w.sql()+
			` ORDER BY id LIMIT `+w.next(1)+` OFFSET `+w.next(2),
		append(w.args, limit, skip)...,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.Stock, 0, windowCap(limit))
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.StockRepository = (*stockRepository)(nil)
