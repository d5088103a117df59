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

const adjustmentColumns = `id, item_id, stock_id, store_id, party_id, type, reason, quantity, cost, price, remarks, created_at, updated_at`

type adjustmentRepository struct{ pool *pgxpool.Pool }

func NewAdjustmentRepository(pool *pgxpool.Pool) repository.AdjustmentRepository {
	return &adjustmentRepository{pool: pool}
}

func scanAdjustment(row pgx.Row) (model.Adjustment, error) {
	var a model.Adjustment
	err := row.Scan(&a.ID, &a.ItemID, &a.StockID, &a.StoreID, &a.PartyID, &a.Type, &a.Reason,
		&a.Quantity, &a.Cost, &a.Price, &a.Remarks, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *adjustmentRepository) Create(ctx context.Context, a model.Adjustment) (model.Adjustment, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Adjustment{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO adjustments (item_id, stock_id, store_id, party_id, type, reason, quantity, cost, price, remarks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+adjustmentColumns,
		a.ItemID, a.StockID, a.StoreID, a.PartyID, string(a.Type), string(a.Reason),
		a.Quantity, a.Cost, a.Price, a.Remarks,
	)
	out, err := scanAdjustment(row)
	if err != nil {
		return model.Adjustment{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id int64) (model.Adjustment, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Adjustment{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+adjustmentColumns+` FROM adjustments WHERE id = $1`, id)
	out, err := scanAdjustment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Adjustment{}, repository.ErrNotFound
		}
		return model.Adjustment{}, repository.MapPgError(err)
	}
	return out, nil
}

func adjustmentWhere(f repository.AdjustmentFilter) *where {
	w := &where{}
	if f.ItemID != 0 {
		w.eq("item_id", f.ItemID)
	}
	if f.StockID != 0 {
		w.eq("stock_id", f.StockID)
	}
	if f.StoreID != 0 {
		w.eq("store_id", f.StoreID)
	}
	if f.PartyID != 0 {
		w.eq("party_id", f.PartyID)
	}
	if f.Type != "" {
		w.eq("type", string(f.Type))
	}
	if f.Reason != "" {
		w.eq("reason", string(f.Reason))
	}
	return w
}

func (r *adjustmentRepository) Count(ctx context.Context, f repository.AdjustmentFilter) (int, error) {
	return count(ctx, r.pool, "adjustments", adjustmentWhere(f))
}

func (r *adjustmentRepository) LastModified(ctx context.Context, f repository.AdjustmentFilter) (time.Time, bool, error) {
	return lastModified(ctx, r.pool, "adjustments", adjustmentWhere(f))
}

// Find returns one window of matches ordered by id, i.e. insertion order.
func (r *adjustmentRepository) Find(ctx context.Context, f repository.AdjustmentFilter, skip, limit int) ([]model.Adjustment, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	w := adjustmentWhere(f)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+adjustmentColumns+` FROM adjustments`+w.sql()+
			` ORDER BY id LIMIT `+w.next(1)+` OFFSET `+w.next(2),
		append(w.args, limit, skip)...,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.Adjustment, 0, windowCap(limit))
	for rows.Next() {
		a, err := scanAdjustment(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.AdjustmentRepository = (*adjustmentRepository)(nil)
