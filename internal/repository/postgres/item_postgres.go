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

const itemColumns = `id, code, name, uom, description, created_at, updated_at`

type itemRepository struct{ pool *pgxpool.Pool }

func NewItemRepository(pool *pgxpool.Pool) repository.ItemRepository {
	return &itemRepository{pool: pool}
}

func scanItem(row pgx.Row) (model.Item, error) {
	var it model.Item
	err := row.Scan(&it.ID, &it.Code, &it.Name, &it.UOM, &it.Description, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func (r *itemRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Item{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx,
		`INSERT INTO items (code, name, uom, description) VALUES ($1, $2, $3, $4)
		 RETURNING `+itemColumns,
		it.Code, it.Name, it.UOM, it.Description,
	)
	out, err := scanItem(row)
	if err != nil {
		return model.Item{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (model.Item, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Item{}, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	out, err := scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Item{}, repository.ErrNotFound
		}
		return model.Item{}, repository.MapPgError(err)
	}
	return out, nil
}

func itemWhere(f repository.ItemFilter) *where {
	w := &where{}
	if f.Code != "" {
		w.eq("code", f.Code)
	}
	if f.Name != "" {
		w.eq("name", f.Name)
	}
	return w
}

func (r *itemRepository) Count(ctx context.Context, f repository.ItemFilter) (int, error) {
	return count(ctx, r.pool, "items", itemWhere(f))
}

func (r *itemRepository) LastModified(ctx context.Context, f repository.ItemFilter) (time.Time, bool, error) {
	return lastModified(ctx, r.pool, "items", itemWhere(f))
}

func (r *itemRepository) Find(ctx context.Context, f repository.ItemFilter, skip, limit int) ([]model.Item, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	w := itemWhere(f)
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+itemColumns+` FROM items`+w.sql()+
			` ORDER BY id LIMIT `+w.next(1)+` OFFSET `+w.next(2),
		append(w.args, limit, skip)...,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.Item, 0, windowCap(limit))
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.ItemRepository = (*itemRepository)(nil)
