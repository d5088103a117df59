package sqlite

import (
	"context"
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type itemRepository struct{ db *DB }

func (r *itemRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	row := newItemRow(it)
	if err := r.db.conn(ctx).Create(&row).Error; err != nil {
		return model.Item{}, mapError(err)
	}
	return row.model(), nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (model.Item, error) {
	var row itemRow
	if err := r.db.conn(ctx).First(&row, id).Error; err != nil {
		return model.Item{}, mapError(err)
	}
	return row.model(), nil
}

func itemScopes(f repository.ItemFilter) []scope {
	return []scope{eq("code", f.Code), eq("name", f.Name)}
}

func (r *itemRepository) Count(ctx context.Context, f repository.ItemFilter) (int, error) {
	return count(r.db.conn(ctx), &itemRow{}, itemScopes(f)...)
}

func (r *itemRepository) LastModified(ctx context.Context, f repository.ItemFilter) (time.Time, bool, error) {
	return lastModified(r.db.conn(ctx), &itemRow{}, itemScopes(f)...)
}

func (r *itemRepository) Find(ctx context.Context, f repository.ItemFilter, skip, limit int) ([]model.Item, error) {
	var rows []itemRow
	err := r.db.conn(ctx).Scopes(itemScopes(f)...).Scopes(window(skip, limit)).Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

var _ repository.ItemRepository = (*itemRepository)(nil)
