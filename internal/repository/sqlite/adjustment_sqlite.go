package sqlite

import (
	"context"
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type adjustmentRepository struct{ db *DB }

func (r *adjustmentRepository) Create(ctx context.Context, a model.Adjustment) (model.Adjustment, error) {
	row := newAdjustmentRow(a)
	if err := r.db.conn(ctx).Create(&row).Error; err != nil {
		return model.Adjustment{}, mapError(err)
	}
	return row.model(), nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id int64) (model.Adjustment, error) {
	var row adjustmentRow
	if err := r.db.conn(ctx).First(&row, id).Error; err != nil {
		return model.Adjustment{}, mapError(err)
	}
	return row.model(), nil
}

func adjustmentScopes(f repository.AdjustmentFilter) []scope {
	return []scope{
		eq("item_id", f.ItemID),
		eq("stock_id", f.StockID),
		eq("store_id", f.StoreID),
		eq("party_id", f.PartyID),
		eq("type", string(f.Type)),
		eq("reason", string(f.Reason)),
	}
}

func (r *adjustmentRepository) Count(ctx context.Context, f repository.AdjustmentFilter) (int, error) {
	return count(r.db.conn(ctx), &adjustmentRow{}, adjustmentScopes(f)...)
}

func (r *adjustmentRepository) LastModified(ctx context.Context, f repository.AdjustmentFilter) (time.Time, bool, error) {
	return lastModified(r.db.conn(ctx), &adjustmentRow{}, adjustmentScopes(f)...)
}

func (r *adjustmentRepository) Find(ctx context.Context, f repository.AdjustmentFilter, skip, limit int) ([]model.Adjustment, error) {
	var rows []adjustmentRow
	err := r.db.conn(ctx).Scopes(adjustmentScopes(f)...).Scopes(window(skip, limit)).Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]model.Adjustment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

var _ repository.AdjustmentRepository = (*adjustmentRepository)(nil)
