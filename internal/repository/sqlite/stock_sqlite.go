package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type stockRepository struct{ db *DB }

func (r *stockRepository) Create(ctx context.Context, s model.Stock) (model.Stock, error) {
	row := newStockRow(s)
	if err := r.db.conn(ctx).Create(&row).Error; err != nil {
		return model.Stock{}, mapError(err)
	}
	return row.model(), nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (model.Stock, error) {
	var row stockRow
	if err := r.db.conn(ctx).First(&row, id).Error; err != nil {
		return model.Stock{}, mapError(err)
	}
	return row.model(), nil
}

// AdjustQuantity applies delta with a guarded UPDATE and reloads the row in the same transaction.
func (r *stockRepository) AdjustQuantity(ctx context.Context, id int64, delta float64) (model.Stock, error) {
	var row stockRow
	err := r.db.WithinTx(ctx, func(ctx context.Context) error {
		db := r.db.conn(ctx)
		res := db.Model(&stockRow{}).
			Where("id = ? AND quantity + ? >= 0", id, delta).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": db.NowFunc().UnixNano(),
			})
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := db.Model(&stockRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
				return mapError(err)
			}
			if n == 0 {
				return repository.ErrNotFound
			}
			return repository.ErrInsufficientQuantity
		}
		return mapError(db.First(&row, id).Error)
	})
	if err != nil {
		return model.Stock{}, err
	}
	return row.model(), nil
}

func stockScopes(f repository.StockFilter) []scope {
	return []scope{eq("item_id", f.ItemID), eq("store_id", f.StoreID), eq("owner_id", f.OwnerID)}
}

func (r *stockRepository) Count(ctx context.Context, f repository.StockFilter) (int, error) {
	return count(r.db.conn(ctx), &stockRow{}, stockScopes(f)...)
}

func (r *stockRepository) LastModified(ctx context.Context, f repository.StockFilter) (time.Time, bool, error) {
	return lastModified(r.db.conn(ctx), &stockRow{}, stockScopes(f)...)
}

func (r *stockRepository) Find(ctx context.Context, f repository.StockFilter, skip, limit int) ([]model.Stock, error) {
	var rows []stockRow
	err := r.db.conn(ctx).Scopes(stockScopes(f)...).Scopes(window(skip, limit)).Find(&rows).Error
	if err != nil {
		return nil, mapError(err)
	}
	out := make([]model.Stock, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.model())
	}
	return out, nil
}

var _ repository.StockRepository = (*stockRepository)(nil)
