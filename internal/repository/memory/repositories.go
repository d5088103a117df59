package memory

import (
	"context"
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

func itemID(it model.Item) int64            { return it.ID }
func stockID(st model.Stock) int64          { return st.ID }
func adjustmentID(a model.Adjustment) int64 { return a.ID }

type itemRepository struct{ s *Store }

func (r *itemRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	err := r.s.write(ctx, func() error {
		for _, existing := range r.s.items {
			if existing.Code == it.Code {
				return repository.ErrAlreadyExists
			}
		}
		now := r.s.now()
		it.ID, it.CreatedAt, it.UpdatedAt = r.s.nextID(itemsTable), now, now
		r.s.items = append(r.s.items, it)
		return nil
	})
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (model.Item, error) {
	var (
		out model.Item
		ok  bool
	)
	if err := r.s.read(ctx, func() {
		var i int
		if i, ok = find(r.s.items, itemID, id); ok {
			out = r.s.items[i]
		}
	}); err != nil {
		return model.Item{}, err
	}
	if !ok {
		return model.Item{}, repository.ErrNotFound
	}
	return out, nil
}

func matchItem(f repository.ItemFilter) func(model.Item) bool {
	return func(it model.Item) bool {
		return (f.Code == "" || it.Code == f.Code) && (f.Name == "" || it.Name == f.Name)
	}
}

func (r *itemRepository) Count(ctx context.Context, f repository.ItemFilter) (n int, err error) {
	err = r.s.read(ctx, func() { n = len(matching(r.s.items, matchItem(f))) })
	return n, err
}

func (r *itemRepository) Find(ctx context.Context, f repository.ItemFilter, skip, limit int) (out []model.Item, err error) {
	err = r.s.read(ctx, func() { out = window(matching(r.s.items, matchItem(f)), skip, limit) })
	return out, err
}

func (r *itemRepository) LastModified(ctx context.Context, f repository.ItemFilter) (ts time.Time, ok bool, err error) {
	err = r.s.read(ctx, func() { ts, ok = newest(matching(r.s.items, matchItem(f))) })
	return ts, ok, err
}

type stockRepository struct{ s *Store }

func (r *stockRepository) Create(ctx context.Context, st model.Stock) (model.Stock, error) {
	err := r.s.write(ctx, func() error {
		if _, ok := find(r.s.items, itemID, st.ItemID); !ok {
			return repository.ErrConflict
		}
		for _, existing := range r.s.stocks {
			if existing.StoreID == st.StoreID && existing.ItemID == st.ItemID {
				return repository.ErrAlreadyExists
			}
		}
		now := r.s.now()
		st.ID, st.CreatedAt, st.UpdatedAt = r.s.nextID(stocksTable), now, now
		r.s.stocks = append(r.s.stocks, st)
		return nil
	})
	if err != nil {
		return model.Stock{}, err
	}
	return st, nil
}

func (r *stockRepository) GetByID(ctx context.Context, id int64) (model.Stock, error) {
	var (
		out model.Stock
		ok  bool
	)
	if err := r.s.read(ctx, func() {
		var i int
		if i, ok = find(r.s.stocks, stockID, id); ok {
			out = r.s.stocks[i]
		}
	}); err != nil {
		return model.Stock{}, err
	}
	if !ok {
		return model.Stock{}, repository.ErrNotFound
	}
	return out, nil
}

func (r *stockRepository) AdjustQuantity(ctx context.Context, id int64, delta float64) (model.Stock, error) {
	var out model.Stock
	err := r.s.write(ctx, func() error {
		i, ok := find(r.s.stocks, stockID, id)
		if !ok {
			return repository.ErrNotFound
		}
		st := r.s.stocks[i]
		if st.Quantity+delta < 0 {
			return repository.ErrInsufficientQuantity
		}
		st.Quantity += delta
		st.UpdatedAt = r.s.now()
		r.s.stocks[i] = st
		out = st
		return nil
	})
	if err != nil {
		return model.Stock{}, err
	}
	return out, nil
}

func matchStock(f repository.StockFilter) func(model.Stock) bool {
	return func(st model.Stock) bool {
		return (f.ItemID == 0 || st.ItemID == f.ItemID) &&
			(f.StoreID == 0 || st.StoreID == f.StoreID) &&
			(f.OwnerID == 0 || st.OwnerID == f.OwnerID)
	}
}

func (r *stockRepository) Count(ctx context.Context, f repository.StockFilter) (n int, err error) {
	err = r.s.read(ctx, func() { n = len(matching(r.s.stocks, matchStock(f))) })
	return n, err
}

func (r *stockRepository) Find(ctx context.Context, f repository.StockFilter, skip, limit int) (out []model.Stock, err error) {
	err = r.s.read(ctx, func() { out = window(matching(r.s.stocks, matchStock(f)), skip, limit) })
	return out, err
}

func (r *stockRepository) LastModified(ctx context.Context, f repository.StockFilter) (ts time.Time, ok bool, err error) {
	err = r.s.read(ctx, func() { ts, ok = newest(matching(r.s.stocks, matchStock(f))) })
	return ts, ok, err
}

type adjustmentRepository struct{ s *Store }

func (r *adjustmentRepository) Create(ctx context.Context, a model.Adjustment) (model.Adjustment, error) {
	err := r.s.write(ctx, func() error {
		if _, ok := find(r.s.items, itemID, a.ItemID); !ok {
			return repository.ErrConflict
		}
		if _, ok := find(r.s.stocks, stockID, a.StockID); !ok {
			return repository.ErrConflict
		}
		now := r.s.now()
		a.ID, a.CreatedAt, a.UpdatedAt = r.s.nextID(adjustmentsTable), now, now
		r.s.adjustments = append(r.s.adjustments, a)
		return nil
	})
	if err != nil {
		return model.Adjustment{}, err
	}
	return a, nil
}

func (r *adjustmentRepository) GetByID(ctx context.Context, id int64) (model.Adjustment, error) {
	var (
		out model.Adjustment
		ok  bool
	)
	if err := r.s.read(ctx, func() {
		var i int
		if i, ok = find(r.s.adjustments, adjustmentID, id); ok {
			out = r.s.adjustments[i]
		}
	}); err != nil {
		return model.Adjustment{}, err
	}
	if !ok {
		return model.Adjustment{}, repository.ErrNotFound
	}
	return out, nil
}

func matchAdjustment(f repository.AdjustmentFilter) func(model.Adjustment) bool {
	return func(a model.Adjustment) bool {
		return (f.ItemID == 0 || a.ItemID == f.ItemID) &&
			(f.StockID == 0 || a.StockID == f.StockID) &&
			(f.StoreID == 0 || a.StoreID == f.StoreID) &&
			(f.PartyID == 0 || a.PartyID == f.PartyID) &&
			(f.Type == "" || a.Type == f.Type) &&
			(f.Reason == "" || a.Reason == f.Reason)
	}
}

func (r *adjustmentRepository) Count(ctx context.Context, f repository.AdjustmentFilter) (n int, err error) {
	err = r.s.read(ctx, func() { n = len(matching(r.s.adjustments, matchAdjustment(f))) })
	return n, err
}

func (r *adjustmentRepository) Find(ctx context.Context, f repository.AdjustmentFilter, skip, limit int) (out []model.Adjustment, err error) {
	err = r.s.read(ctx, func() { out = window(matching(r.s.adjustments, matchAdjustment(f)), skip, limit) })
	return out, err
}

func (r *adjustmentRepository) LastModified(ctx context.Context, f repository.AdjustmentFilter) (ts time.Time, ok bool, err error) {
	err = r.s.read(ctx, func() { ts, ok = newest(matching(r.s.adjustments, matchAdjustment(f))) })
	return ts, ok, err
}

var (
	_ repository.ItemRepository       = (*itemRepository)(nil)
	_ repository.StockRepository      = (*stockRepository)(nil)
	_ repository.AdjustmentRepository = (*adjustmentRepository)(nil)
)
