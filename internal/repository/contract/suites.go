// Package contract holds behaviour suites every storage driver must pass.
package contract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

// StoresFactory returns a fresh, empty set of repositories and its cleanup.
type StoresFactory func(t *testing.T) (repository.Stores, func())

// Fixture is one seeded item/stock/adjustment triple.
type Fixture struct {
	Item       model.Item
	Stock      model.Stock
	Adjustment model.Adjustment
}

// Seed inserts n items, one stock per item and one adjustment per stock.
func Seed(t *testing.T, s repository.Stores, n int) []Fixture {
	t.Helper()
	ctx := context.Background()
	out := make([]Fixture, 0, n)
	for i := 0; i < n; i++ {
		it, err := s.Items.Create(ctx, model.Item{Code: fmt.Sprintf("ITM-%03d", i), Name: fmt.Sprintf("Item %d", i), UOM: "unit"})
		require.NoError(t, err, "seed item %d", i)
		st, err := s.Stocks.Create(ctx, model.Stock{ItemID: it.ID, StoreID: 1, OwnerID: 7, Quantity: 100})
		require.NoError(t, err, "seed stock %d", i)
		typ, reason := model.AdjustmentAddition, model.ReasonPurchased
		if i%3 == 0 {
			typ, reason = model.AdjustmentRemoval, model.ReasonDamaged
		}
		adj, err := s.Adjustments.Create(ctx, model.Adjustment{
			ItemID: it.ID, StockID: st.ID, StoreID: st.StoreID, PartyID: st.OwnerID,
			Type: typ, Reason: reason, Quantity: float64(i%5 + 1), Cost: 2.5, Price: 3,
		})
		require.NoError(t, err, "seed adjustment %d", i)
		out = append(out, Fixture{Item: it, Stock: st, Adjustment: adj})
	}
	return out
}

func RunItemRepositoryContract(t *testing.T, makeStores StoresFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := s.Items.Create(ctx, model.Item{Code: "TENT-01", Name: "Family tent", UOM: "piece"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.UpdatedAt.IsZero())

		got, err := s.Items.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Code, got.Code)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("get_not_found", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		_, err := s.Items.GetByID(context.Background(), 999999)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("duplicate_code", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		_, err := s.Items.Create(ctx, model.Item{Code: "DUP", Name: "a", UOM: "unit"})
		require.NoError(t, err)
		_, err = s.Items.Create(ctx, model.Item{Code: "DUP", Name: "b", UOM: "unit"})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("filter_by_code", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		Seed(t, s, 5)
		ctx := context.Background()
		n, err := s.Items.Count(ctx, repository.ItemFilter{Code: "ITM-003"})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		items, err := s.Items.Find(ctx, repository.ItemFilter{Code: "ITM-003"}, 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Item 3", items[0].Name)
	})
}

func RunStockRepositoryContract(t *testing.T, makeStores StoresFactory) {
	t.Helper()

	t.Run("adjust_quantity", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		ctx := context.Background()

		up, err := s.Stocks.AdjustQuantity(ctx, fx.Stock.ID, 25)
		require.NoError(t, err)
		assert.InDelta(t, 125, up.Quantity, 1e-9)
		assert.False(t, up.UpdatedAt.Before(fx.Stock.UpdatedAt))

		down, err := s.Stocks.AdjustQuantity(ctx, fx.Stock.ID, -125)
		require.NoError(t, err)
		assert.InDelta(t, 0, down.Quantity, 1e-9)
	})

	t.Run("adjust_quantity_insufficient", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		ctx := context.Background()

		_, err := s.Stocks.AdjustQuantity(ctx, fx.Stock.ID, -100.5)
		assert.ErrorIs(t, err, repository.ErrInsufficientQuantity)
		assert.ErrorIs(t, err, repository.ErrConflict)

		got, err := s.Stocks.GetByID(ctx, fx.Stock.ID)
		require.NoError(t, err)
		assert.InDelta(t, 100, got.Quantity, 1e-9)
	})

	t.Run("adjust_quantity_not_found", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		_, err := s.Stocks.AdjustQuantity(context.Background(), 424242, 1)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("duplicate_store_item", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		_, err := s.Stocks.Create(context.Background(), model.Stock{ItemID: fx.Item.ID, StoreID: fx.Stock.StoreID})
		assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	})

	t.Run("filter_by_item", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fxs := Seed(t, s, 4)
		stocks, err := s.Stocks.Find(context.Background(), repository.StockFilter{ItemID: fxs[2].Item.ID}, 0, 10)
		require.NoError(t, err)
		require.Len(t, stocks, 1)
		assert.Equal(t, fxs[2].Stock.ID, stocks[0].ID)
	})
}

func RunAdjustmentRepositoryContract(t *testing.T, makeStores StoresFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		got, err := s.Adjustments.GetByID(context.Background(), fx.Adjustment.ID)
		require.NoError(t, err)
		assert.Equal(t, fx.Adjustment.ID, got.ID)
		assert.Equal(t, fx.Adjustment.Type, got.Type)
		assert.Equal(t, fx.Adjustment.Reason, got.Reason)
		assert.Equal(t, fx.Stock.ID, got.StockID)
	})

	t.Run("get_not_found", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		_, err := s.Adjustments.GetByID(context.Background(), 31337)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("get_without_options", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		Seed(t, s, 32)
		lister := pagination.NewLister[model.Adjustment, repository.AdjustmentFilter](s.Adjustments, zerolog.New(io.Discard))

		res, err := lister.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, res.Data, 10)
		assert.Equal(t, 32, res.Total)
		assert.Equal(t, 10, res.Limit)
		assert.Equal(t, 0, res.Skip)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 4, res.Pages)
		require.NotNil(t, res.LastModified)
		assert.False(t, newest(res.Data).After(*res.LastModified))
	})

	t.Run("get_with_options", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		Seed(t, s, 32)
		lister := pagination.NewLister[model.Adjustment, repository.AdjustmentFilter](s.Adjustments, zerolog.New(io.Discard))

		res, err := lister.List(context.Background(), &pagination.Request[repository.AdjustmentFilter]{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Len(t, res.Data, 20)
		assert.Equal(t, 32, res.Total)
		assert.Equal(t, 20, res.Limit)
		assert.Equal(t, 0, res.Skip)
		assert.Equal(t, 1, res.Page)
		assert.Equal(t, 2, res.Pages)
		require.NotNil(t, res.LastModified)
		assert.False(t, newest(res.Data).After(*res.LastModified))
	})

	t.Run("get_empty", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		lister := pagination.NewLister[model.Adjustment, repository.AdjustmentFilter](s.Adjustments, zerolog.New(io.Discard))

		res, err := lister.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, res.Data)
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 0, res.Pages)
		assert.Nil(t, res.LastModified)
	})

	t.Run("pages_are_ordered_and_disjoint", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fxs := Seed(t, s, 23)
		var ids []int64
		for skip := 0; skip < 30; skip += 10 {
			page, err := s.Adjustments.Find(context.Background(), repository.AdjustmentFilter{}, skip, 10)
			require.NoError(t, err)
			for _, a := range page {
				ids = append(ids, a.ID)
			}
		}
		require.Len(t, ids, len(fxs))
		for i, fx := range fxs {
			assert.Equal(t, fx.Adjustment.ID, ids[i])
		}
	})

	t.Run("filters", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fxs := Seed(t, s, 32)
		ctx := context.Background()

		n, err := s.Adjustments.Count(ctx, repository.AdjustmentFilter{ItemID: fxs[0].Item.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		// every third fixture is a removal: 0,3,...,30
		n, err = s.Adjustments.Count(ctx, repository.AdjustmentFilter{Type: model.AdjustmentRemoval})
		require.NoError(t, err)
		assert.Equal(t, 11, n)

		n, err = s.Adjustments.Count(ctx, repository.AdjustmentFilter{Type: model.AdjustmentRemoval, Reason: model.ReasonPurchased})
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		_, ok, err := s.Adjustments.LastModified(ctx, repository.AdjustmentFilter{PartyID: 99})
		require.NoError(t, err)
		assert.False(t, ok)

		ts, ok, err := s.Adjustments.LastModified(ctx, repository.AdjustmentFilter{StockID: fxs[5].Stock.ID})
		require.NoError(t, err)
		require.True(t, ok)
		assert.WithinDuration(t, fxs[5].Adjustment.UpdatedAt, ts, time.Millisecond)
	})
}

func RunTxManagerContract(t *testing.T, makeStores StoresFactory) {
	t.Helper()

	t.Run("commit", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		ctx := context.Background()
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := s.Stocks.AdjustQuantity(ctx, fx.Stock.ID, -10)
			return err
		})
		require.NoError(t, err)
		got, err := s.Stocks.GetByID(ctx, fx.Stock.ID)
		require.NoError(t, err)
		assert.InDelta(t, 90, got.Quantity, 1e-9)
	})

	t.Run("rollback", func(t *testing.T) {
		s, cleanup := makeStores(t)
		t.Cleanup(cleanup)
		fx := Seed(t, s, 1)[0]
		ctx := context.Background()
		boom := errors.New("boom")
		err := s.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := s.Stocks.AdjustQuantity(ctx, fx.Stock.ID, -10); err != nil {
				return err
			}
			if _, err := s.Items.Create(ctx, model.Item{Code: "ROLLED", Name: "x", UOM: "unit"}); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := s.Stocks.GetByID(ctx, fx.Stock.ID)
		require.NoError(t, err)
		assert.InDelta(t, 100, got.Quantity, 1e-9)
		n, err := s.Items.Count(ctx, repository.ItemFilter{Code: "ROLLED"})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func RunPingerContract(t *testing.T, makeStores StoresFactory) {
	t.Helper()
	s, cleanup := makeStores(t)
	t.Cleanup(cleanup)
	assert.NoError(t, s.Pinger.Ping(context.Background()))
}

// RunAll runs every suite above.
func RunAll(t *testing.T, makeStores StoresFactory) {
	t.Run("items", func(t *testing.T) { RunItemRepositoryContract(t, makeStores) })
	t.Run("stocks", func(t *testing.T) { RunStockRepositoryContract(t, makeStores) })
	t.Run("adjustments", func(t *testing.T) { RunAdjustmentRepositoryContract(t, makeStores) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, makeStores) })
	t.Run("ping", func(t *testing.T) { RunPingerContract(t, makeStores) })
}

func newest(data []model.Adjustment) time.Time {
	var ts time.Time
	for _, a := range data {
		if a.UpdatedAt.After(ts) {
			ts = a.UpdatedAt
		}
	}
	return ts
}
