package repository

import (
	"context"
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// I prefer a single entry point to keep transaction boundaries explicit and testable.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// ItemFilter narrows item listings. Zero fields match everything.
type ItemFilter struct {
	Code string
	Name string // exact match
}

// StockFilter narrows stock listings. Zero fields match everything.
type StockFilter struct {
	ItemID  int64
	StoreID int64
	OwnerID int64
}

// AdjustmentFilter narrows adjustment listings on the adjustment's own columns.
type AdjustmentFilter struct {
	ItemID  int64
	StockID int64
	StoreID int64
	PartyID int64
	Type    model.AdjustmentType
	Reason  model.AdjustmentReason
}

// Every listing repository implements the pagination.Store read side:
// Count, Find (ordered by ascending id) and LastModified.

// ItemRepository declares persistence operations for items.
type ItemRepository interface {
	Create(ctx context.Context, it model.Item) (model.Item, error)
	GetByID(ctx context.Context, id int64) (model.Item, error)
	Count(ctx context.Context, f ItemFilter) (int, error)
	Find(ctx context.Context, f ItemFilter, skip, limit int) ([]model.Item, error)
	LastModified(ctx context.Context, f ItemFilter) (time.Time, bool, error)
}

// StockRepository declares persistence operations for stocks.
type StockRepository interface {
	Create(ctx context.Context, s model.Stock) (model.Stock, error)
	GetByID(ctx context.Context, id int64) (model.Stock, error)
	// AdjustQuantity atomically adds delta to the stock quantity.
	// It fails with ErrInsufficientQuantity when the result would drop below zero.
	AdjustQuantity(ctx context.Context, id int64, delta float64) (model.Stock, error)
	Count(ctx context.Context, f StockFilter) (int, error)
	Find(ctx context.Context, f StockFilter, skip, limit int) ([]model.Stock, error)
	LastModified(ctx context.Context, f StockFilter) (time.Time, bool, error)
}

// AdjustmentRepository declares persistence operations for adjustments.
type AdjustmentRepository interface {
	Create(ctx context.Context, a model.Adjustment) (model.Adjustment, error)
	GetByID(ctx context.Context, id int64) (model.Adjustment, error)
	Count(ctx context.Context, f AdjustmentFilter) (int, error)
	Find(ctx context.Context, f AdjustmentFilter, skip, limit int) ([]model.Adjustment, error)
	LastModified(ctx context.Context, f AdjustmentFilter) (time.Time, bool, error)
}

// Stores bundles one storage driver's repositories.
type Stores struct {
	Items       ItemRepository
	Stocks      StockRepository
	Adjustments AdjustmentRepository
	Tx          TxManager
	Pinger      Pinger
	Close       func()
}
