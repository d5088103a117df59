// Package memory keeps every record in process memory. It backs local runs and
// tests that need real repository semantics without a database.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

// Store holds items, stocks and adjustments in insertion (ascending id) order.
//
// Writers are serialised by txMu; a transaction holds it for its whole run and
// restores a snapshot on failure. Readers only take mu and may observe a
// transaction's uncommitted writes.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	items       []model.Item
	stocks      []model.Stock
	adjustments []model.Adjustment
	seq         [3]int64 // per-table id sequences

	now func() time.Time
}

func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// Stores exposes the store through the repository interfaces.
func (s *Store) Stores() repository.Stores {
	return repository.Stores{
		Items:       &itemRepository{s: s},
		Stocks:      &stockRepository{s: s},
		Adjustments: &adjustmentRepository{s: s},
		Tx:          s,
		Pinger:      s,
		Close:       func() {},
	}
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type snapshot struct {
	items       []model.Item
	stocks      []model.Stock
	adjustments []model.Adjustment
	seq         [3]int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		items:       append([]model.Item(nil), s.items...),
		stocks:      append([]model.Stock(nil), s.stocks...),
		adjustments: append([]model.Adjustment(nil), s.adjustments...),
		seq:         s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items, s.stocks, s.adjustments, s.seq = snap.items, snap.stocks, snap.adjustments, snap.seq
}

// WithinTx runs fn atomically with respect to other writers; nested calls join the outer one.
func (s *Store) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// write runs one mutation under both locks unless ctx already owns the writer lock.
func (s *Store) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
	return nil
}

const (
	itemsTable = iota
	stocksTable
	adjustmentsTable
)

// nextID must be called with mu held.
func (s *Store) nextID(table int) int64 {
	s.seq[table]++
	return s.seq[table]
}

// matching returns the records accepted by match, in order.
func matching[T any](recs []T, match func(T) bool) []T {
	out := make([]T, 0)
	for _, r := range recs {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// window slices recs to [skip, skip+limit) without exceeding its bounds.
func window[T any](recs []T, skip, limit int) []T {
	if skip >= len(recs) || limit <= 0 {
		return []T{}
	}
	end := len(recs)
	if limit < end-skip {
		end = skip + limit
	}
	return append([]T(nil), recs[skip:end]...)
}

// newest reports the greatest LastModifiedAt among recs.
func newest[T interface{ LastModifiedAt() time.Time }](recs []T) (time.Time, bool) {
	var ts time.Time
	for _, r := range recs {
		if t := r.LastModifiedAt(); t.After(ts) {
			ts = t
		}
	}
	return ts, len(recs) > 0
}

func find[T any](recs []T, id func(T) int64, want int64) (int, bool) {
	for i, r := range recs {
		if id(r) == want {
			return i, true
		}
	}
	return 0, false
}

var (
	_ repository.TxManager = (*Store)(nil)
	_ repository.Pinger    = (*Store)(nil)
)
