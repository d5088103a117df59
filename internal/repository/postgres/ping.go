package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type pinger struct{ pool *pgxpool.Pool }

// NewPinger adapts pgxpool to the repository.Pinger interface.
func NewPinger(pool *pgxpool.Pool) repository.Pinger { return &pinger{pool: pool} }

func (p *pinger) Ping(ctx context.Context) error {
	if err := ensurePool(p.pool); err != nil {
		return err
	}
	return repository.MapPgError(p.pool.Ping(ctx))
}

// NewStores wires every postgres repository onto one pool.
// Close is left to the owner of the pool.
func NewStores(pool *pgxpool.Pool) repository.Stores {
	return repository.Stores{
		Items:       NewItemRepository(pool),
		Stocks:      NewStockRepository(pool),
		Adjustments: NewAdjustmentRepository(pool),
		Tx:          NewTxManager(pool),
		Pinger:      NewPinger(pool),
		Close:       func() {},
	}
}
