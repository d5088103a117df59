package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type stockService struct {
	stocks repository.StockRepository
	items  repository.ItemRepository
	lister *pagination.Lister[model.Stock, repository.StockFilter]
	log    zerolog.Logger
}

func NewStockService(stocks repository.StockRepository, items repository.ItemRepository, logger zerolog.Logger) StockService {
	l := logger.With().Str("module", "service").Str("component", "stock").Logger()
	return &stockService{
		stocks: stocks,
		items:  items,
		lister: pagination.NewLister[model.Stock, repository.StockFilter](stocks, logger),
		log:    l,
	}
}

func (s *stockService) CreateStock(ctx context.Context, in CreateStockInput) (model.Stock, error) {
	if err := validateStruct(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("stock validation failed (structure)")
		return model.Stock{}, err
	}
	if in.MaxAllowed > 0 && in.MinAllowed > in.MaxAllowed {
		return model.Stock{}, newInvalidInput([]FieldError{{Field: "min_allowed", Message: "must not exceed max_allowed"}})
	}

	// Existence check before attempting persistence.
	if _, err := s.items.GetByID(ctx, in.ItemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Stock{}, newInvalidInput([]FieldError{{Field: "item_id", Message: "item does not exist"}})
		}
		return model.Stock{}, err
	}

	out, err := s.stocks.Create(ctx, model.Stock{
		ItemID:     in.ItemID,
		StoreID:    in.StoreID,
		OwnerID:    in.OwnerID,
		Quantity:   in.Quantity,
		MinAllowed: in.MinAllowed,
		MaxAllowed: in.MaxAllowed,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("item_id", in.ItemID).Int64("store_id", in.StoreID).Msg("create stock failed")
		return model.Stock{}, err
	}
	return out, nil
}

func (s *stockService) GetStock(ctx context.Context, id int64) (model.Stock, error) {
	if err := invalidID(id); err != nil {
		return model.Stock{}, err
	}
	return s.stocks.GetByID(ctx, id)
}

func (s *stockService) ListStocks(ctx context.Context, req *pagination.Request[repository.StockFilter]) (pagination.Result[model.Stock], error) {
	res, err := s.lister.List(ctx, req)
	return res, listError(err)
}
