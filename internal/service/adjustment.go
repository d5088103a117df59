package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

type adjustmentService struct {
	adjustments repository.AdjustmentRepository
	stocks      repository.StockRepository
	tx          repository.TxManager
	lister      *pagination.Lister[model.Adjustment, repository.AdjustmentFilter]
	log         zerolog.Logger
}

func NewAdjustmentService(adjustments repository.AdjustmentRepository, stocks repository.StockRepository, tx repository.TxManager, logger zerolog.Logger) AdjustmentService {
	l := logger.With().Str("module", "service").Str("component", "adjustment").Logger()
	return &adjustmentService{
		adjustments: adjustments,
		stocks:      stocks,
		tx:          tx,
		lister:      pagination.NewLister[model.Adjustment, repository.AdjustmentFilter](adjustments, logger),
		log:         l,
	}
}

// CreateAdjustment applies the adjustment to its stock and records it in one transaction.
// A removal larger than the stock quantity fails with repository.ErrInsufficientQuantity
// and leaves the stock untouched.
func (s *adjustmentService) CreateAdjustment(ctx context.Context, in CreateAdjustmentInput) (model.Adjustment, error) {
	in.Type = model.AdjustmentType(strings.ToLower(strings.TrimSpace(string(in.Type))))
	in.Reason = model.AdjustmentReason(strings.ToLower(strings.TrimSpace(string(in.Reason))))
	if err := validateStruct(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("adjustment validation failed (structure)")
		return model.Adjustment{}, err
	}

	var out model.Adjustment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		stock, err := s.stocks.GetByID(ctx, in.StockID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newInvalidInput([]FieldError{{Field: "stock_id", Message: "stock does not exist"}})
			}
			return err
		}
		if in.ItemID != 0 && in.ItemID != stock.ItemID {
			return newInvalidInput([]FieldError{{Field: "item_id", Message: "does not match the stock item"}})
		}

		adj := model.Adjustment{
			ItemID:   stock.ItemID,
			StockID:  stock.ID,
			StoreID:  stock.StoreID,
			PartyID:  in.PartyID,
			Type:     in.Type,
			Reason:   in.Reason,
			Quantity: in.Quantity,
			Cost:     in.Cost,
			Price:    in.Price,
			Remarks:  strings.TrimSpace(in.Remarks),
		}
		if adj.PartyID == 0 {
			adj.PartyID = stock.OwnerID
		}

		if _, err := s.stocks.AdjustQuantity(ctx, stock.ID, adj.Delta()); err != nil {
			return err
		}
		created, err := s.adjustments.Create(ctx, adj)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("adjustment validation failed (existence)")
		} else {
			s.log.Error().Err(err).Int64("stock_id", in.StockID).Str("type", string(in.Type)).Msg("create adjustment failed")
		}
		return model.Adjustment{}, err
	}
	return out, nil
}

func (s *adjustmentService) GetAdjustment(ctx context.Context, id int64) (model.Adjustment, error) {
	if err := invalidID(id); err != nil {
		return model.Adjustment{}, err
	}
	return s.adjustments.GetByID(ctx, id)
}

func (s *adjustmentService) ListAdjustments(ctx context.Context, req *pagination.Request[repository.AdjustmentFilter]) (pagination.Result[model.Adjustment], error) {
	res, err := s.lister.List(ctx, req)
	return res, listError(err)
}
