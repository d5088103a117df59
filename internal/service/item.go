package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

const defaultUOM = "unit"

type itemService struct {
	items  repository.ItemRepository
	lister *pagination.Lister[model.Item, repository.ItemFilter]
	log    zerolog.Logger
}

func NewItemService(items repository.ItemRepository, logger zerolog.Logger) ItemService {
	l := logger.With().Str("module", "service").Str("component", "item").Logger()
	return &itemService{
		items:  items,
		lister: pagination.NewLister[model.Item, repository.ItemFilter](items, logger),
		log:    l,
	}
}

func (s *itemService) CreateItem(ctx context.Context, in CreateItemInput) (model.Item, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.UOM = strings.TrimSpace(in.UOM)
	if err := validateStruct(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("item validation failed")
		return model.Item{}, err
	}
	if in.UOM == "" {
		in.UOM = defaultUOM
	}
	out, err := s.items.Create(ctx, model.Item{Code: in.Code, Name: in.Name, UOM: in.UOM, Description: in.Description})
	if err != nil {
		s.log.Error().Err(err).Str("code", in.Code).Msg("create item failed")
		return model.Item{}, err
	}
	return out, nil
}

func (s *itemService) GetItem(ctx context.Context, id int64) (model.Item, error) {
	if err := invalidID(id); err != nil {
		return model.Item{}, err
	}
	return s.items.GetByID(ctx, id)
}

func (s *itemService) ListItems(ctx context.Context, req *pagination.Request[repository.ItemFilter]) (pagination.Result[model.Item], error) {
	res, err := s.lister.List(ctx, req)
	return res, listError(err)
}
