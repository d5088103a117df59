// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
	"github.com/maxviazov/stock-adjustment-service/internal/pagination"
	"github.com/maxviazov/stock-adjustment-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
// Handlers use it for malformed query strings the service never sees.
func NewInvalidInputError(fe ...FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

func newInvalidInput(fe []FieldError) error { return NewInvalidInputError(fe...) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// ItemService defines item catalogue use cases.
type ItemService interface {
	CreateItem(ctx context.Context, in CreateItemInput) (model.Item, error)
	GetItem(ctx context.Context, id int64) (model.Item, error)
	ListItems(ctx context.Context, req *pagination.Request[repository.ItemFilter]) (pagination.Result[model.Item], error)
}

// StockService defines stock level use cases.
type StockService interface {
	CreateStock(ctx context.Context, in CreateStockInput) (model.Stock, error)
	GetStock(ctx context.Context, id int64) (model.Stock, error)
	ListStocks(ctx context.Context, req *pagination.Request[repository.StockFilter]) (pagination.Result[model.Stock], error)
}

// AdjustmentService defines stock adjustment use cases.
type AdjustmentService interface {
	CreateAdjustment(ctx context.Context, in CreateAdjustmentInput) (model.Adjustment, error)
	GetAdjustment(ctx context.Context, id int64) (model.Adjustment, error)
	ListAdjustments(ctx context.Context, req *pagination.Request[repository.AdjustmentFilter]) (pagination.Result[model.Adjustment], error)
}

// CreateItemInput is the payload accepted by CreateItem.
type CreateItemInput struct {
	Code        string `json:"code" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,min=2,max=200"`
	UOM         string `json:"uom" validate:"omitempty,max=32"`
	Description string `json:"description" validate:"max=2000"`
}

// CreateStockInput is the payload accepted by CreateStock.
type CreateStockInput struct {
	ItemID     int64   `json:"item_id" validate:"required,gt=0"`
	StoreID    int64   `json:"store_id" validate:"required,gt=0"`
	OwnerID    int64   `json:"owner_id" validate:"gte=0"`
	Quantity   float64 `json:"quantity" validate:"gte=0"`
	MinAllowed float64 `json:"min_allowed" validate:"gte=0"`
	MaxAllowed float64 `json:"max_allowed" validate:"gte=0"`
}

// CreateAdjustmentInput is the payload accepted by CreateAdjustment.
// ItemID is optional; when given it must match the stock's item.
// PartyID defaults to the stock owner.
type CreateAdjustmentInput struct {
	StockID  int64                  `json:"stock_id" validate:"required,gt=0"`
	ItemID   int64                  `json:"item_id" validate:"gte=0"`
	PartyID  int64                  `json:"party_id" validate:"gte=0"`
	Type     model.AdjustmentType   `json:"type" validate:"required,oneof=addition removal"`
	Reason   model.AdjustmentReason `json:"reason" validate:"required,oneof=purchased donated transferred returned damaged expired lost stolen used other"`
	Quantity float64                `json:"quantity" validate:"gt=0"`
	Cost     float64                `json:"cost" validate:"gte=0"`
	Price    float64                `json:"price" validate:"gte=0"`
	Remarks  string                 `json:"remarks" validate:"max=500"`
}
