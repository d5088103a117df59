package sqlite

import (
	"time"

	"github.com/maxviazov/stock-adjustment-service/internal/model"
)

// Timestamps are stored as UTC unix nanoseconds so MAX and ORDER BY compare numerically.

type itemRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Code        string `gorm:"not null;uniqueIndex"`
	Name        string `gorm:"not null;index"`
	UOM         string `gorm:"column:uom;not null"`
	Description string `gorm:"not null;default:''"`
	CreatedAt   int64  `gorm:"autoCreateTime:nano"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:nano;index"`
}

func (itemRow) TableName() string { return "items" }

type stockRow struct {
	ID         int64   `gorm:"primaryKey;autoIncrement"`
	ItemID     int64   `gorm:"not null;uniqueIndex:idx_stocks_store_item,priority:2;index"`
	StoreID    int64   `gorm:"not null;uniqueIndex:idx_stocks_store_item,priority:1"`
	OwnerID    int64   `gorm:"not null;default:0"`
	Quantity   float64 `gorm:"not null;default:0"`
	MinAllowed float64 `gorm:"not null;default:0"`
	MaxAllowed float64 `gorm:"not null;default:0"`
	CreatedAt  int64   `gorm:"autoCreateTime:nano"`
	UpdatedAt  int64   `gorm:"autoUpdateTime:nano"`
}

func (stockRow) TableName() string { return "stocks" }

type adjustmentRow struct {
	ID        int64   `gorm:"primaryKey;autoIncrement"`
	ItemID    int64   `gorm:"not null;index"`
	StockID   int64   `gorm:"not null;index"`
	StoreID   int64   `gorm:"not null"`
	PartyID   int64   `gorm:"not null;default:0"`
	Type      string  `gorm:"not null"`
	Reason    string  `gorm:"not null"`
	Quantity  float64 `gorm:"not null"`
	Cost      float64 `gorm:"not null;default:0"`
	Price     float64 `gorm:"not null;default:0"`
	Remarks   string  `gorm:"not null;default:''"`
	CreatedAt int64   `gorm:"autoCreateTime:nano"`
	UpdatedAt int64   `gorm:"autoUpdateTime:nano;index"`
}

func (adjustmentRow) TableName() string { return "adjustments" }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

func newItemRow(it model.Item) itemRow {
	return itemRow{Code: it.Code, Name: it.Name, UOM: it.UOM, Description: it.Description}
}

func (r itemRow) model() model.Item {
	return model.Item{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		UOM:         r.UOM,
		Description: r.Description,
		CreatedAt:   fromNanos(r.CreatedAt),
		UpdatedAt:   fromNanos(r.UpdatedAt),
	}
}

func newStockRow(s model.Stock) stockRow {
	return stockRow{
		ItemID:     s.ItemID,
		StoreID:    s.StoreID,
		OwnerID:    s.OwnerID,
		Quantity:   s.Quantity,
		MinAllowed: s.MinAllowed,
		MaxAllowed: s.MaxAllowed,
	}
}

func (r stockRow) model() model.Stock {
	return model.Stock{
		ID:         r.ID,
		ItemID:     r.ItemID,
		StoreID:    r.StoreID,
		OwnerID:    r.OwnerID,
		Quantity:   r.Quantity,
		MinAllowed: r.MinAllowed,
		MaxAllowed: r.MaxAllowed,
		CreatedAt:  fromNanos(r.CreatedAt),
		UpdatedAt:  fromNanos(r.UpdatedAt),
	}
}

func newAdjustmentRow(a model.Adjustment) adjustmentRow {
	return adjustmentRow{
		ItemID:   a.ItemID,
		StockID:  a.StockID,
		StoreID:  a.StoreID,
		PartyID:  a.PartyID,
		Type:     string(a.Type),
		Reason:   string(a.Reason),
		Quantity: a.Quantity,
		Cost:     a.Cost,
		Price:    a.Price,
		Remarks:  a.Remarks,
	}
}

func (r adjustmentRow) model() model.Adjustment {
	return model.Adjustment{
		ID:        r.ID,
		ItemID:    r.ItemID,
		StockID:   r.StockID,
		StoreID:   r.StoreID,
		PartyID:   r.PartyID,
		Type:      model.AdjustmentType(r.Type),
		Reason:    model.AdjustmentReason(r.Reason),
		Quantity:  r.Quantity,
		Cost:      r.Cost,
		Price:     r.Price,
		Remarks:   r.Remarks,
		CreatedAt: fromNanos(r.CreatedAt),
		UpdatedAt: fromNanos(r.UpdatedAt),
	}
}
