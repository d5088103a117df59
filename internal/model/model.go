// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// AdjustmentType tells whether an adjustment adds to or removes from a stock.
type AdjustmentType string

const (
	AdjustmentAddition AdjustmentType = "addition"
	AdjustmentRemoval  AdjustmentType = "removal"
)

// AdjustmentReason explains why a stock level changed.
type AdjustmentReason string

const (
	ReasonPurchased   AdjustmentReason = "purchased"
	ReasonDonated     AdjustmentReason = "donated"
	ReasonTransferred AdjustmentReason = "transferred"
	ReasonReturned    AdjustmentReason = "returned"
	ReasonDamaged     AdjustmentReason = "damaged"
	ReasonExpired     AdjustmentReason = "expired"
	ReasonLost        AdjustmentReason = "lost"
	ReasonStolen      AdjustmentReason = "stolen"
	ReasonUsed        AdjustmentReason = "used"
	ReasonOther       AdjustmentReason = "other"
)

// Item is a catalogue entry that can be stocked, e.g. a tent or a water purifier.
type Item struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	UOM         string    `json:"uom"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Stock is the quantity of one item held at one store on behalf of an owner.
// StoreID and OwnerID reference external facility and party records.
type Stock struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	StoreID    int64     `json:"store_id"`
	OwnerID    int64     `json:"owner_id"`
	Quantity   float64   `json:"quantity"`
	MinAllowed float64   `json:"min_allowed"`
	MaxAllowed float64   `json:"max_allowed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Adjustment records a single addition to or removal from a stock.
type Adjustment struct {
	ID        int64            `json:"id"`
	ItemID    int64            `json:"item_id"`
	StockID   int64            `json:"stock_id"`
	StoreID   int64            `json:"store_id"`
	PartyID   int64            `json:"party_id"`
	Type      AdjustmentType   `json:"type"`
	Reason    AdjustmentReason `json:"reason"`
	Quantity  float64          `json:"quantity"`
	Cost      float64          `json:"cost"`
	Price     float64          `json:"price"`
	Remarks   string           `json:"remarks,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Delta is the signed change the adjustment applies to its stock quantity.
func (a Adjustment) Delta() float64 {
	if a.Type == AdjustmentRemoval {
		return -a.Quantity
	}
	return a.Quantity
}

func (i Item) LastModifiedAt() time.Time       { return i.UpdatedAt }
func (s Stock) LastModifiedAt() time.Time      { return s.UpdatedAt }
func (a Adjustment) LastModifiedAt() time.Time { return a.UpdatedAt }
