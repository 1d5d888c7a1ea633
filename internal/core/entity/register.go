// Package entity provides core domain entities.
package entity

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// RecordType defines movement direction for accumulation registers.
type RecordType string

const (
	// RecordTypeReceipt increases balance
	RecordTypeReceipt RecordType = "receipt"
	// RecordTypeExpense decreases balance
	RecordTypeExpense RecordType = "expense"
)

// MovementBase contains common fields for all register movements.
// Movements are immutable: they are never updated, only deleted and recreated
// when their recorder document is reposted.
type MovementBase struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "StockTransaction", "POSSale")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this movement.
	// Allows cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y.
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// CompanyID scopes the movement to its owning company
	CompanyID string `db:"company_id" json:"companyId"`

	// Period is the business date for the movement (for period-based queries)
	Period time.Time `db:"period" json:"period"`

	// RecordType: receipt or expense
	RecordType RecordType `db:"record_type" json:"recordType"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewMovementBase creates a new movement base with generated LineID.
func NewMovementBase(recorderID id.ID, recorderType string, recorderVersion int, companyID string, period time.Time, recordType RecordType) MovementBase {
	return MovementBase{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		CompanyID:       companyID,
		Period:          period,
		RecordType:      recordType,
		CreatedAt:       time.Now().UTC(),
	}
}

// StockMovement is a planned change in the stock register, produced by a
// document's GenerateMovements. The posting engine turns it into a
// StockLedgerEntry once the balance snapshot is known.
type StockMovement struct {
	MovementBase

	// Dimensions
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID `db:"item_id" json:"itemId"`

	// Resources
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// IncomingRate is the per-unit value for receipts (purchase price).
	// Ignored for expenses, where the moving average rate applies.
	IncomingRate types.Money `db:"incoming_rate" json:"incomingRate"`

	// InheritRate marks transfer receipts: the incoming rate is taken from
	// the valuation rate of the expense that precedes it in the set, so
	// value moves between warehouses without gain or loss.
	InheritRate bool `db:"inherit_rate" json:"inheritRate,omitempty"`

	// ConsumesReservation marks expenses that draw down a pick list
	// reservation, so the availability check uses the reserved quantity
	// instead of rejecting it.
	ConsumesReservation bool `db:"consumes_reservation" json:"consumesReservation,omitempty"`
}

// NewStockMovement creates a new stock movement.
func NewStockMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	companyID string,
	period time.Time,
	recordType RecordType,
	warehouseID, itemID id.ID,
	quantity types.Quantity,
	incomingRate types.Money,
) StockMovement {
	return StockMovement{
		MovementBase: NewMovementBase(recorderID, recorderType, recorderVersion, companyID, period, recordType),
		WarehouseID:  warehouseID,
		ItemID:       itemID,
		Quantity:     quantity,
		IncomingRate: incomingRate,
	}
}

// SignedQuantity returns quantity with sign based on record type.
// Receipt = positive, Expense = negative.
func (m *StockMovement) SignedQuantity() types.Quantity {
	if m.RecordType == RecordTypeExpense {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockLedgerEntry is the persisted register row: a StockMovement enriched
// with the balance snapshot captured under the row lock at posting time.
// Entries reconstruct the full balance history of an (item, warehouse) pair.
type StockLedgerEntry struct {
	StockMovement

	// Balance snapshot, captured atomically with the balance update
	QtyBefore types.Quantity `db:"qty_before" json:"qtyBefore"`
	QtyAfter  types.Quantity `db:"qty_after" json:"qtyAfter"`

	// Valuation at moving average rate
	ValuationRate    types.Money `db:"valuation_rate" json:"valuationRate"`
	StockValueBefore types.Money `db:"stock_value_before" json:"stockValueBefore"`
	StockValueAfter  types.Money `db:"stock_value_after" json:"stockValueAfter"`
}

// StockBalance represents current balance in the stock register.
// This is a materialized/cached row for fast balance queries; the ledger is
// the source of truth and the balance must always equal the ledger sum.
type StockBalance struct {
	// Dimensions
	CompanyID   string `db:"company_id" json:"companyId"`
	WarehouseID id.ID  `db:"warehouse_id" json:"warehouseId"`
	ItemID      id.ID  `db:"item_id" json:"itemId"`

	// Balances
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Reserved is the quantity held by released pick lists
	Reserved types.Quantity `db:"reserved" json:"reserved"`

	// Valuation
	ValuationRate types.Money `db:"valuation_rate" json:"valuationRate"`
	StockValue    types.Money `db:"stock_value" json:"stockValue"`

	// Metadata
	LastMovementAt time.Time `db:"last_movement_at" json:"lastMovementAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`
}

// Available returns the quantity free for new expenses.
func (b *StockBalance) Available() types.Quantity {
	return b.Quantity - b.Reserved
}
