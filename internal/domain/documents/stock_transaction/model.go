// Package stock_transaction provides the StockTransaction document:
// general-purpose stock receipts, issues, and transfers between warehouses.
package stock_transaction

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
)

// TransactionType defines the direction of the transaction.
type TransactionType string

const (
	TypeIn       TransactionType = "in"
	TypeOut      TransactionType = "out"
	TypeTransfer TransactionType = "transfer"
)

// StockTransaction moves stock in, out, or between warehouses.
type StockTransaction struct {
	entity.Document

	// Type defines the direction
	Type TransactionType `db:"type" json:"type"`

	// SourceWarehouseID is required for out and transfer
	SourceWarehouseID *id.ID `db:"source_warehouse_id" json:"sourceWarehouseId,omitempty"`

	// TargetWarehouseID is required for in and transfer
	TargetWarehouseID *id.ID `db:"target_warehouse_id" json:"targetWarehouseId,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one item movement on the transaction.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity in the item's base unit
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UOM is the unit the quantity was entered in; empty means base unit.
	// EnteredQty keeps the original figure, Quantity holds the normalized one.
	UOM        string         `db:"uom" json:"uom,omitempty"`
	EnteredQty types.Quantity `db:"entered_qty" json:"enteredQty"`

	// Rate is the per-unit value for incoming stock.
	// Ignored for out and transfer, which use the moving average.
	Rate types.Money `db:"rate" json:"rate"`
}

// NewStockTransaction creates a new draft transaction.
func NewStockTransaction(companyID string, txType TransactionType) *StockTransaction {
	return &StockTransaction{
		Document: entity.NewDocument(companyID),
		Type:     txType,
		Lines:    make([]Line, 0),
	}
}

// AddLine adds a line with a base-unit quantity and recalculates totals.
func (t *StockTransaction) AddLine(itemID id.ID, qty types.Quantity, rate types.Money) {
	t.AddLineInUnit(itemID, "", qty, rate)
}

// AddLineInUnit adds a line entered in the given unit. Quantity starts
// equal to EnteredQty; the service normalizes it to the base unit before
// the document is saved.
func (t *StockTransaction) AddLineInUnit(itemID id.ID, uom string, qty types.Quantity, rate types.Money) {
	t.Lines = append(t.Lines, Line{
		LineID:     id.New(),
		LineNo:     len(t.Lines) + 1,
		ItemID:     itemID,
		UOM:        uom,
		EnteredQty: qty,
		Quantity:   qty,
		Rate:       rate,
	})
	t.recalculateTotals()
}

func (t *StockTransaction) recalculateTotals() {
	t.TotalQuantity = 0
	for _, line := range t.Lines {
		t.TotalQuantity += line.Quantity
	}
}

// Validate implements entity.Validatable.
func (t *StockTransaction) Validate(ctx context.Context) error {
	if err := t.Document.Validate(ctx); err != nil {
		return err
	}

	switch t.Type {
	case TypeIn:
		if t.TargetWarehouseID == nil || id.IsNil(*t.TargetWarehouseID) {
			return apperror.NewValidation("target warehouse is required for incoming transaction").
				WithDetail("field", "targetWarehouseId")
		}
	case TypeOut:
		if t.SourceWarehouseID == nil || id.IsNil(*t.SourceWarehouseID) {
			return apperror.NewValidation("source warehouse is required for outgoing transaction").
				WithDetail("field", "sourceWarehouseId")
		}
	case TypeTransfer:
		if t.SourceWarehouseID == nil || id.IsNil(*t.SourceWarehouseID) {
			return apperror.NewValidation("source warehouse is required for transfer").
				WithDetail("field", "sourceWarehouseId")
		}
		if t.TargetWarehouseID == nil || id.IsNil(*t.TargetWarehouseID) {
			return apperror.NewValidation("target warehouse is required for transfer").
				WithDetail("field", "targetWarehouseId")
		}
		if *t.SourceWarehouseID == *t.TargetWarehouseID {
			return apperror.NewValidation("source and target warehouses must differ").
				WithDetail("field", "targetWarehouseId")
		}
	default:
		return apperror.NewValidation("invalid transaction type").
			WithDetail("field", "type").
			WithDetail("value", string(t.Type))
	}

	if len(t.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range t.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if t.Type == TypeIn && line.Rate.IsNegative() {
			return apperror.NewValidation("rate cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanPost revalidates the full document, warehouses and lines included,
// before posting.
func (t *StockTransaction) CanPost(ctx context.Context) error {
	return t.Validate(ctx)
}

// GetDocumentType returns the document type name.
func (t *StockTransaction) GetDocumentType() string {
	return "StockTransaction"
}

// GenerateMovements creates register movements for this document.
func (t *StockTransaction) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet(t.ID, t.GetDocumentType(), t.PostedVersion+1, t.CompanyID)

	for _, line := range t.Lines {
		switch t.Type {
		case TypeIn:
			set.AddStockReceipt(t.Date, *t.TargetWarehouseID, line.ItemID, line.Quantity, line.Rate)
		case TypeOut:
			set.AddStockExpense(t.Date, *t.SourceWarehouseID, line.ItemID, line.Quantity)
		case TypeTransfer:
			set.AddStockTransfer(t.Date, *t.SourceWarehouseID, *t.TargetWarehouseID, line.ItemID, line.Quantity)
		}
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*StockTransaction)(nil)
