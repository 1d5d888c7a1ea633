// Package purchase_receipt provides the PurchaseReceipt document:
// incoming goods from suppliers.
package purchase_receipt

import (
	"context"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
)

// PurchaseReceipt records goods received from a supplier into a warehouse.
// Receiving posts the document: stock comes in at the purchase rate.
type PurchaseReceipt struct {
	entity.Document

	// SupplierName identifies the supplier (free text, no counterparty catalog)
	SupplierName string `db:"supplier_name" json:"supplierName"`

	// WarehouseID is where goods are received
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Supplier's document reference
	SupplierDocNumber string     `db:"supplier_doc_number" json:"supplierDocNumber,omitempty"`
	SupplierDocDate   *time.Time `db:"supplier_doc_date" json:"supplierDocDate,omitempty"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part: received goods
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one received item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity in the item's base unit
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Rate is the purchase price per unit
	Rate types.Money `db:"rate" json:"rate"`

	// Amount = Quantity * Rate
	Amount types.Money `db:"amount" json:"amount"`
}

// NewPurchaseReceipt creates a new draft receipt.
func NewPurchaseReceipt(companyID, supplierName string, warehouseID id.ID) *PurchaseReceipt {
	return &PurchaseReceipt{
		Document:     entity.NewDocument(companyID),
		SupplierName: supplierName,
		WarehouseID:  warehouseID,
		TotalAmount:  types.ZeroMoney(),
		Lines:        make([]Line, 0),
	}
}

// AddLine adds a line and recalculates totals.
func (p *PurchaseReceipt) AddLine(itemID id.ID, qty types.Quantity, rate types.Money) {
	p.Lines = append(p.Lines, Line{
		LineID:   id.New(),
		LineNo:   len(p.Lines) + 1,
		ItemID:   itemID,
		Quantity: qty,
		Rate:     rate,
		Amount:   qty.MulRate(rate),
	})
	p.recalculateTotals()
}

func (p *PurchaseReceipt) recalculateTotals() {
	p.TotalQuantity = 0
	p.TotalAmount = types.ZeroMoney()
	for _, line := range p.Lines {
		p.TotalQuantity += line.Quantity
		p.TotalAmount = p.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (p *PurchaseReceipt) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if p.SupplierName == "" {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierName")
	}

	if id.IsNil(p.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
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
		if line.Rate.IsNegative() {
			return apperror.NewValidation("rate cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanPost revalidates the full document, supplier and lines included,
// before posting.
func (p *PurchaseReceipt) CanPost(ctx context.Context) error {
	return p.Validate(ctx)
}

// GetDocumentType returns the document type name.
func (p *PurchaseReceipt) GetDocumentType() string {
	return "PurchaseReceipt"
}

// GenerateMovements creates register movements for this document.
func (p *PurchaseReceipt) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet(p.ID, p.GetDocumentType(), p.PostedVersion+1, p.CompanyID)

	for _, line := range p.Lines {
		set.AddStockReceipt(p.Date, p.WarehouseID, line.ItemID, line.Quantity, line.Rate)
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*PurchaseReceipt)(nil)
