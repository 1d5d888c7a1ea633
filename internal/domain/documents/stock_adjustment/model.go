// Package stock_adjustment provides the StockAdjustment document:
// corrections for surplus or shortage found during stock counts.
package stock_adjustment

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
)

// Status is the adjustment workflow state. Posting requires approval.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusPosted   Status = "posted"
)

// Direction of a single adjustment line, derived from the difference
// between the counted and the book quantity.
type Direction string

const (
	DirectionSurplus  Direction = "surplus"
	DirectionShortage Direction = "shortage"
	DirectionNone     Direction = "none"
)

// StockAdjustment corrects register balances to match a physical count.
type StockAdjustment struct {
	entity.Document

	// WarehouseID is the warehouse being adjusted
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Status is the workflow state
	Status Status `db:"status" json:"status"`

	// Reason documents why the adjustment was made
	Reason string `db:"reason" json:"reason"`

	// ApprovedBy records who approved the adjustment
	ApprovedBy string `db:"approved_by" json:"approvedBy,omitempty"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one counted item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// CurrentQty is the book quantity at count time
	CurrentQty types.Quantity `db:"current_qty" json:"currentQty"`

	// AdjustedQty is the counted quantity; nil until the line is counted
	AdjustedQty *types.Quantity `db:"adjusted_qty" json:"adjustedQty,omitempty"`

	// Rate values surplus receipts. Shortages go out at the moving average.
	Rate types.Money `db:"rate" json:"rate"`
}

// Counted reports whether the line has a recorded count.
func (l *Line) Counted() bool {
	return l.AdjustedQty != nil
}

// Difference returns counted minus book quantity, zero when uncounted.
func (l *Line) Difference() types.Quantity {
	if l.AdjustedQty == nil {
		return 0
	}
	return *l.AdjustedQty - l.CurrentQty
}

// Direction classifies the line by the sign of its difference.
func (l *Line) Direction() Direction {
	diff := l.Difference()
	switch {
	case diff.IsPositive():
		return DirectionSurplus
	case diff.IsNegative():
		return DirectionShortage
	default:
		return DirectionNone
	}
}

// NewStockAdjustment creates a new draft adjustment.
func NewStockAdjustment(companyID string, warehouseID id.ID, reason string) *StockAdjustment {
	return &StockAdjustment{
		Document:    entity.NewDocument(companyID),
		WarehouseID: warehouseID,
		Status:      StatusDraft,
		Reason:      reason,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds an uncounted line holding the book quantity. The returned
// pointer stays valid until the next append.
func (a *StockAdjustment) AddLine(itemID id.ID, currentQty types.Quantity, rate types.Money) *Line {
	a.Lines = append(a.Lines, Line{
		LineID:     id.New(),
		LineNo:     len(a.Lines) + 1,
		ItemID:     itemID,
		CurrentQty: currentQty,
		Rate:       rate,
	})
	return &a.Lines[len(a.Lines)-1]
}

// RecordCount stores the counted quantity for one line.
func (a *StockAdjustment) RecordCount(lineID id.ID, counted types.Quantity) error {
	for i := range a.Lines {
		if a.Lines[i].LineID == lineID {
			qty := counted
			a.Lines[i].AdjustedQty = &qty
			a.Touch()
			return nil
		}
	}
	return apperror.NewNotFound("adjustment line", lineID.String())
}

// AllCounted reports whether every line has a recorded count.
func (a *StockAdjustment) AllCounted() bool {
	for i := range a.Lines {
		if !a.Lines[i].Counted() {
			return false
		}
	}
	return true
}

// Approve moves the adjustment from draft to approved.
// Every line must be counted first.
func (a *StockAdjustment) Approve(userID string) error {
	if a.Status != StatusDraft {
		return apperror.NewInvalidTransition("stock adjustment", string(a.Status), string(StatusApproved))
	}
	if !a.AllCounted() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"All lines must be counted before approval",
		)
	}
	a.Status = StatusApproved
	a.ApprovedBy = userID
	a.Touch()
	return nil
}

// Validate implements entity.Validatable.
func (a *StockAdjustment) Validate(ctx context.Context) error {
	if err := a.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(a.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if a.Reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}

	if len(a.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range a.Lines {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.CurrentQty.IsNegative() {
			return apperror.NewValidation("book quantity cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.AdjustedQty != nil && line.AdjustedQty.IsNegative() {
			return apperror.NewValidation("counted quantity cannot be negative").
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

// CanPost requires approval, and therefore a full count, before posting.
func (a *StockAdjustment) CanPost(ctx context.Context) error {
	if a.Status != StatusApproved {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Adjustment must be approved before posting",
		).WithDetail("status", string(a.Status))
	}
	if !a.AllCounted() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"All lines must be counted before posting",
		)
	}
	return a.Validate(ctx)
}

// MarkPosted moves the workflow to posted alongside the register flag.
func (a *StockAdjustment) MarkPosted() {
	a.Status = StatusPosted
	a.Document.MarkPosted()
}

// MarkUnposted returns the adjustment to approved.
func (a *StockAdjustment) MarkUnposted() {
	a.Status = StatusApproved
	a.Document.MarkUnposted()
}

// GetDocumentType returns the document type name.
func (a *StockAdjustment) GetDocumentType() string {
	return "StockAdjustment"
}

// GenerateMovements creates register movements for this document.
// Surplus differences come in as receipts, shortages go out as expenses;
// lines counted at book quantity move nothing.
func (a *StockAdjustment) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet(a.ID, a.GetDocumentType(), a.PostedVersion+1, a.CompanyID)

	for i := range a.Lines {
		line := &a.Lines[i]
		diff := line.Difference()
		switch {
		case diff.IsPositive():
			set.AddStockReceipt(a.Date, a.WarehouseID, line.ItemID, diff, line.Rate)
		case diff.IsNegative():
			set.AddStockExpense(a.Date, a.WarehouseID, line.ItemID, diff.Neg())
		}
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*StockAdjustment)(nil)
