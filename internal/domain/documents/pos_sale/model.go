// Package pos_sale provides the POSSale document: point-of-sale sales
// that post immediately at checkout.
package pos_sale

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
)

// PaymentMethod for the sale.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// POSSale records a retail sale. There is no draft stage: a sale is
// created and posted in one operation, and stock leaves the register
// the moment the receipt prints.
type POSSale struct {
	entity.Document

	// WarehouseID is the selling location
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// CashierID is the user who rang the sale
	CashierID string `db:"cashier_id" json:"cashierId"`

	// PaymentMethod used at checkout
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`

	// Totals (calculated from lines)
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one sold item.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity sold
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Rate is the selling price per unit
	Rate types.Money `db:"rate" json:"rate"`

	// Amount = Quantity * Rate
	Amount types.Money `db:"amount" json:"amount"`
}

// NewPOSSale creates a new sale.
func NewPOSSale(companyID, cashierID string, warehouseID id.ID, payment PaymentMethod) *POSSale {
	return &POSSale{
		Document:      entity.NewDocument(companyID),
		WarehouseID:   warehouseID,
		CashierID:     cashierID,
		PaymentMethod: payment,
		TotalAmount:   types.ZeroMoney(),
		Lines:         make([]Line, 0),
	}
}

// AddLine adds a sold item and recalculates totals.
func (s *POSSale) AddLine(itemID id.ID, qty types.Quantity, rate types.Money) {
	s.Lines = append(s.Lines, Line{
		LineID:   id.New(),
		LineNo:   len(s.Lines) + 1,
		ItemID:   itemID,
		Quantity: qty,
		Rate:     rate,
		Amount:   qty.MulRate(rate),
	})
	s.recalculateTotals()
}

func (s *POSSale) recalculateTotals() {
	s.TotalQuantity = 0
	s.TotalAmount = types.ZeroMoney()
	for _, line := range s.Lines {
		s.TotalQuantity += line.Quantity
		s.TotalAmount = s.TotalAmount.Add(line.Amount)
	}
}

// Validate implements entity.Validatable.
func (s *POSSale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}

	if s.PaymentMethod != PaymentCash && s.PaymentMethod != PaymentCard {
		return apperror.NewValidation("invalid payment method").
			WithDetail("field", "paymentMethod").
			WithDetail("value", string(s.PaymentMethod))
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
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

// CanPost revalidates the full document, payment method and lines included,
// before posting.
func (s *POSSale) CanPost(ctx context.Context) error {
	return s.Validate(ctx)
}

// GetDocumentType returns the document type name.
func (s *POSSale) GetDocumentType() string {
	return "POSSale"
}

// GenerateMovements issues the sold quantities from the selling location.
func (s *POSSale) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet(s.ID, s.GetDocumentType(), s.PostedVersion+1, s.CompanyID)

	for _, line := range s.Lines {
		set.AddStockExpense(s.Date, s.WarehouseID, line.ItemID, line.Quantity)
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*POSSale)(nil)
