// Package pick_list provides the PickList document: a warehouse picking
// workflow that reserves stock on release and issues it on completion.
package pick_list

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
)

// Status is the picking workflow state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusReleased  Status = "released"
	StatusPicking   Status = "picking"
	StatusPicked    Status = "picked"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// transitions is the allow-list of legal status changes. Anything not
// listed here is rejected, there is no way to skip a step. Every
// non-terminal status can be cancelled.
var transitions = map[Status][]Status{
	StatusDraft:    {StatusReleased, StatusCancelled},
	StatusReleased: {StatusPicking, StatusCancelled},
	StatusPicking:  {StatusPicked, StatusCancelled},
	StatusPicked:   {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is allowed.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// PickList reserves and then issues stock from one warehouse.
type PickList struct {
	entity.Document

	// WarehouseID is the warehouse being picked from
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Status is the workflow state
	Status Status `db:"status" json:"status"`

	// Reference is an optional external order reference
	Reference string `db:"reference" json:"reference,omitempty"`

	// AssignedTo is the picker user ID
	AssignedTo string `db:"assigned_to" json:"assignedTo,omitempty"`

	// Table part
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one item to pick.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ItemID id.ID `db:"item_id" json:"itemId"`

	// Quantity requested
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// PickedQty is what was actually picked (set during picking,
	// defaults to Quantity)
	PickedQty types.Quantity `db:"picked_qty" json:"pickedQty"`
}

// NewPickList creates a new draft pick list.
func NewPickList(companyID string, warehouseID id.ID) *PickList {
	return &PickList{
		Document:    entity.NewDocument(companyID),
		WarehouseID: warehouseID,
		Status:      StatusDraft,
		Lines:       make([]Line, 0),
	}
}

// AddLine adds a line to pick.
func (p *PickList) AddLine(itemID id.ID, qty types.Quantity) {
	p.Lines = append(p.Lines, Line{
		LineID:    id.New(),
		LineNo:    len(p.Lines) + 1,
		ItemID:    itemID,
		Quantity:  qty,
		PickedQty: qty,
	})
}

// Transition moves the pick list to a new status, enforcing the allow-list.
func (p *PickList) Transition(to Status) error {
	if !CanTransition(p.Status, to) {
		return apperror.NewInvalidTransition("pick list", string(p.Status), string(to))
	}
	p.Status = to
	p.Touch()
	return nil
}

// Validate implements entity.Validatable.
func (p *PickList) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
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
		if line.PickedQty.IsNegative() || line.PickedQty > line.Quantity {
			return apperror.NewValidation("picked quantity must be between zero and requested quantity").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// CanPost requires the pick to be fully through the workflow.
func (p *PickList) CanPost(ctx context.Context) error {
	if p.Status != StatusPicked {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Pick list must be picked before completion",
		).WithDetail("status", string(p.Status))
	}
	return p.Validate(ctx)
}

// MarkPosted completes the workflow alongside the register flag.
func (p *PickList) MarkPosted() {
	p.Status = StatusCompleted
	p.Document.MarkPosted()
}

// MarkUnposted returns a completed pick list to picked.
func (p *PickList) MarkUnposted() {
	p.Status = StatusPicked
	p.Document.MarkUnposted()
}

// GetDocumentType returns the document type name.
func (p *PickList) GetDocumentType() string {
	return "PickList"
}

// GenerateMovements issues the picked quantities, consuming the
// reservation taken at release.
func (p *PickList) GenerateMovements(ctx context.Context) (*posting.MovementSet, error) {
	set := posting.NewMovementSet(p.ID, p.GetDocumentType(), p.PostedVersion+1, p.CompanyID)

	for _, line := range p.Lines {
		if line.PickedQty.IsZero() {
			continue
		}
		set.AddStockExpenseReserved(p.Date, p.WarehouseID, line.ItemID, line.PickedQty)
	}

	return set, nil
}

// Ensure interface compliance at compile time.
var _ posting.Postable = (*PickList)(nil)
