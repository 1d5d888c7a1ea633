package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/pick_list"
)

// PickListLineRequest is one line to pick.
type PickListLineRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
}

// CreatePickListRequest is the request body for creating a pick list.
type CreatePickListRequest struct {
	WarehouseID id.ID                 `json:"warehouseId" binding:"required"`
	Reference   string                `json:"reference"`
	Date        *time.Time            `json:"date"`
	Comment     string                `json:"comment"`
	Lines       []PickListLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePickListRequest) ToEntity(companyID string) *pick_list.PickList {
	doc := pick_list.NewPickList(companyID, r.WarehouseID)
	doc.Reference = r.Reference
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity)
	}
	return doc
}

// UpdatePickListRequest is the request body for updating a draft pick list.
type UpdatePickListRequest struct {
	WarehouseID id.ID                 `json:"warehouseId" binding:"required"`
	Reference   string                `json:"reference"`
	Date        *time.Time            `json:"date"`
	Comment     string                `json:"comment"`
	Lines       []PickListLineRequest `json:"lines" binding:"required,min=1,dive"`
	Version     int                   `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity, replacing its lines.
func (r *UpdatePickListRequest) ApplyTo(doc *pick_list.PickList) {
	doc.WarehouseID = r.WarehouseID
	doc.Reference = r.Reference
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity)
	}
	doc.Version = r.Version
}

// StartPickingRequest assigns a picker when work begins.
// PickerID is optional, defaulting to the authenticated user.
type StartPickingRequest struct {
	PickerID string `json:"pickerId"`
}

// FinishPickingRequest reports the actually picked quantities,
// keyed by line ID. Lines not listed keep their requested quantity.
type FinishPickingRequest struct {
	PickedQuantities map[id.ID]types.Quantity `json:"pickedQuantities"`
}

// TransitionPickListRequest requests a move to a target workflow status.
type TransitionPickListRequest struct {
	Status pick_list.Status `json:"status" binding:"required"`

	// Optional payload for the picking and picked transitions.
	PickerID         string                   `json:"pickerId"`
	PickedQuantities map[id.ID]types.Quantity `json:"pickedQuantities"`
}
