package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/stock_adjustment"
)

// StockAdjustmentLineRequest is one count line. CurrentQty is the book
// quantity; AdjustedQty is the counted quantity and may be omitted while
// the count is still in progress.
type StockAdjustmentLineRequest struct {
	ItemID      id.ID           `json:"itemId" binding:"required"`
	CurrentQty  types.Quantity  `json:"currentQty" binding:"gte=0"`
	AdjustedQty *types.Quantity `json:"adjustedQty"`
	Rate        types.Money     `json:"rate"`
}

// CreateStockAdjustmentRequest is the request body for creating a stock adjustment.
type CreateStockAdjustmentRequest struct {
	WarehouseID id.ID                        `json:"warehouseId" binding:"required"`
	Reason      string                       `json:"reason" binding:"required"`
	Date        *time.Time                   `json:"date"`
	Comment     string                       `json:"comment"`
	Lines       []StockAdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateStockAdjustmentRequest) ToEntity(companyID string) *stock_adjustment.StockAdjustment {
	doc := stock_adjustment.NewStockAdjustment(companyID, r.WarehouseID, r.Reason)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	for _, line := range r.Lines {
		added := doc.AddLine(line.ItemID, line.CurrentQty, line.Rate)
		if line.AdjustedQty != nil {
			qty := *line.AdjustedQty
			added.AdjustedQty = &qty
		}
	}
	return doc
}

// UpdateStockAdjustmentRequest is the request body for updating a draft adjustment.
type UpdateStockAdjustmentRequest struct {
	WarehouseID id.ID                        `json:"warehouseId" binding:"required"`
	Reason      string                       `json:"reason" binding:"required"`
	Date        *time.Time                   `json:"date"`
	Comment     string                       `json:"comment"`
	Lines       []StockAdjustmentLineRequest `json:"lines" binding:"required,min=1,dive"`
	Version     int                          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity, replacing its lines.
func (r *UpdateStockAdjustmentRequest) ApplyTo(doc *stock_adjustment.StockAdjustment) {
	doc.WarehouseID = r.WarehouseID
	doc.Reason = r.Reason
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		added := doc.AddLine(line.ItemID, line.CurrentQty, line.Rate)
		if line.AdjustedQty != nil {
			qty := *line.AdjustedQty
			added.AdjustedQty = &qty
		}
	}
	doc.Version = r.Version
}
