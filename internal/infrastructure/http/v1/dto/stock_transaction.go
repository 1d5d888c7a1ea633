package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/stock_transaction"
)

// StockTransactionLineRequest is one line of a stock transaction.
// UOM names the unit the quantity is entered in; empty means base unit.
type StockTransactionLineRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
	UOM      string         `json:"uom"`
	Rate     types.Money    `json:"rate"`
}

// CreateStockTransactionRequest is the request body for creating a stock transaction.
type CreateStockTransactionRequest struct {
	Type              stock_transaction.TransactionType `json:"type" binding:"required"`
	SourceWarehouseID *id.ID                            `json:"sourceWarehouseId"`
	TargetWarehouseID *id.ID                            `json:"targetWarehouseId"`
	Date              *time.Time                        `json:"date"`
	Comment           string                            `json:"comment"`
	Lines             []StockTransactionLineRequest     `json:"lines" binding:"required,min=1,dive"`

	// PostImmediately creates and posts in one call.
	PostImmediately bool `json:"postImmediately"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateStockTransactionRequest) ToEntity(companyID string) *stock_transaction.StockTransaction {
	doc := stock_transaction.NewStockTransaction(companyID, r.Type)
	doc.SourceWarehouseID = r.SourceWarehouseID
	doc.TargetWarehouseID = r.TargetWarehouseID
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	for _, line := range r.Lines {
		doc.AddLineInUnit(line.ItemID, line.UOM, line.Quantity, line.Rate)
	}
	return doc
}

// UpdateStockTransactionRequest is the request body for updating a draft transaction.
type UpdateStockTransactionRequest struct {
	Type              stock_transaction.TransactionType `json:"type" binding:"required"`
	SourceWarehouseID *id.ID                            `json:"sourceWarehouseId"`
	TargetWarehouseID *id.ID                            `json:"targetWarehouseId"`
	Date              *time.Time                        `json:"date"`
	Comment           string                            `json:"comment"`
	Lines             []StockTransactionLineRequest     `json:"lines" binding:"required,min=1,dive"`
	Version           int                               `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity, replacing its lines.
func (r *UpdateStockTransactionRequest) ApplyTo(doc *stock_transaction.StockTransaction) {
	doc.Type = r.Type
	doc.SourceWarehouseID = r.SourceWarehouseID
	doc.TargetWarehouseID = r.TargetWarehouseID
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLineInUnit(line.ItemID, line.UOM, line.Quantity, line.Rate)
	}
	doc.Version = r.Version
}
