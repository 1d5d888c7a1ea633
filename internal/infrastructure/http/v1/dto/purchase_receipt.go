package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/purchase_receipt"
)

// PurchaseReceiptLineRequest is one received line.
type PurchaseReceiptLineRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
	Rate     types.Money    `json:"rate" binding:"required"`
}

// CreatePurchaseReceiptRequest is the request body for creating a purchase receipt.
type CreatePurchaseReceiptRequest struct {
	SupplierName      string                       `json:"supplierName" binding:"required"`
	WarehouseID       id.ID                        `json:"warehouseId" binding:"required"`
	SupplierDocNumber string                       `json:"supplierDocNumber"`
	SupplierDocDate   *time.Time                   `json:"supplierDocDate"`
	Date              *time.Time                   `json:"date"`
	Comment           string                       `json:"comment"`
	Lines             []PurchaseReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePurchaseReceiptRequest) ToEntity(companyID string) *purchase_receipt.PurchaseReceipt {
	doc := purchase_receipt.NewPurchaseReceipt(companyID, r.SupplierName, r.WarehouseID)
	doc.SupplierDocNumber = r.SupplierDocNumber
	doc.SupplierDocDate = r.SupplierDocDate
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.Rate)
	}
	return doc
}

// UpdatePurchaseReceiptRequest is the request body for updating a draft receipt.
type UpdatePurchaseReceiptRequest struct {
	SupplierName      string                       `json:"supplierName" binding:"required"`
	WarehouseID       id.ID                        `json:"warehouseId" binding:"required"`
	SupplierDocNumber string                       `json:"supplierDocNumber"`
	SupplierDocDate   *time.Time                   `json:"supplierDocDate"`
	Date              *time.Time                   `json:"date"`
	Comment           string                       `json:"comment"`
	Lines             []PurchaseReceiptLineRequest `json:"lines" binding:"required,min=1,dive"`
	Version           int                          `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity, replacing its lines.
func (r *UpdatePurchaseReceiptRequest) ApplyTo(doc *purchase_receipt.PurchaseReceipt) {
	doc.SupplierName = r.SupplierName
	doc.WarehouseID = r.WarehouseID
	doc.SupplierDocNumber = r.SupplierDocNumber
	doc.SupplierDocDate = r.SupplierDocDate
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	doc.Lines = doc.Lines[:0]
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.Rate)
	}
	doc.Version = r.Version
}
