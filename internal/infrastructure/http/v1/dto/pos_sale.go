package dto

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/pos_sale"
)

// POSSaleLineRequest is one sold line.
type POSSaleLineRequest struct {
	ItemID   id.ID          `json:"itemId" binding:"required"`
	Quantity types.Quantity `json:"quantity" binding:"required"`
	Rate     types.Money    `json:"rate" binding:"required"`
}

// CreatePOSSaleRequest is the request body for registering a sale.
// The cashier is taken from the authenticated user.
type CreatePOSSaleRequest struct {
	WarehouseID   id.ID                  `json:"warehouseId" binding:"required"`
	PaymentMethod pos_sale.PaymentMethod `json:"paymentMethod" binding:"required"`
	Date          *time.Time             `json:"date"`
	Comment       string                 `json:"comment"`
	Lines         []POSSaleLineRequest   `json:"lines" binding:"required,min=1,dive"`
}

// ToEntity converts the request to a domain entity.
func (r *CreatePOSSaleRequest) ToEntity(companyID, cashierID string) *pos_sale.POSSale {
	doc := pos_sale.NewPOSSale(companyID, cashierID, r.WarehouseID, r.PaymentMethod)
	doc.Comment = r.Comment
	if r.Date != nil {
		doc.Date = r.Date.UTC()
	}
	for _, line := range r.Lines {
		doc.AddLine(line.ItemID, line.Quantity, line.Rate)
	}
	return doc
}

// UpdatePOSSaleRequest is the request body for updating an unposted sale.
type UpdatePOSSaleRequest struct {
	WarehouseID   id.ID                  `json:"warehouseId" binding:"required"`
	PaymentMethod pos_sale.PaymentMethod `json:"paymentMethod" binding:"required"`
	Date          *time.Time             `json:"date"`
	Comment       string                 `json:"comment"`
	Lines         []POSSaleLineRequest   `json:"lines" binding:"required,min=1,dive"`
	Version       int                    `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity, replacing its lines.
func (r *UpdatePOSSaleRequest) ApplyTo(doc *pos_sale.POSSale) {
	doc.WarehouseID = r.WarehouseID
	doc.PaymentMethod = r.PaymentMethod
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
