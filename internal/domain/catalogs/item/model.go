// Package item provides the Item catalog: goods and services that appear
// on document lines and in the stock register.
package item

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/types"
)

// ItemType defines the type of item.
type ItemType string

const (
	TypeGoods   ItemType = "goods"
	TypeService ItemType = "service"
)

// Item represents a product or service.
type Item struct {
	entity.Catalog

	// Type defines item category. Services never touch the stock register.
	Type ItemType `db:"type" json:"type"`

	// Barcode is the item barcode (EAN-13, etc.)
	Barcode *string `db:"barcode" json:"barcode,omitempty"`

	// UOMID is the reference to the stock unit of measure
	UOMID *string `db:"uom_id" json:"uomId,omitempty"`

	// StandardRate is the default selling price per stock unit
	StandardRate types.Money `db:"standard_rate" json:"standardRate"`

	// ReorderLevel triggers the low-stock report when available
	// quantity falls below it
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// ImageURL is the item image URL
	ImageURL *string `db:"image_url" json:"imageUrl,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(companyID, code, name string, itemType ItemType) *Item {
	return &Item{
		Catalog:      entity.NewCatalog(companyID, code, name),
		Type:         itemType,
		StandardRate: decimal.Zero,
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidItemType(i.Type) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "type").
			WithDetail("value", string(i.Type))
	}

	if i.StandardRate.IsNegative() {
		return apperror.NewValidation("standard rate cannot be negative").
			WithDetail("field", "standardRate")
	}

	if i.ReorderLevel.IsNegative() {
		return apperror.NewValidation("reorder level cannot be negative").
			WithDetail("field", "reorderLevel")
	}

	return nil
}

// IsStockItem returns true if the item is tracked in the stock register.
func (i *Item) IsStockItem() bool {
	return i.Type == TypeGoods
}

func isValidItemType(t ItemType) bool {
	switch t {
	case TypeGoods, TypeService:
		return true
	}
	return false
}
