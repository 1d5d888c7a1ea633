package dto

import (
	"stockroom/internal/core/types"
	"stockroom/internal/domain/catalogs/item"
)

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code         string         `json:"code"`
	Name         string         `json:"name" binding:"required"`
	Type         item.ItemType  `json:"type" binding:"required"`
	Barcode      *string        `json:"barcode"`
	UOMID        *string        `json:"uomId"`
	StandardRate types.Money    `json:"standardRate"`
	ReorderLevel types.Quantity `json:"reorderLevel"`
	Description  *string        `json:"description"`
	ImageURL     *string        `json:"imageUrl"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateItemRequest) ToEntity(companyID string) *item.Item {
	it := item.NewItem(companyID, r.Code, r.Name, r.Type)
	it.Barcode = r.Barcode
	it.UOMID = r.UOMID
	if !r.StandardRate.IsZero() {
		it.StandardRate = r.StandardRate
	}
	it.ReorderLevel = r.ReorderLevel
	it.Description = r.Description
	it.ImageURL = r.ImageURL
	return it
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Code         string         `json:"code"`
	Name         string         `json:"name" binding:"required"`
	Type         item.ItemType  `json:"type" binding:"required"`
	Barcode      *string        `json:"barcode"`
	UOMID        *string        `json:"uomId"`
	StandardRate types.Money    `json:"standardRate"`
	ReorderLevel types.Quantity `json:"reorderLevel"`
	Description  *string        `json:"description"`
	ImageURL     *string        `json:"imageUrl"`
	Disabled     bool           `json:"disabled"`
	Version      int            `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.Name = r.Name
	it.Type = r.Type
	it.Barcode = r.Barcode
	it.UOMID = r.UOMID
	it.StandardRate = r.StandardRate
	it.ReorderLevel = r.ReorderLevel
	it.Description = r.Description
	it.ImageURL = r.ImageURL
	it.Disabled = r.Disabled
	it.Version = r.Version
}
