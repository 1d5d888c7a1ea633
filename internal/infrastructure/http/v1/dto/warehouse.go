package dto

import (
	"stockroom/internal/domain/catalogs/warehouse"
)

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code        string                  `json:"code"`
	Name        string                  `json:"name" binding:"required"`
	Type        warehouse.WarehouseType `json:"type" binding:"required"`
	Address     *string                 `json:"address"`
	IsDefault   bool                    `json:"isDefault"`
	Description *string                 `json:"description"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateWarehouseRequest) ToEntity(companyID string) *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(companyID, r.Code, r.Name, r.Type)
	wh.Address = r.Address
	wh.IsDefault = r.IsDefault
	wh.Description = r.Description
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code        string                  `json:"code"`
	Name        string                  `json:"name" binding:"required"`
	Type        warehouse.WarehouseType `json:"type" binding:"required"`
	Address     *string                 `json:"address"`
	IsDefault   bool                    `json:"isDefault"`
	Description *string                 `json:"description"`
	Disabled    bool                    `json:"disabled"`
	Version     int                     `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Type = r.Type
	wh.Address = r.Address
	wh.IsDefault = r.IsDefault
	wh.Description = r.Description
	wh.Disabled = r.Disabled
	wh.Version = r.Version
}
