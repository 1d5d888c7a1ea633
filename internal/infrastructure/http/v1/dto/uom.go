package dto

import (
	"github.com/shopspring/decimal"

	"stockroom/internal/domain/catalogs/uom"
)

// CreateUOMRequest is the request body for creating a unit of measure.
type CreateUOMRequest struct {
	Code             string          `json:"code"`
	Name             string          `json:"name" binding:"required"`
	Symbol           string          `json:"symbol" binding:"required"`
	BaseUOMID        *string         `json:"baseUomId"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateUOMRequest) ToEntity(companyID string) *uom.UOM {
	if r.BaseUOMID != nil && *r.BaseUOMID != "" {
		return uom.NewDerivedUOM(companyID, r.Code, r.Name, r.Symbol, *r.BaseUOMID, r.ConversionFactor)
	}
	return uom.NewUOM(companyID, r.Code, r.Name, r.Symbol)
}

// UpdateUOMRequest is the request body for updating a unit of measure.
type UpdateUOMRequest struct {
	Code             string          `json:"code"`
	Name             string          `json:"name" binding:"required"`
	Symbol           string          `json:"symbol" binding:"required"`
	BaseUOMID        *string         `json:"baseUomId"`
	ConversionFactor decimal.Decimal `json:"conversionFactor"`
	Disabled         bool            `json:"disabled"`
	Version          int             `json:"version" binding:"required,min=1"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateUOMRequest) ApplyTo(u *uom.UOM) {
	u.Code = r.Code
	u.Name = r.Name
	u.Symbol = r.Symbol
	u.BaseUOMID = r.BaseUOMID
	u.ConversionFactor = r.ConversionFactor
	u.IsBase = r.BaseUOMID == nil || *r.BaseUOMID == ""
	u.Disabled = r.Disabled
	u.Version = r.Version
}
