// Package uom provides the unit of measure catalog. Documents may capture
// quantities in any unit; everything is normalized to the base unit before
// it reaches the stock register.
package uom

import (
	"context"

	"github.com/shopspring/decimal"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/types"
)

// UOM represents a measurement unit.
type UOM struct {
	entity.Catalog

	// Symbol is the short symbol (e.g., "kg", "m", "pcs")
	Symbol string `db:"symbol" json:"symbol"`

	// BaseUOMID is reference to the base unit for conversions
	BaseUOMID *string `db:"base_uom_id" json:"baseUomId,omitempty"`

	// ConversionFactor is the multiplier to convert to the base unit,
	// e.g. for "box of 12" with base "piece": factor = 12
	ConversionFactor decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`

	// IsBase indicates if this is a base unit (not derived)
	IsBase bool `db:"is_base" json:"isBase"`
}

// NewUOM creates a new base unit.
func NewUOM(companyID, code, name, symbol string) *UOM {
	return &UOM{
		Catalog:          entity.NewCatalog(companyID, code, name),
		Symbol:           symbol,
		ConversionFactor: decimal.NewFromInt(1),
		IsBase:           true,
	}
}

// NewDerivedUOM creates a unit expressed in terms of a base unit.
func NewDerivedUOM(companyID, code, name, symbol, baseUOMID string, factor decimal.Decimal) *UOM {
	return &UOM{
		Catalog:          entity.NewCatalog(companyID, code, name),
		Symbol:           symbol,
		BaseUOMID:        &baseUOMID,
		ConversionFactor: factor,
	}
}

// Validate implements entity.Validatable interface.
func (u *UOM) Validate(ctx context.Context) error {
	if err := u.Catalog.Validate(ctx); err != nil {
		return err
	}

	if u.Symbol == "" {
		return apperror.NewValidation("symbol is required").
			WithDetail("field", "symbol")
	}

	if !u.ConversionFactor.IsPositive() {
		return apperror.NewValidation("conversion factor must be positive").
			WithDetail("field", "conversionFactor")
	}

	if u.BaseUOMID != nil && *u.BaseUOMID != "" && u.IsBase {
		return apperror.NewValidation("unit with base unit reference cannot be marked as base").
			WithDetail("field", "isBase")
	}

	return nil
}

// ConvertToBase converts a quantity in this unit to the base unit.
func (u *UOM) ConvertToBase(qty types.Quantity) types.Quantity {
	if u.IsBase || u.ConversionFactor.Equal(decimal.NewFromInt(1)) {
		return qty
	}
	converted := qty.Decimal().Mul(u.ConversionFactor)
	f, _ := converted.Float64()
	return types.NewQuantityFromFloat64(f)
}
