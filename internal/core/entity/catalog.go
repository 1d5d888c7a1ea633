package entity

import (
	"context"

	"stockroom/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Item, Warehouse, UnitOfMeasure.
type Catalog struct {
	BaseCatalog

	// Code is a human-readable identifier (unique within company)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`

	// CompanyID scopes the record to its owning company
	CompanyID string `db:"company_id" json:"companyId"`

	// Disabled excludes the record from new documents without deleting it
	Disabled bool `db:"disabled" json:"disabled"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(companyID, code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
		CompanyID:   companyID,
	}
}

// GetCode returns the catalog code.
func (c *Catalog) GetCode() string { return c.Code }

// SetCode assigns the catalog code (used by auto-numbering).
func (c *Catalog) SetCode(code string) { c.Code = code }

// GetCompanyID returns the owning company.
func (c *Catalog) GetCompanyID() string { return c.CompanyID }

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if c.CompanyID == "" {
		return apperror.NewValidation("company is required").
			WithDetail("field", "companyId")
	}

	// Code can be auto-generated, so it's optional at creation

	return nil
}
