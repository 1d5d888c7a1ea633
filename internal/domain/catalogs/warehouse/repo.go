package warehouse

import (
	"context"

	"stockroom/internal/domain"
)

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	domain.CatalogRepository[*Warehouse]

	// ClearDefault clears the default flag on all warehouses of a company.
	ClearDefault(ctx context.Context, companyID string) error
}
