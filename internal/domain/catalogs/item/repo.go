package item

import (
	"context"

	"stockroom/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// GetByBarcode retrieves an item by barcode (POS lookups).
	GetByBarcode(ctx context.Context, companyID, barcode string) (*Item, error)
}
