package uom

import (
	"stockroom/internal/domain"
)

// Repository defines the interface for UOM persistence.
type Repository interface {
	domain.CatalogRepository[*UOM]
}
