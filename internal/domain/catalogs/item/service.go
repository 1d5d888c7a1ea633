package item

import (
	"context"

	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
)

// Service provides business logic for the Item catalog.
// Composes domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo Repository
}

// NewService creates a new Item service.
func NewService(repo Repository, txm tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  num,
		EntityName: "item",
		CodePrefix: "ITEM",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// GetByBarcode retrieves an item by barcode.
func (s *Service) GetByBarcode(ctx context.Context, companyID, barcode string) (*Item, error) {
	return s.repo.GetByBarcode(ctx, companyID, barcode)
}
