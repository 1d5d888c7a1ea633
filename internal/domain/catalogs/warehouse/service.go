package warehouse

import (
	"context"

	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
)

// Service provides business logic for the Warehouse catalog.
type Service struct {
	*domain.CatalogService[*Warehouse]
	repo Repository
}

// NewService creates a new Warehouse service.
func NewService(repo Repository, txm tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Warehouse]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  num,
		EntityName: "warehouse",
		CodePrefix: "WH",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	// Only one default warehouse per company.
	base.Hooks().On(domain.BeforeCreate, svc.ensureSingleDefault)
	base.Hooks().On(domain.BeforeUpdate, svc.ensureSingleDefault)

	return svc
}

func (s *Service) ensureSingleDefault(ctx context.Context, wh *Warehouse) error {
	if wh.IsDefault {
		return s.repo.ClearDefault(ctx, wh.CompanyID)
	}
	return nil
}
