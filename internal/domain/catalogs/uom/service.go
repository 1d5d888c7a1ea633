package uom

import (
	"context"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
)

// Service provides business logic for the UOM catalog.
type Service struct {
	*domain.CatalogService[*UOM]
	repo Repository
}

// NewService creates a new UOM service.
func NewService(repo Repository, txm tx.Manager, num numerator.Generator) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*UOM]{
		Repo:       repo,
		TxManager:  txm,
		Numerator:  num,
		EntityName: "uom",
		CodePrefix: "UOM",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().On(domain.BeforeCreate, svc.checkBaseRef)
	base.Hooks().On(domain.BeforeUpdate, svc.checkBaseRef)

	return svc
}

// checkBaseRef ensures a derived unit references an existing base unit,
// and that the referenced unit is actually a base (no conversion chains).
func (s *Service) checkBaseRef(ctx context.Context, u *UOM) error {
	if u.BaseUOMID == nil || *u.BaseUOMID == "" {
		return nil
	}

	base, err := s.repo.GetByCode(ctx, u.CompanyID, *u.BaseUOMID)
	if err != nil {
		return apperror.NewValidation("base unit not found").
			WithDetail("field", "baseUomId").
			WithDetail("value", *u.BaseUOMID)
	}
	if !base.IsBase {
		return apperror.NewValidation("base unit must itself be a base unit").
			WithDetail("field", "baseUomId")
	}
	return nil
}

// NormalizeQuantity converts a document-line quantity from the given unit
// to the item's base unit. An empty unit code means the base unit.
func (s *Service) NormalizeQuantity(ctx context.Context, companyID, uomCode string, qty types.Quantity) (types.Quantity, error) {
	if uomCode == "" {
		return qty, nil
	}

	u, err := s.repo.GetByCode(ctx, companyID, uomCode)
	if err != nil {
		return 0, apperror.NewValidation("unknown unit of measure").
			WithDetail("uom", uomCode)
	}

	return u.ConvertToBase(qty), nil
}
