package stock_transaction

import (
	"context"

	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/posting"
)

// Repository defines persistence for stock transactions.
type Repository interface {
	domain.DocumentRepository[*StockTransaction]
}

// Normalizer converts a quantity entered in a packaging unit to the
// item's base unit. The UOM catalog service implements it.
type Normalizer interface {
	NormalizeQuantity(ctx context.Context, companyID, uomCode string, qty types.Quantity) (types.Quantity, error)
}

// Service provides business operations for stock transactions.
type Service struct {
	*domain.DocumentService[*StockTransaction]
	normalizer Normalizer
}

// NewService creates a new stock transaction service.
func NewService(repo Repository, engine *posting.Engine, num numerator.Generator, txm tx.Manager, norm Normalizer) *Service {
	svc := &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*StockTransaction]{
			Repo:      repo,
			Engine:    engine,
			Numerator: num,
			TxManager: txm,
			DocName:   "stock transaction",
			NumPrefix: "ST",
		}),
		normalizer: norm,
	}

	if norm != nil {
		svc.Hooks().On(domain.BeforeCreate, svc.normalizeLines)
		svc.Hooks().On(domain.BeforeUpdate, svc.normalizeLines)
	}

	return svc
}

// PostAndSave normalizes line units, then creates and posts in one call.
func (s *Service) PostAndSave(ctx context.Context, doc *StockTransaction) error {
	if s.normalizer != nil {
		if err := s.normalizeLines(ctx, doc); err != nil {
			return err
		}
	}
	return s.DocumentService.PostAndSave(ctx, doc)
}

// normalizeLines converts entered quantities to base units for lines
// recorded in a packaging unit.
func (s *Service) normalizeLines(ctx context.Context, doc *StockTransaction) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.UOM == "" {
			continue
		}
		qty, err := s.normalizer.NormalizeQuantity(ctx, doc.CompanyID, line.UOM, line.EnteredQty)
		if err != nil {
			return err
		}
		line.Quantity = qty
	}
	doc.recalculateTotals()
	return nil
}
