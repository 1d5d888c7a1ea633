package stock_adjustment

import (
	"context"

	"stockroom/internal/core/appctx"
	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/posting"
)

// Repository defines persistence for stock adjustments.
type Repository interface {
	domain.DocumentRepository[*StockAdjustment]
}

// Service provides business operations for stock adjustments.
type Service struct {
	*domain.DocumentService[*StockAdjustment]
	repo Repository
}

// NewService creates a new stock adjustment service.
func NewService(repo Repository, engine *posting.Engine, num numerator.Generator, txm tx.Manager) *Service {
	return &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*StockAdjustment]{
			Repo:      repo,
			Engine:    engine,
			Numerator: num,
			TxManager: txm,
			DocName:   "stock adjustment",
			NumPrefix: "ADJ",
		}),
		repo: repo,
	}
}

// Approve moves the adjustment to approved, recording the approver.
func (s *Service) Approve(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	if err := doc.Approve(appctx.GetUserID(ctx)); err != nil {
		return err
	}

	return s.repo.Update(ctx, doc)
}
