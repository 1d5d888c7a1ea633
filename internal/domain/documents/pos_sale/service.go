package pos_sale

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/posting"
)

// Repository defines persistence for POS sales.
type Repository interface {
	domain.DocumentRepository[*POSSale]
}

// Service provides business operations for POS sales.
type Service struct {
	*domain.DocumentService[*POSSale]
}

// NewService creates a new POS sale service.
func NewService(repo Repository, engine *posting.Engine, num numerator.Generator, txm tx.Manager) *Service {
	return &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*POSSale]{
			Repo:      repo,
			Engine:    engine,
			Numerator: num,
			TxManager: txm,
			DocName:   "pos sale",
			NumPrefix: "POS",
		}),
	}
}

// Sell creates and posts the sale in one transaction. Insufficient stock
// on any line rejects the whole sale.
func (s *Service) Sell(ctx context.Context, sale *POSSale) error {
	return s.PostAndSave(ctx, sale)
}

// Void reverses a posted sale (returned goods go back to stock at their
// ledger value).
func (s *Service) Void(ctx context.Context, companyID string, docID id.ID) error {
	return s.Unpost(ctx, companyID, docID)
}
