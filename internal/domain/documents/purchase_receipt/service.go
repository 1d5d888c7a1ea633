package purchase_receipt

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/domain"
	"stockroom/internal/domain/posting"
)

// Repository defines persistence for purchase receipts.
type Repository interface {
	domain.DocumentRepository[*PurchaseReceipt]
}

// Service provides business operations for purchase receipts.
type Service struct {
	*domain.DocumentService[*PurchaseReceipt]
}

// NewService creates a new purchase receipt service.
func NewService(repo Repository, engine *posting.Engine, num numerator.Generator, txm tx.Manager) *Service {
	return &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*PurchaseReceipt]{
			Repo:      repo,
			Engine:    engine,
			Numerator: num,
			TxManager: txm,
			DocName:   "purchase receipt",
			NumPrefix: "PR",
		}),
	}
}

// Receive posts the receipt: goods land in the warehouse at the purchase
// rate, and GL entries are recorded by the after-post hook.
func (s *Service) Receive(ctx context.Context, companyID string, docID id.ID) error {
	return s.Post(ctx, companyID, docID)
}
