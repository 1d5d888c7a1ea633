package gl

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/pos_sale"
	"stockroom/internal/domain/documents/purchase_receipt"
	"stockroom/internal/domain/documents/stock_adjustment"
	"stockroom/internal/domain/posting"
	"stockroom/internal/domain/registers/stock"
	"stockroom/pkg/logger"
)

// Service records journal entries for posted documents. It hangs off the
// posting engine's hooks, so GL lines commit in the same transaction as
// the stock movements they mirror: unposting the document removes both.
type Service struct {
	repo      Repository
	stockRepo stock.Repository
}

// NewService creates a GL service.
func NewService(repo Repository, stockRepo stock.Repository) *Service {
	return &Service{
		repo:      repo,
		stockRepo: stockRepo,
	}
}

// RegisterHooks wires the service into the posting engine.
func (s *Service) RegisterHooks(engine *posting.Engine) {
	engine.OnPosted("PurchaseReceipt", s.onPurchasePosted)
	engine.OnPosted("POSSale", s.onSalePosted)
	engine.OnPosted("StockAdjustment", s.onAdjustmentPosted)

	engine.OnUnposted("PurchaseReceipt", s.onUnposted)
	engine.OnUnposted("POSSale", s.onUnposted)
	engine.OnUnposted("StockAdjustment", s.onUnposted)
}

// GetByRecorder returns the journal lines of one document.
func (s *Service) GetByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]Entry, error) {
	return s.repo.GetByRecorder(ctx, companyID, recorderID)
}

// TrialBalance sums debits and credits per account over a period.
func (s *Service) TrialBalance(ctx context.Context, companyID string, from, to time.Time) ([]AccountBalance, error) {
	return s.repo.TrialBalance(ctx, companyID, from, to)
}

func (s *Service) onPurchasePosted(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
	pr, ok := doc.(*purchase_receipt.PurchaseReceipt)
	if !ok {
		return nil
	}

	j := NewJournal(pr.ID, pr.GetDocumentType(), pr.CompanyID, pr.Date)
	j.Debit(AccountInventory, pr.TotalAmount, fmt.Sprintf("Goods received %s", pr.Number))
	j.Credit(AccountPayable, pr.TotalAmount, pr.SupplierName)

	return s.write(ctx, j)
}

func (s *Service) onSalePosted(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
	sale, ok := doc.(*pos_sale.POSSale)
	if !ok {
		return nil
	}

	cogs, err := s.ledgerCost(ctx, sale.CompanyID, sale.ID)
	if err != nil {
		return err
	}

	j := NewJournal(sale.ID, sale.GetDocumentType(), sale.CompanyID, sale.Date)
	j.Debit(AccountCash, sale.TotalAmount, fmt.Sprintf("Sale %s", sale.Number))
	j.Credit(AccountSales, sale.TotalAmount, fmt.Sprintf("Sale %s", sale.Number))
	j.Debit(AccountCOGS, cogs, fmt.Sprintf("Cost of sale %s", sale.Number))
	j.Credit(AccountInventory, cogs, fmt.Sprintf("Cost of sale %s", sale.Number))

	return s.write(ctx, j)
}

func (s *Service) onAdjustmentPosted(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
	adj, ok := doc.(*stock_adjustment.StockAdjustment)
	if !ok {
		return nil
	}

	// Net value change is the sum of the ledger deltas this posting wrote.
	delta, err := s.ledgerDelta(ctx, adj.CompanyID, adj.ID)
	if err != nil {
		return err
	}
	if delta.IsZero() {
		return nil
	}

	j := NewJournal(adj.ID, adj.GetDocumentType(), adj.CompanyID, adj.Date)
	if delta.IsPositive() {
		j.Debit(AccountInventory, delta, fmt.Sprintf("Adjustment %s", adj.Number))
		j.Credit(AccountStockAdjustment, delta, adj.Reason)
	} else {
		loss := delta.Neg()
		j.Debit(AccountStockAdjustment, loss, adj.Reason)
		j.Credit(AccountInventory, loss, fmt.Sprintf("Adjustment %s", adj.Number))
	}

	return s.write(ctx, j)
}

func (s *Service) onUnposted(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
	n, err := s.repo.DeleteByRecorder(ctx, doc.GetCompanyID(), doc.GetID())
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Info(ctx, "journal entries removed",
			"document_id", doc.GetID().String(),
			"entries", n)
	}
	return nil
}

func (s *Service) write(ctx context.Context, j *Journal) error {
	entries, err := j.Entries()
	if err != nil {
		return err
	}
	return s.repo.InsertEntries(ctx, entries)
}

// ledgerCost sums the absolute value issued by a document's ledger entries.
func (s *Service) ledgerCost(ctx context.Context, companyID string, recorderID id.ID) (types.Money, error) {
	entries, err := s.stockRepo.GetEntriesByRecorder(ctx, companyID, recorderID)
	if err != nil {
		return types.ZeroMoney(), err
	}

	cost := types.ZeroMoney()
	for _, e := range entries {
		cost = cost.Add(e.StockValueBefore.Sub(e.StockValueAfter))
	}
	return cost, nil
}

// ledgerDelta sums the signed value change of a document's ledger entries.
func (s *Service) ledgerDelta(ctx context.Context, companyID string, recorderID id.ID) (types.Money, error) {
	entries, err := s.stockRepo.GetEntriesByRecorder(ctx, companyID, recorderID)
	if err != nil {
		return types.ZeroMoney(), err
	}

	delta := types.ZeroMoney()
	for _, e := range entries {
		delta = delta.Add(e.StockValueAfter.Sub(e.StockValueBefore))
	}
	return delta, nil
}
