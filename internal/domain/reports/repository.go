package reports

import (
	"context"
)

// Repository defines report data access. All queries are scoped to one
// company.
type Repository interface {
	GetStockBalanceReport(ctx context.Context, companyID string, filter StockBalanceFilter) (*StockBalanceReport, error)
	GetStockTurnoverReport(ctx context.Context, companyID string, filter StockTurnoverFilter) (*StockTurnoverReport, error)
	GetReorderReport(ctx context.Context, companyID string) ([]ReorderRow, error)

	GetDocumentJournal(ctx context.Context, companyID string, filter DocumentJournalFilter) (*DocumentJournal, error)
	GetDocumentTypeSummary(ctx context.Context, companyID string, filter DocumentJournalFilter) ([]DocumentTypeSummary, error)
}
