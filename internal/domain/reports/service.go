package reports

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/appctx"
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetStockBalance generates the stock balance report.
func (s *Service) GetStockBalance(ctx context.Context, filter StockBalanceFilter) (*StockBalanceReport, error) {
	if filter.AsOfDate == nil {
		now := time.Now()
		filter.AsOfDate = &now
	}
	clampLimit(&filter.Limit, 100, 1000)

	report, err := s.repo.GetStockBalanceReport(ctx, appctx.GetCompanyID(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("get stock balance report: %w", err)
	}
	return report, nil
}

// GetStockTurnover generates the turnover report for a period.
func (s *Service) GetStockTurnover(ctx context.Context, filter StockTurnoverFilter) (*StockTurnoverReport, error) {
	if filter.FromDate.IsZero() || filter.ToDate.IsZero() {
		return nil, apperror.NewValidation("fromDate and toDate are required")
	}
	if filter.FromDate.After(filter.ToDate) {
		return nil, apperror.NewValidation("fromDate must be before toDate")
	}
	clampLimit(&filter.Limit, 100, 1000)

	report, err := s.repo.GetStockTurnoverReport(ctx, appctx.GetCompanyID(ctx), filter)
	if err != nil {
		return nil, fmt.Errorf("get stock turnover report: %w", err)
	}
	return report, nil
}

// GetReorderReport lists items at or below their reorder level.
func (s *Service) GetReorderReport(ctx context.Context) ([]ReorderRow, error) {
	rows, err := s.repo.GetReorderReport(ctx, appctx.GetCompanyID(ctx))
	if err != nil {
		return nil, fmt.Errorf("get reorder report: %w", err)
	}
	return rows, nil
}

// GetDocumentJournal returns the cross-type document journal.
func (s *Service) GetDocumentJournal(ctx context.Context, filter DocumentJournalFilter) (*DocumentJournal, error) {
	clampLimit(&filter.Limit, 50, 500)
	if filter.SortBy == "" {
		filter.SortBy = "date"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	companyID := appctx.GetCompanyID(ctx)
	journal, err := s.repo.GetDocumentJournal(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("get document journal: %w", err)
	}

	// Summary only on the first page.
	if filter.Offset == 0 {
		summary, err := s.repo.GetDocumentTypeSummary(ctx, companyID, filter)
		if err == nil {
			journal.Summary = summary
		}
	}

	return journal, nil
}

func clampLimit(limit *int, def, max int) {
	if *limit <= 0 {
		*limit = def
	}
	if *limit > max {
		*limit = max
	}
}
