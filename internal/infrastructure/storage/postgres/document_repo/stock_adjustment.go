package document_repo

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stock_adjustment"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stockAdjustmentsTable     = "doc_stock_adjustments"
	stockAdjustmentLinesTable = "doc_stock_adjustment_lines"
)

var stockAdjustmentLineCols = []string{
	"line_id", "document_id", "line_no", "item_id", "current_qty", "adjusted_qty", "rate",
}

// StockAdjustmentRepo implements domain.DocumentRepository for stock
// adjustments.
type StockAdjustmentRepo struct {
	*BaseDocumentRepo[*stock_adjustment.StockAdjustment]
}

// NewStockAdjustmentRepo creates a new stock adjustment repository.
func NewStockAdjustmentRepo(txm *postgres.TxManager) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			stockAdjustmentsTable,
			postgres.ExtractDBColumns[stock_adjustment.StockAdjustment](),
			func() *stock_adjustment.StockAdjustment { return &stock_adjustment.StockAdjustment{} },
		),
	}
}

func (r *StockAdjustmentRepo) Create(ctx context.Context, doc *stock_adjustment.StockAdjustment) error {
	if err := r.CreateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *StockAdjustmentRepo) Update(ctx context.Context, doc *stock_adjustment.StockAdjustment) error {
	if err := r.UpdateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *StockAdjustmentRepo) GetByID(ctx context.Context, companyID string, docID id.ID) (*stock_adjustment.StockAdjustment, error) {
	doc, err := r.GetHeaderByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *StockAdjustmentRepo) GetByNumber(ctx context.Context, companyID, number string) (*stock_adjustment.StockAdjustment, error) {
	doc, err := r.GetHeaderByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *StockAdjustmentRepo) List(ctx context.Context, companyID string, filter domain.DocListFilter) (domain.ListResult[*stock_adjustment.StockAdjustment], error) {
	return r.ListHeaders(ctx, companyID, filter)
}

func (r *StockAdjustmentRepo) withLines(ctx context.Context, doc *stock_adjustment.StockAdjustment) (*stock_adjustment.StockAdjustment, error) {
	lines, err := selectLines[stock_adjustment.Line](ctx, r.Querier(ctx), stockAdjustmentLinesTable,
		[]string{"line_id", "line_no", "item_id", "current_qty", "adjusted_qty", "rate"}, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *StockAdjustmentRepo) saveLines(ctx context.Context, doc *stock_adjustment.StockAdjustment) error {
	rows := make([][]any, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		rows = append(rows, []any{
			line.LineID, doc.ID, line.LineNo, line.ItemID, line.CurrentQty, line.AdjustedQty, line.Rate,
		})
	}
	return replaceLines(ctx, r.Querier(ctx), stockAdjustmentLinesTable, stockAdjustmentLineCols, doc.ID, rows)
}
