package document_repo

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/stock_transaction"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stockTransactionsTable     = "doc_stock_transactions"
	stockTransactionLinesTable = "doc_stock_transaction_lines"
)

var stockTransactionLineCols = []string{
	"line_id", "document_id", "line_no", "item_id", "quantity", "uom", "entered_qty", "rate",
}

// StockTransactionRepo implements domain.DocumentRepository for stock
// transactions.
type StockTransactionRepo struct {
	*BaseDocumentRepo[*stock_transaction.StockTransaction]
}

// NewStockTransactionRepo creates a new stock transaction repository.
func NewStockTransactionRepo(txm *postgres.TxManager) *StockTransactionRepo {
	return &StockTransactionRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			stockTransactionsTable,
			postgres.ExtractDBColumns[stock_transaction.StockTransaction](),
			func() *stock_transaction.StockTransaction { return &stock_transaction.StockTransaction{} },
		),
	}
}

func (r *StockTransactionRepo) Create(ctx context.Context, doc *stock_transaction.StockTransaction) error {
	if err := r.CreateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *StockTransactionRepo) Update(ctx context.Context, doc *stock_transaction.StockTransaction) error {
	if err := r.UpdateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *StockTransactionRepo) GetByID(ctx context.Context, companyID string, docID id.ID) (*stock_transaction.StockTransaction, error) {
	doc, err := r.GetHeaderByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *StockTransactionRepo) GetByNumber(ctx context.Context, companyID, number string) (*stock_transaction.StockTransaction, error) {
	doc, err := r.GetHeaderByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *StockTransactionRepo) List(ctx context.Context, companyID string, filter domain.DocListFilter) (domain.ListResult[*stock_transaction.StockTransaction], error) {
	return r.ListHeaders(ctx, companyID, filter)
}

func (r *StockTransactionRepo) withLines(ctx context.Context, doc *stock_transaction.StockTransaction) (*stock_transaction.StockTransaction, error) {
	lines, err := selectLines[stock_transaction.Line](ctx, r.Querier(ctx), stockTransactionLinesTable,
		[]string{"line_id", "line_no", "item_id", "quantity", "uom", "entered_qty", "rate"}, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *StockTransactionRepo) saveLines(ctx context.Context, doc *stock_transaction.StockTransaction) error {
	rows := make([][]any, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		rows = append(rows, []any{
			line.LineID, doc.ID, line.LineNo, line.ItemID, line.Quantity, line.UOM, line.EnteredQty, line.Rate,
		})
	}
	return replaceLines(ctx, r.Querier(ctx), stockTransactionLinesTable, stockTransactionLineCols, doc.ID, rows)
}
