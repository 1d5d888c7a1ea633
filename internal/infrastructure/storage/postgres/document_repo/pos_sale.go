package document_repo

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/pos_sale"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	posSalesTable     = "doc_pos_sales"
	posSaleLinesTable = "doc_pos_sale_lines"
)

var posSaleLineCols = []string{
	"line_id", "document_id", "line_no", "item_id", "quantity", "rate", "amount",
}

// POSSaleRepo implements domain.DocumentRepository for POS sales.
type POSSaleRepo struct {
	*BaseDocumentRepo[*pos_sale.POSSale]
}

// NewPOSSaleRepo creates a new POS sale repository.
func NewPOSSaleRepo(txm *postgres.TxManager) *POSSaleRepo {
	return &POSSaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			posSalesTable,
			postgres.ExtractDBColumns[pos_sale.POSSale](),
			func() *pos_sale.POSSale { return &pos_sale.POSSale{} },
		),
	}
}

func (r *POSSaleRepo) Create(ctx context.Context, doc *pos_sale.POSSale) error {
	if err := r.CreateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *POSSaleRepo) Update(ctx context.Context, doc *pos_sale.POSSale) error {
	if err := r.UpdateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *POSSaleRepo) GetByID(ctx context.Context, companyID string, docID id.ID) (*pos_sale.POSSale, error) {
	doc, err := r.GetHeaderByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *POSSaleRepo) GetByNumber(ctx context.Context, companyID, number string) (*pos_sale.POSSale, error) {
	doc, err := r.GetHeaderByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *POSSaleRepo) List(ctx context.Context, companyID string, filter domain.DocListFilter) (domain.ListResult[*pos_sale.POSSale], error) {
	return r.ListHeaders(ctx, companyID, filter)
}

func (r *POSSaleRepo) withLines(ctx context.Context, doc *pos_sale.POSSale) (*pos_sale.POSSale, error) {
	lines, err := selectLines[pos_sale.Line](ctx, r.Querier(ctx), posSaleLinesTable,
		[]string{"line_id", "line_no", "item_id", "quantity", "rate", "amount"}, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *POSSaleRepo) saveLines(ctx context.Context, doc *pos_sale.POSSale) error {
	rows := make([][]any, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		rows = append(rows, []any{
			line.LineID, doc.ID, line.LineNo, line.ItemID, line.Quantity, line.Rate, line.Amount,
		})
	}
	return replaceLines(ctx, r.Querier(ctx), posSaleLinesTable, posSaleLineCols, doc.ID, rows)
}
