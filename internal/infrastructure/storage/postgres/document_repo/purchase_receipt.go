package document_repo

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/purchase_receipt"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	purchaseReceiptsTable     = "doc_purchase_receipts"
	purchaseReceiptLinesTable = "doc_purchase_receipt_lines"
)

var purchaseReceiptLineCols = []string{
	"line_id", "document_id", "line_no", "item_id", "quantity", "rate", "amount",
}

// PurchaseReceiptRepo implements domain.DocumentRepository for purchase
// receipts.
type PurchaseReceiptRepo struct {
	*BaseDocumentRepo[*purchase_receipt.PurchaseReceipt]
}

// NewPurchaseReceiptRepo creates a new purchase receipt repository.
func NewPurchaseReceiptRepo(txm *postgres.TxManager) *PurchaseReceiptRepo {
	return &PurchaseReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			purchaseReceiptsTable,
			postgres.ExtractDBColumns[purchase_receipt.PurchaseReceipt](),
			func() *purchase_receipt.PurchaseReceipt { return &purchase_receipt.PurchaseReceipt{} },
		),
	}
}

func (r *PurchaseReceiptRepo) Create(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) error {
	if err := r.CreateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *PurchaseReceiptRepo) Update(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) error {
	if err := r.UpdateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *PurchaseReceiptRepo) GetByID(ctx context.Context, companyID string, docID id.ID) (*purchase_receipt.PurchaseReceipt, error) {
	doc, err := r.GetHeaderByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *PurchaseReceiptRepo) GetByNumber(ctx context.Context, companyID, number string) (*purchase_receipt.PurchaseReceipt, error) {
	doc, err := r.GetHeaderByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *PurchaseReceiptRepo) List(ctx context.Context, companyID string, filter domain.DocListFilter) (domain.ListResult[*purchase_receipt.PurchaseReceipt], error) {
	return r.ListHeaders(ctx, companyID, filter)
}

func (r *PurchaseReceiptRepo) withLines(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) (*purchase_receipt.PurchaseReceipt, error) {
	lines, err := selectLines[purchase_receipt.Line](ctx, r.Querier(ctx), purchaseReceiptLinesTable,
		[]string{"line_id", "line_no", "item_id", "quantity", "rate", "amount"}, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *PurchaseReceiptRepo) saveLines(ctx context.Context, doc *purchase_receipt.PurchaseReceipt) error {
	rows := make([][]any, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		rows = append(rows, []any{
			line.LineID, doc.ID, line.LineNo, line.ItemID, line.Quantity, line.Rate, line.Amount,
		})
	}
	return replaceLines(ctx, r.Querier(ctx), purchaseReceiptLinesTable, purchaseReceiptLineCols, doc.ID, rows)
}
