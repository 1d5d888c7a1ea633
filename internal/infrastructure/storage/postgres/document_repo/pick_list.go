package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/id"
	"stockroom/internal/domain"
	"stockroom/internal/domain/documents/pick_list"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	pickListsTable     = "doc_pick_lists"
	pickListLinesTable = "doc_pick_list_lines"
)

var pickListLineCols = []string{
	"line_id", "document_id", "line_no", "item_id", "quantity", "picked_qty",
}

// PickListRepo implements domain.DocumentRepository for pick lists.
type PickListRepo struct {
	*BaseDocumentRepo[*pick_list.PickList]
}

// NewPickListRepo creates a new pick list repository.
func NewPickListRepo(txm *postgres.TxManager) *PickListRepo {
	return &PickListRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			pickListsTable,
			postgres.ExtractDBColumns[pick_list.PickList](),
			func() *pick_list.PickList { return &pick_list.PickList{} },
		),
	}
}

func (r *PickListRepo) Create(ctx context.Context, doc *pick_list.PickList) error {
	if err := r.CreateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *PickListRepo) Update(ctx context.Context, doc *pick_list.PickList) error {
	if err := r.UpdateHeader(ctx, doc); err != nil {
		return err
	}
	return r.saveLines(ctx, doc)
}

func (r *PickListRepo) GetByID(ctx context.Context, companyID string, docID id.ID) (*pick_list.PickList, error) {
	doc, err := r.GetHeaderByID(ctx, companyID, docID)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *PickListRepo) GetByNumber(ctx context.Context, companyID, number string) (*pick_list.PickList, error) {
	doc, err := r.GetHeaderByNumber(ctx, companyID, number)
	if err != nil {
		return nil, err
	}
	return r.withLines(ctx, doc)
}

func (r *PickListRepo) List(ctx context.Context, companyID string, filter domain.DocListFilter) (domain.ListResult[*pick_list.PickList], error) {
	return r.ListHeaders(ctx, companyID, filter)
}

// ListByStatus returns pick lists in the given status, oldest first.
// Used by the picking queue view.
func (r *PickListRepo) ListByStatus(ctx context.Context, companyID string, status pick_list.Status) ([]*pick_list.PickList, error) {
	q := r.baseSelect(companyID).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"status": status}).
		OrderBy("date ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []*pick_list.PickList
	if err := pgxscan.Select(ctx, r.Querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list by status: %w", err)
	}
	return docs, nil
}

func (r *PickListRepo) withLines(ctx context.Context, doc *pick_list.PickList) (*pick_list.PickList, error) {
	lines, err := selectLines[pick_list.Line](ctx, r.Querier(ctx), pickListLinesTable,
		[]string{"line_id", "line_no", "item_id", "quantity", "picked_qty"}, doc.ID)
	if err != nil {
		return nil, err
	}
	doc.Lines = lines
	return doc, nil
}

func (r *PickListRepo) saveLines(ctx context.Context, doc *pick_list.PickList) error {
	rows := make([][]any, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		rows = append(rows, []any{
			line.LineID, doc.ID, line.LineNo, line.ItemID, line.Quantity, line.PickedQty,
		})
	}
	return replaceLines(ctx, r.Querier(ctx), pickListLinesTable, pickListLineCols, doc.ID, rows)
}
