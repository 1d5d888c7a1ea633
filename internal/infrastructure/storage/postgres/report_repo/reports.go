// Package report_repo provides PostgreSQL implementations for report
// repositories. Reports read across registers, catalogs and document
// tables, so they live outside the per-aggregate repos.
package report_repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/id"
	"stockroom/internal/domain/reports"
	"stockroom/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// GetStockBalanceReport builds stock balances as of a date with item and
// warehouse details. Quantity and value are reconstructed from the
// ledger so the report works for any historical date; reserved comes
// from the live balance row and only applies to a current-date report.
func (r *ReportRepo) GetStockBalanceReport(ctx context.Context, companyID string, filter reports.StockBalanceFilter) (*reports.StockBalanceReport, error) {
	asOfDate := time.Now().UTC()
	if filter.AsOfDate != nil {
		asOfDate = *filter.AsOfDate
	}

	query := `
		WITH balance_data AS (
			SELECT
				l.warehouse_id,
				l.item_id,
				SUM(CASE WHEN l.record_type = 'receipt' THEN l.quantity ELSE -l.quantity END) AS quantity,
				SUM(l.stock_value_after - l.stock_value_before) AS stock_value
			FROM reg_stock_ledger l
			WHERE l.company_id = $1 AND l.period <= $2
	`
	args := []any{companyID, asOfDate}

	query, args = appendIDFilter(query, args, "l.warehouse_id", filter.WarehouseIDs)
	query, args = appendIDFilter(query, args, "l.item_id", filter.ItemIDs)

	query += `
			GROUP BY l.warehouse_id, l.item_id
	`
	if filter.ExcludeZero {
		query += ` HAVING SUM(CASE WHEN l.record_type = 'receipt' THEN l.quantity ELSE -l.quantity END) != 0`
	}

	query += `
		)
		SELECT
			bd.warehouse_id,
			w.name AS warehouse_name,
			bd.item_id,
			i.code AS item_code,
			i.name AS item_name,
			COALESCE(u.symbol, '') AS uom_symbol,
			bd.quantity,
			COALESCE(b.reserved, 0) AS reserved,
			CASE WHEN bd.quantity > 0
				THEN bd.stock_value / (bd.quantity::numeric / 10000)
				ELSE 0 END AS valuation_rate,
			bd.stock_value
		FROM balance_data bd
		JOIN cat_warehouse w ON w.id = bd.warehouse_id
		JOIN cat_item i ON i.id = bd.item_id
		LEFT JOIN cat_uom u ON u.id::text = i.uom_id
		LEFT JOIN reg_stock_balances b
			ON b.company_id = $1 AND b.warehouse_id = bd.warehouse_id AND b.item_id = bd.item_id
		ORDER BY w.name, i.name
	`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var items []reports.StockBalanceRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, args...); err != nil {
		return nil, fmt.Errorf("stock balance report: %w", err)
	}

	report := &reports.StockBalanceReport{
		AsOfDate:   asOfDate,
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalQuantity += item.Quantity
		report.TotalValue = report.TotalValue.Add(item.StockValue)
	}

	return report, nil
}

// GetStockTurnoverReport builds opening, receipt, expense and closing
// quantities per warehouse and item over a period.
func (r *ReportRepo) GetStockTurnoverReport(ctx context.Context, companyID string, filter reports.StockTurnoverFilter) (*reports.StockTurnoverReport, error) {
	query := `
		WITH turnover_data AS (
			SELECT
				l.warehouse_id,
				l.item_id,
				COALESCE(SUM(CASE WHEN l.period < $2 THEN (CASE WHEN l.record_type = 'receipt' THEN l.quantity ELSE -l.quantity END) END), 0) AS opening,
				COALESCE(SUM(CASE WHEN l.period >= $2 AND l.period <= $3 AND l.record_type = 'receipt' THEN l.quantity END), 0) AS receipt,
				COALESCE(SUM(CASE WHEN l.period >= $2 AND l.period <= $3 AND l.record_type = 'expense' THEN l.quantity END), 0) AS expense
			FROM reg_stock_ledger l
			WHERE l.company_id = $1 AND l.period <= $3
	`
	args := []any{companyID, filter.FromDate, filter.ToDate}

	query, args = appendIDFilter(query, args, "l.warehouse_id", filter.WarehouseIDs)
	query, args = appendIDFilter(query, args, "l.item_id", filter.ItemIDs)

	query += `
			GROUP BY l.warehouse_id, l.item_id
		)
		SELECT
			td.warehouse_id,
			w.name AS warehouse_name,
			td.item_id,
			i.code AS item_code,
			i.name AS item_name,
			td.opening,
			td.receipt,
			td.expense,
			td.opening + td.receipt - td.expense AS closing
		FROM turnover_data td
		JOIN cat_warehouse w ON w.id = td.warehouse_id
		JOIN cat_item i ON i.id = td.item_id
	`
	if !filter.IncludeZero {
		query += ` WHERE td.receipt != 0 OR td.expense != 0`
	}
	query += ` ORDER BY w.name, i.name`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var items []reports.StockTurnoverRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, args...); err != nil {
		return nil, fmt.Errorf("stock turnover report: %w", err)
	}

	report := &reports.StockTurnoverReport{
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
		Items:      items,
		TotalItems: len(items),
	}
	for _, item := range items {
		report.TotalReceipt += item.Receipt
		report.TotalExpense += item.Expense
	}

	return report, nil
}

// GetReorderReport lists items whose total on-hand quantity across all
// warehouses is at or below their reorder level.
func (r *ReportRepo) GetReorderReport(ctx context.Context, companyID string) ([]reports.ReorderRow, error) {
	query := `
		SELECT
			i.id AS item_id,
			i.code AS item_code,
			i.name AS item_name,
			COALESCE(SUM(b.quantity), 0) AS on_hand,
			COALESCE(SUM(b.reserved), 0) AS reserved,
			i.reorder_level
		FROM cat_item i
		LEFT JOIN reg_stock_balances b ON b.company_id = $1 AND b.item_id = i.id
		WHERE i.company_id = $1
		  AND i.deletion_mark = FALSE
		  AND i.reorder_level > 0
		GROUP BY i.id, i.code, i.name, i.reorder_level
		HAVING COALESCE(SUM(b.quantity), 0) <= i.reorder_level
		ORDER BY i.reorder_level - COALESCE(SUM(b.quantity), 0) DESC
	`

	var rows []reports.ReorderRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, companyID); err != nil {
		return nil, fmt.Errorf("reorder report: %w", err)
	}
	return rows, nil
}

// documentJournalSource is the UNION ALL across all document tables.
// Each branch normalizes its header to the common journal shape.
// $1 is company_id.
const documentJournalSource = `
	SELECT d.id, 'stock_transaction' AS document_type, d.number, d.date, d.posted,
		COALESCE(d.source_warehouse_id, d.target_warehouse_id) AS warehouse_id,
		d.total_quantity, 0::numeric AS total_amount,
		d.comment, d.deletion_mark, d.created_at, d.updated_at
	FROM doc_stock_transactions d WHERE d.company_id = $1
	UNION ALL
	SELECT d.id, 'purchase_receipt', d.number, d.date, d.posted,
		d.warehouse_id, d.total_quantity, d.total_amount,
		d.comment, d.deletion_mark, d.created_at, d.updated_at
	FROM doc_purchase_receipts d WHERE d.company_id = $1
	UNION ALL
	SELECT d.id, 'stock_adjustment', d.number, d.date, d.posted,
		d.warehouse_id, 0::bigint, 0::numeric,
		d.comment, d.deletion_mark, d.created_at, d.updated_at
	FROM doc_stock_adjustments d WHERE d.company_id = $1
	UNION ALL
	SELECT d.id, 'pick_list', d.number, d.date, d.posted,
		d.warehouse_id, 0::bigint, 0::numeric,
		d.comment, d.deletion_mark, d.created_at, d.updated_at
	FROM doc_pick_lists d WHERE d.company_id = $1
	UNION ALL
	SELECT d.id, 'pos_sale', d.number, d.date, d.posted,
		d.warehouse_id, d.total_quantity, d.total_amount,
		d.comment, d.deletion_mark, d.created_at, d.updated_at
	FROM doc_pos_sales d WHERE d.company_id = $1
`

// GetDocumentJournal returns a unified, filterable list of all documents.
func (r *ReportRepo) GetDocumentJournal(ctx context.Context, companyID string, filter reports.DocumentJournalFilter) (*reports.DocumentJournal, error) {
	where, args := buildJournalWhere(companyID, filter)

	countQuery := `SELECT COUNT(*) FROM (` + documentJournalSource + `) j` + where

	var totalCount int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("count journal: %w", err)
	}

	query := `
		SELECT j.id, j.document_type, j.number, j.date, j.posted,
			j.warehouse_id, COALESCE(w.name, '') AS warehouse_name,
			j.total_quantity, j.total_amount,
			j.comment, j.deletion_mark, j.created_at, j.updated_at
		FROM (` + documentJournalSource + `) j
		LEFT JOIN cat_warehouse w ON w.id = j.warehouse_id
	` + where + journalOrderBy(filter)

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	var items []reports.DocumentJournalItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, args...); err != nil {
		return nil, fmt.Errorf("document journal: %w", err)
	}

	return &reports.DocumentJournal{
		Items:      items,
		TotalCount: totalCount,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// GetDocumentTypeSummary returns counts and totals per document type.
func (r *ReportRepo) GetDocumentTypeSummary(ctx context.Context, companyID string, filter reports.DocumentJournalFilter) ([]reports.DocumentTypeSummary, error) {
	where, args := buildJournalWhere(companyID, filter)

	query := `
		SELECT
			j.document_type,
			COUNT(*) AS count,
			COUNT(*) FILTER (WHERE j.posted) AS posted_count,
			COALESCE(SUM(j.total_quantity), 0) AS total_quantity,
			COALESCE(SUM(j.total_amount), 0) AS total_amount
		FROM (` + documentJournalSource + `) j
	` + where + `
		GROUP BY j.document_type
		ORDER BY j.document_type
	`

	var summary []reports.DocumentTypeSummary
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &summary, query, args...); err != nil {
		return nil, fmt.Errorf("document type summary: %w", err)
	}
	return summary, nil
}

// buildJournalWhere builds the outer WHERE clause for journal queries.
// Args start at $2, $1 is reserved for company_id inside the UNION.
func buildJournalWhere(companyID string, filter reports.DocumentJournalFilter) (string, []any) {
	args := []any{companyID}
	var conds []string

	if len(filter.DocumentTypes) > 0 {
		placeholders := make([]string, len(filter.DocumentTypes))
		for i, dt := range filter.DocumentTypes {
			args = append(args, dt)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("j.document_type IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Posted != nil {
		args = append(args, *filter.Posted)
		conds = append(conds, fmt.Sprintf("j.posted = $%d", len(args)))
	}
	if filter.NumberContains != "" {
		args = append(args, "%"+filter.NumberContains+"%")
		conds = append(conds, fmt.Sprintf("j.number ILIKE $%d", len(args)))
	}
	if len(filter.WarehouseIDs) > 0 {
		placeholders := make([]string, len(filter.WarehouseIDs))
		for i, whID := range filter.WarehouseIDs {
			args = append(args, whID)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conds = append(conds, fmt.Sprintf("j.warehouse_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.FromDate != nil {
		args = append(args, *filter.FromDate)
		conds = append(conds, fmt.Sprintf("j.date >= $%d", len(args)))
	}
	if filter.ToDate != nil {
		args = append(args, *filter.ToDate)
		conds = append(conds, fmt.Sprintf("j.date <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func journalOrderBy(filter reports.DocumentJournalFilter) string {
	col := "j.date"
	switch filter.SortBy {
	case "number":
		col = "j.number"
	case "type":
		col = "j.document_type"
	}

	dir := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		dir = "ASC"
	}

	// Secondary sort keeps pagination stable.
	return fmt.Sprintf(" ORDER BY %s %s, j.id", col, dir)
}

// appendIDFilter adds an IN condition when ids is non-empty.
func appendIDFilter(query string, args []any, column string, ids []id.ID) (string, []any) {
	if len(ids) == 0 {
		return query, args
	}

	placeholders := make([]string, len(ids))
	for i, v := range ids {
		args = append(args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	return query + fmt.Sprintf(" AND %s IN (%s)", column, strings.Join(placeholders, ",")), args
}
