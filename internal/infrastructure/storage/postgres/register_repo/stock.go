// Package register_repo provides PostgreSQL implementations for register
// repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/posting"
	"stockroom/internal/domain/registers/stock"
	"stockroom/internal/infrastructure/storage/postgres"
)

const (
	stockLedgerTable   = "reg_stock_ledger"
	stockBalancesTable = "reg_stock_balances"
)

var stockLedgerCols = []string{
	"line_id", "recorder_id", "recorder_type", "recorder_version",
	"company_id", "period", "record_type", "created_at",
	"warehouse_id", "item_id", "quantity",
	"incoming_rate", "inherit_rate", "consumes_reservation",
	"qty_before", "qty_after",
	"valuation_rate", "stock_value_before", "stock_value_after",
}

var stockBalanceCols = []string{
	"company_id", "warehouse_id", "item_id",
	"quantity", "reserved", "valuation_rate", "stock_value",
	"last_movement_at", "updated_at",
}

// Compile-time checks: one repo serves both the posting engine and the
// read-side stock service.
var (
	_ posting.StockRegister = (*StockRepo)(nil)
	_ stock.Repository      = (*StockRepo)(nil)
)

// StockRepo implements the stock register persistence.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// --- posting.StockRegister ---

// BalancesForUpdate returns a locked balance row for every requested key.
// Pairs that have never moved get a zero-initialized row first, so the
// caller always holds a lock for every key. Keys arrive in canonical
// order and are locked one at a time in that order, which keeps
// concurrent postings deadlock-free.
func (r *StockRepo) BalancesForUpdate(ctx context.Context, companyID string, keys []posting.BalanceKey) (map[posting.BalanceKey]*entity.StockBalance, error) {
	querier := r.querier(ctx)
	out := make(map[posting.BalanceKey]*entity.StockBalance, len(keys))

	for _, key := range keys {
		_, err := querier.Exec(ctx, `
			INSERT INTO `+stockBalancesTable+`
				(company_id, warehouse_id, item_id, quantity, reserved, valuation_rate, stock_value, last_movement_at, updated_at)
			VALUES ($1, $2, $3, 0, 0, 0, 0, $4, $4)
			ON CONFLICT (company_id, warehouse_id, item_id) DO NOTHING
		`, companyID, key.WarehouseID, key.ItemID, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("ensure balance row: %w", err)
		}

		var b entity.StockBalance
		err = pgxscan.Get(ctx, querier, &b, `
			SELECT `+joinCols(stockBalanceCols)+`
			FROM `+stockBalancesTable+`
			WHERE company_id = $1 AND warehouse_id = $2 AND item_id = $3
			FOR UPDATE
		`, companyID, key.WarehouseID, key.ItemID)
		if err != nil {
			return nil, fmt.Errorf("lock balance row: %w", err)
		}

		out[key] = &b
	}

	return out, nil
}

// UpsertBalances writes updated balance rows.
func (r *StockRepo) UpsertBalances(ctx context.Context, balances []*entity.StockBalance) error {
	if len(balances) == 0 {
		return nil
	}

	querier := r.querier(ctx)
	for _, b := range balances {
		_, err := querier.Exec(ctx, `
			INSERT INTO `+stockBalancesTable+`
				(company_id, warehouse_id, item_id, quantity, reserved, valuation_rate, stock_value, last_movement_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (company_id, warehouse_id, item_id) DO UPDATE SET
				quantity = EXCLUDED.quantity,
				reserved = EXCLUDED.reserved,
				valuation_rate = EXCLUDED.valuation_rate,
				stock_value = EXCLUDED.stock_value,
				last_movement_at = EXCLUDED.last_movement_at,
				updated_at = EXCLUDED.updated_at
		`, b.CompanyID, b.WarehouseID, b.ItemID,
			b.Quantity, b.Reserved, b.ValuationRate, b.StockValue,
			b.LastMovementAt, b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert balance: %w", err)
		}
	}

	return nil
}

// InsertEntries batch inserts ledger entries. Uses COPY when inside a
// transaction, which posting always is.
func (r *StockRepo) InsertEntries(ctx context.Context, entries []*entity.StockLedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.LineID, e.RecorderID, e.RecorderType, e.RecorderVersion,
			e.CompanyID, e.Period, e.RecordType, e.CreatedAt,
			e.WarehouseID, e.ItemID, e.Quantity,
			e.IncomingRate, e.InheritRate, e.ConsumesReservation,
			e.QtyBefore, e.QtyAfter,
			e.ValuationRate, e.StockValueBefore, e.StockValueAfter,
		})
	}

	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		if _, err := inserter.CopyFromSlice(ctx, stockLedgerTable, stockLedgerCols, rows); err != nil {
			return fmt.Errorf("copy ledger entries: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(stockLedgerTable).Columns(stockLedgerCols...)
	for _, row := range rows {
		q = q.Values(row...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ledger entries: %w", err)
	}
	return nil
}

// EntriesByRecorder retrieves ledger entries of one document in posting
// order (line_id is a UUIDv7, so it sorts by creation time).
func (r *StockRepo) EntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]*entity.StockLedgerEntry, error) {
	q := r.builder.Select(stockLedgerCols...).
		From(stockLedgerTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("line_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*entity.StockLedgerEntry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("entries by recorder: %w", err)
	}
	return entries, nil
}

// DeleteEntriesByRecorder removes all ledger entries of a document.
func (r *StockRepo) DeleteEntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) (int64, error) {
	q := r.builder.Delete(stockLedgerTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	return result.RowsAffected(), nil
}

// --- stock.Repository ---

// GetEntriesByRecorder retrieves all ledger entries for a document.
func (r *StockRepo) GetEntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]*entity.StockLedgerEntry, error) {
	return r.EntriesByRecorder(ctx, companyID, recorderID)
}

// GetLedgerHistory returns ledger history for an item.
func (r *StockRepo) GetLedgerHistory(ctx context.Context, companyID string, itemID id.ID, filter stock.LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	q := r.builder.Select(stockLedgerCols...).
		From(stockLedgerTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"item_id": itemID})

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *filter.RecordType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC", "line_id DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*entity.StockLedgerEntry
	if err := pgxscan.Select(ctx, r.querier(ctx), &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("ledger history: %w", err)
	}
	return entries, nil
}

// GetBalance returns current balance for warehouse+item. A pair that has
// never moved yields a zero balance, not an error.
func (r *StockRepo) GetBalance(ctx context.Context, companyID string, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	var b entity.StockBalance
	err := pgxscan.Get(ctx, r.querier(ctx), &b, `
		SELECT `+joinCols(stockBalanceCols)+`
		FROM `+stockBalancesTable+`
		WHERE company_id = $1 AND warehouse_id = $2 AND item_id = $3
	`, companyID, warehouseID, itemID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return zeroBalance(companyID, warehouseID, itemID), nil
		}
		return b, fmt.Errorf("get balance: %w", err)
	}
	return b, nil
}

// GetBalanceForUpdate returns balance with row lock, creating the row
// if the pair has never moved.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, companyID string, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	balances, err := r.BalancesForUpdate(ctx, companyID, []posting.BalanceKey{
		{WarehouseID: warehouseID, ItemID: itemID},
	})
	if err != nil {
		return entity.StockBalance{}, err
	}
	b := balances[posting.BalanceKey{WarehouseID: warehouseID, ItemID: itemID}]
	return *b, nil
}

// GetBalancesByWarehouse returns balances for a warehouse.
func (r *StockRepo) GetBalancesByWarehouse(ctx context.Context, companyID string, warehouseID id.ID, filter stock.BalanceFilter) ([]entity.StockBalance, error) {
	q := r.builder.Select(prefixCols("b", stockBalanceCols)...).
		From(stockBalancesTable + " b").
		Where(squirrel.Eq{"b.company_id": companyID}).
		Where(squirrel.Eq{"b.warehouse_id": warehouseID})

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"b.item_id": filter.ItemIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"b.quantity": 0})
	}
	if filter.BelowReorder {
		q = q.Join("cat_item i ON i.id = b.item_id").
			Where(squirrel.Gt{"i.reorder_level": 0}).
			Where(squirrel.Expr("b.quantity <= i.reorder_level"))
	}

	q = q.OrderBy("b.item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("balances by warehouse: %w", err)
	}
	return balances, nil
}

// GetBalancesByItem returns balances across all warehouses for an item.
func (r *StockRepo) GetBalancesByItem(ctx context.Context, companyID string, itemID id.ID) ([]entity.StockBalance, error) {
	q := r.builder.Select(stockBalanceCols...).
		From(stockBalancesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("warehouse_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []entity.StockBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("balances by item: %w", err)
	}
	return balances, nil
}

// UpdateReserved adjusts the reserved quantity under a row lock. The
// WHERE clause enforces 0 <= reserved+delta <= quantity in the database,
// so two concurrent reservations cannot oversubscribe.
func (r *StockRepo) UpdateReserved(ctx context.Context, companyID string, warehouseID, itemID id.ID, delta types.Quantity) error {
	result, err := r.querier(ctx).Exec(ctx, `
		UPDATE `+stockBalancesTable+`
		SET reserved = reserved + $4, updated_at = NOW()
		WHERE company_id = $1 AND warehouse_id = $2 AND item_id = $3
		  AND reserved + $4 >= 0
		  AND reserved + $4 <= quantity
	`, companyID, warehouseID, itemID, delta)
	if err != nil {
		return fmt.Errorf("update reserved: %w", err)
	}

	if result.RowsAffected() == 0 {
		b, err := r.GetBalance(ctx, companyID, warehouseID, itemID)
		if err != nil {
			return err
		}
		return apperror.NewInsufficientStock(
			itemID.String(),
			delta.Float64(),
			b.Available().Float64(),
		).WithDetail("warehouse_id", warehouseID.String()).
			WithDetail("reason", "reservation exceeds available stock")
	}

	return nil
}

// GetBalanceAtDate reconstructs the quantity as of a date from the ledger.
func (r *StockRepo) GetBalanceAtDate(ctx context.Context, companyID string, warehouseID, itemID id.ID, date time.Time) (types.Quantity, error) {
	var qty *types.Quantity
	err := r.querier(ctx).QueryRow(ctx, `
		SELECT SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END)
		FROM `+stockLedgerTable+`
		WHERE company_id = $1 AND warehouse_id = $2 AND item_id = $3 AND period <= $4
	`, companyID, warehouseID, itemID, date).Scan(&qty)
	if err != nil {
		return 0, fmt.Errorf("balance at date: %w", err)
	}
	if qty == nil {
		return 0, nil
	}
	return *qty, nil
}

// GetTurnover calculates opening balance, receipt and expense totals for
// a period, grouped by warehouse and item.
func (r *StockRepo) GetTurnover(ctx context.Context, companyID string, filter stock.TurnoverFilter) ([]stock.Turnover, error) {
	sql := `
		SELECT
			warehouse_id,
			item_id,
			COALESCE(SUM(CASE WHEN period < $2 THEN (CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END) END), 0) AS opening_balance,
			COALESCE(SUM(CASE WHEN period >= $2 AND period <= $3 AND record_type = 'receipt' THEN quantity END), 0) AS receipt,
			COALESCE(SUM(CASE WHEN period >= $2 AND period <= $3 AND record_type = 'expense' THEN quantity END), 0) AS expense
		FROM ` + stockLedgerTable + `
		WHERE company_id = $1 AND period <= $3`

	args := []any{companyID, filter.FromDate, filter.ToDate}
	if filter.WarehouseID != nil {
		args = append(args, *filter.WarehouseID)
		sql += fmt.Sprintf(" AND warehouse_id = $%d", len(args))
	}
	if filter.ItemID != nil {
		args = append(args, *filter.ItemID)
		sql += fmt.Sprintf(" AND item_id = $%d", len(args))
	}

	sql += `
		GROUP BY warehouse_id, item_id
		ORDER BY warehouse_id, item_id`

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("turnover: %w", err)
	}
	defer rows.Close()

	var result []stock.Turnover
	for rows.Next() {
		var t stock.Turnover
		if err := rows.Scan(&t.WarehouseID, &t.ItemID, &t.OpeningBalance, &t.Receipt, &t.Expense); err != nil {
			return nil, fmt.Errorf("scan turnover: %w", err)
		}
		t.ClosingBalance = t.OpeningBalance + t.Receipt - t.Expense
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("turnover rows: %w", err)
	}

	return result, nil
}

// RecalculateBalances rebuilds balance quantity and value from the ledger.
// Reserved quantities are preserved: they belong to open pick lists, not
// to ledger history.
func (r *StockRepo) RecalculateBalances(ctx context.Context, companyID string, warehouseID, itemID *id.ID) error {
	sql := `
		INSERT INTO ` + stockBalancesTable + `
			(company_id, warehouse_id, item_id, quantity, reserved, valuation_rate, stock_value, last_movement_at, updated_at)
		SELECT
			company_id,
			warehouse_id,
			item_id,
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0,
			0,
			SUM(stock_value_after - stock_value_before),
			MAX(period),
			NOW()
		FROM ` + stockLedgerTable + `
		WHERE company_id = $1`

	args := []any{companyID}
	argn := 2
	if warehouseID != nil {
		sql += fmt.Sprintf(" AND warehouse_id = $%d", argn)
		args = append(args, *warehouseID)
		argn++
	}
	if itemID != nil {
		sql += fmt.Sprintf(" AND item_id = $%d", argn)
		args = append(args, *itemID)
	}

	sql += `
		GROUP BY company_id, warehouse_id, item_id
		ON CONFLICT (company_id, warehouse_id, item_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			stock_value = EXCLUDED.stock_value,
			valuation_rate = CASE WHEN EXCLUDED.quantity > 0
				THEN EXCLUDED.stock_value / (EXCLUDED.quantity::numeric / 10000)
				ELSE 0 END,
			last_movement_at = EXCLUDED.last_movement_at,
			updated_at = NOW()`

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("recalculate balances: %w", err)
	}
	return nil
}

// --- helpers ---

func zeroBalance(companyID string, warehouseID, itemID id.ID) entity.StockBalance {
	return entity.StockBalance{
		CompanyID:     companyID,
		WarehouseID:   warehouseID,
		ItemID:        itemID,
		ValuationRate: types.ZeroMoney(),
		StockValue:    types.ZeroMoney(),
	}
}

func joinCols(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}

func prefixCols(prefix string, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + "." + c
	}
	return out
}
