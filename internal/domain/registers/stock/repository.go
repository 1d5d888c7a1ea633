// Package stock provides the stock accumulation register.
package stock

import (
	"context"
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// Repository defines read and maintenance operations for the stock register.
// Writes during posting go through the posting engine's StockRegister
// surface, not through this interface.
type Repository interface {
	// Ledger

	// GetEntriesByRecorder retrieves all ledger entries for a document
	GetEntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]*entity.StockLedgerEntry, error)

	// GetLedgerHistory returns ledger history for an item
	GetLedgerHistory(ctx context.Context, companyID string, itemID id.ID, filter LedgerFilter) ([]*entity.StockLedgerEntry, error)

	// Balances

	// GetBalance returns current balance for warehouse+item
	GetBalance(ctx context.Context, companyID string, warehouseID, itemID id.ID) (entity.StockBalance, error)

	// GetBalanceForUpdate returns balance with row lock
	GetBalanceForUpdate(ctx context.Context, companyID string, warehouseID, itemID id.ID) (entity.StockBalance, error)

	// GetBalancesByWarehouse returns balances for a warehouse
	GetBalancesByWarehouse(ctx context.Context, companyID string, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error)

	// GetBalancesByItem returns balances across all warehouses for an item
	GetBalancesByItem(ctx context.Context, companyID string, itemID id.ID) ([]entity.StockBalance, error)

	// UpdateReserved adjusts the reserved quantity under a row lock.
	// delta may be negative; the resulting reserved must stay within
	// [0, quantity] or the call fails.
	UpdateReserved(ctx context.Context, companyID string, warehouseID, itemID id.ID, delta types.Quantity) error

	// Reporting

	// GetBalanceAtDate reconstructs the quantity as of a date from the ledger
	GetBalanceAtDate(ctx context.Context, companyID string, warehouseID, itemID id.ID, date time.Time) (types.Quantity, error)

	// GetTurnover calculates receipt and expense totals for a period
	GetTurnover(ctx context.Context, companyID string, filter TurnoverFilter) ([]Turnover, error)

	// Maintenance

	// RecalculateBalances rebuilds balance rows from the ledger
	RecalculateBalances(ctx context.Context, companyID string, warehouseID, itemID *id.ID) error
}

// BalanceFilter for filtering balance queries.
type BalanceFilter struct {
	ItemIDs      []id.ID
	ExcludeZero  bool
	BelowReorder bool
}

// LedgerFilter for filtering ledger history.
type LedgerFilter struct {
	WarehouseID *id.ID
	RecordType  *entity.RecordType
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// TurnoverFilter for turnover reports.
type TurnoverFilter struct {
	WarehouseID *id.ID
	ItemID      *id.ID
	FromDate    time.Time
	ToDate      time.Time
}

// Turnover represents receipt/expense totals for one (item, warehouse) pair.
type Turnover struct {
	WarehouseID    id.ID          `json:"warehouseId"`
	ItemID         id.ID          `json:"itemId"`
	OpeningBalance types.Quantity `json:"openingBalance"`
	Receipt        types.Quantity `json:"receipt"`
	Expense        types.Quantity `json:"expense"`
	ClosingBalance types.Quantity `json:"closingBalance"`
}
