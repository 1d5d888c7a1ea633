// Package reports provides read-only reporting over the stock and
// general ledger registers.
package reports

import (
	"time"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// --- Stock Balance Report ---

// StockBalanceFilter defines filter for the stock balance report.
type StockBalanceFilter struct {
	// AsOfDate - report date (defaults to now)
	AsOfDate *time.Time

	WarehouseIDs []id.ID
	ItemIDs      []id.ID

	// Exclude zero balances
	ExcludeZero bool

	Limit  int
	Offset int
}

// StockBalanceRow is a single row in the stock balance report.
type StockBalanceRow struct {
	WarehouseID   id.ID          `db:"warehouse_id" json:"warehouseId"`
	WarehouseName string         `db:"warehouse_name" json:"warehouseName"`
	ItemID        id.ID          `db:"item_id" json:"itemId"`
	ItemCode      string         `db:"item_code" json:"itemCode"`
	ItemName      string         `db:"item_name" json:"itemName"`
	UOMSymbol     string         `db:"uom_symbol" json:"uomSymbol,omitempty"`
	Quantity      types.Quantity `db:"quantity" json:"quantity"`
	Reserved      types.Quantity `db:"reserved" json:"reserved"`
	ValuationRate types.Money    `db:"valuation_rate" json:"valuationRate"`
	StockValue    types.Money    `db:"stock_value" json:"stockValue"`
}

// StockBalanceReport is the full stock balance report.
type StockBalanceReport struct {
	AsOfDate   time.Time         `json:"asOfDate"`
	Items      []StockBalanceRow `json:"items"`
	TotalItems int               `json:"totalItems"`

	TotalQuantity types.Quantity `json:"totalQuantity"`
	TotalValue    types.Money    `json:"totalValue"`
}

// --- Stock Turnover Report ---

// StockTurnoverFilter defines filter for the turnover report.
type StockTurnoverFilter struct {
	// Period (required)
	FromDate time.Time
	ToDate   time.Time

	WarehouseIDs []id.ID
	ItemIDs      []id.ID

	// Include rows with no movement
	IncludeZero bool

	Limit  int
	Offset int
}

// StockTurnoverRow is a single row in the turnover report.
type StockTurnoverRow struct {
	WarehouseID   id.ID          `db:"warehouse_id" json:"warehouseId"`
	WarehouseName string         `db:"warehouse_name" json:"warehouseName"`
	ItemID        id.ID          `db:"item_id" json:"itemId"`
	ItemCode      string         `db:"item_code" json:"itemCode"`
	ItemName      string         `db:"item_name" json:"itemName"`
	Opening       types.Quantity `db:"opening" json:"opening"`
	Receipt       types.Quantity `db:"receipt" json:"receipt"`
	Expense       types.Quantity `db:"expense" json:"expense"`
	Closing       types.Quantity `db:"closing" json:"closing"`
}

// StockTurnoverReport is the full turnover report.
type StockTurnoverReport struct {
	FromDate   time.Time          `json:"fromDate"`
	ToDate     time.Time          `json:"toDate"`
	Items      []StockTurnoverRow `json:"items"`
	TotalItems int                `json:"totalItems"`

	TotalReceipt types.Quantity `json:"totalReceipt"`
	TotalExpense types.Quantity `json:"totalExpense"`
}

// --- Reorder Report ---

// ReorderRow is an item whose total stock fell to or below its reorder level.
type ReorderRow struct {
	ItemID       id.ID          `db:"item_id" json:"itemId"`
	ItemCode     string         `db:"item_code" json:"itemCode"`
	ItemName     string         `db:"item_name" json:"itemName"`
	OnHand       types.Quantity `db:"on_hand" json:"onHand"`
	Reserved     types.Quantity `db:"reserved" json:"reserved"`
	ReorderLevel types.Quantity `db:"reorder_level" json:"reorderLevel"`
}

// Shortfall returns how far below the reorder level the item sits.
func (r ReorderRow) Shortfall() types.Quantity {
	return r.ReorderLevel - r.OnHand
}

// --- Document Journal ---

// DocumentJournalFilter defines filter for the document journal.
type DocumentJournalFilter struct {
	FromDate *time.Time
	ToDate   *time.Time

	DocumentTypes []string
	Posted        *bool

	// Search by number
	NumberContains string

	WarehouseIDs []id.ID

	SortBy    string // "date", "number", "type"
	SortOrder string // "asc", "desc"

	Limit  int
	Offset int
}

// DocumentJournalItem is one document in the journal.
type DocumentJournalItem struct {
	ID           id.ID     `db:"id" json:"id"`
	DocumentType string    `db:"document_type" json:"documentType"`
	Number       string    `db:"number" json:"number"`
	Date         time.Time `db:"date" json:"date"`
	Posted       bool      `db:"posted" json:"posted"`

	WarehouseID   *id.ID `db:"warehouse_id" json:"warehouseId,omitempty"`
	WarehouseName string `db:"warehouse_name" json:"warehouseName,omitempty"`

	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`

	Comment      string    `db:"comment" json:"comment,omitempty"`
	DeletionMark bool      `db:"deletion_mark" json:"deletionMark"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// DocumentJournal is the document journal result.
type DocumentJournal struct {
	Items      []DocumentJournalItem `json:"items"`
	TotalCount int                   `json:"totalCount"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`

	Summary []DocumentTypeSummary `json:"summary,omitempty"`
}

// DocumentTypeSummary provides counts and totals by document type.
type DocumentTypeSummary struct {
	DocumentType  string         `db:"document_type" json:"documentType"`
	Count         int            `db:"count" json:"count"`
	PostedCount   int            `db:"posted_count" json:"postedCount"`
	TotalQuantity types.Quantity `db:"total_quantity" json:"totalQuantity"`
	TotalAmount   types.Money    `db:"total_amount" json:"totalAmount"`
}
