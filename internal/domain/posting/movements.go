package posting

import (
	"sort"
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// MovementSet collects the planned movements of one posting iteration.
// All movements share the recorder identity so the register can replace
// them wholesale on repost.
type MovementSet struct {
	RecorderID      id.ID
	RecorderType    string
	RecorderVersion int
	CompanyID       string

	Stock []entity.StockMovement
}

// NewMovementSet creates an empty set for the given recorder.
func NewMovementSet(recorderID id.ID, recorderType string, recorderVersion int, companyID string) *MovementSet {
	return &MovementSet{
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		CompanyID:       companyID,
	}
}

// AddStockReceipt appends an incoming movement valued at rate.
func (ms *MovementSet) AddStockReceipt(period time.Time, warehouseID, itemID id.ID, qty types.Quantity, rate types.Money) {
	ms.Stock = append(ms.Stock, entity.NewStockMovement(
		ms.RecorderID, ms.RecorderType, ms.RecorderVersion, ms.CompanyID,
		period, entity.RecordTypeReceipt, warehouseID, itemID, qty, rate,
	))
}

// AddStockExpense appends an outgoing movement. Valuation uses the moving
// average rate at posting time.
func (ms *MovementSet) AddStockExpense(period time.Time, warehouseID, itemID id.ID, qty types.Quantity) {
	ms.Stock = append(ms.Stock, entity.NewStockMovement(
		ms.RecorderID, ms.RecorderType, ms.RecorderVersion, ms.CompanyID,
		period, entity.RecordTypeExpense, warehouseID, itemID, qty, types.ZeroMoney(),
	))
}

// AddStockTransfer appends the expense/receipt pair that moves stock
// between warehouses. The receipt inherits the expense's valuation rate,
// so the transfer is value-neutral for the company.
func (ms *MovementSet) AddStockTransfer(period time.Time, sourceWarehouseID, targetWarehouseID, itemID id.ID, qty types.Quantity) {
	ms.AddStockExpense(period, sourceWarehouseID, itemID, qty)

	receipt := entity.NewStockMovement(
		ms.RecorderID, ms.RecorderType, ms.RecorderVersion, ms.CompanyID,
		period, entity.RecordTypeReceipt, targetWarehouseID, itemID, qty, types.ZeroMoney(),
	)
	receipt.InheritRate = true
	ms.Stock = append(ms.Stock, receipt)
}

// AddStockExpenseReserved appends an outgoing movement that consumes a
// prior reservation instead of free stock.
func (ms *MovementSet) AddStockExpenseReserved(period time.Time, warehouseID, itemID id.ID, qty types.Quantity) {
	m := entity.NewStockMovement(
		ms.RecorderID, ms.RecorderType, ms.RecorderVersion, ms.CompanyID,
		period, entity.RecordTypeExpense, warehouseID, itemID, qty, types.ZeroMoney(),
	)
	m.ConsumesReservation = true
	ms.Stock = append(ms.Stock, m)
}

// IsEmpty reports whether the set carries no movements.
func (ms *MovementSet) IsEmpty() bool {
	return ms == nil || len(ms.Stock) == 0
}

// BalanceKey identifies one balance row within a company.
type BalanceKey struct {
	WarehouseID id.ID
	ItemID      id.ID
}

// BalanceKeys returns the distinct balance keys touched by the set, in
// canonical order. Every posting locks rows in this order, so two postings
// touching the same pairs can never deadlock on each other.
func (ms *MovementSet) BalanceKeys() []BalanceKey {
	seen := make(map[BalanceKey]struct{}, len(ms.Stock))
	keys := make([]BalanceKey, 0, len(ms.Stock))
	for i := range ms.Stock {
		k := BalanceKey{WarehouseID: ms.Stock[i].WarehouseID, ItemID: ms.Stock[i].ItemID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if c := compareID(keys[i].WarehouseID, keys[j].WarehouseID); c != 0 {
			return c < 0
		}
		return compareID(keys[i].ItemID, keys[j].ItemID) < 0
	})
	return keys
}

func compareID(a, b id.ID) int {
	ab, bb := [16]byte(a), [16]byte(b)
	for i := 0; i < 16; i++ {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
