// Package stock provides the stock accumulation register service.
package stock

import (
	"context"
	"fmt"
	"time"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/pkg/logger"
)

// Service provides query and reservation operations for the stock register.
// Posting-time writes are owned by the posting engine; this service never
// mutates the ledger.
type Service struct {
	repo Repository
	txm  tx.Manager
}

// NewService creates a new stock register service.
func NewService(repo Repository, txm tx.Manager) *Service {
	return &Service{
		repo: repo,
		txm:  txm,
	}
}

// GetBalance returns the current balance for one (warehouse, item) pair.
func (s *Service) GetBalance(ctx context.Context, companyID string, warehouseID, itemID id.ID) (entity.StockBalance, error) {
	return s.repo.GetBalance(ctx, companyID, warehouseID, itemID)
}

// GetItemAvailability returns available quantity across warehouses.
func (s *Service) GetItemAvailability(ctx context.Context, companyID string, itemID id.ID) (types.Quantity, error) {
	balances, err := s.repo.GetBalancesByItem(ctx, companyID, itemID)
	if err != nil {
		return 0, fmt.Errorf("get balances: %w", err)
	}

	var total types.Quantity
	for _, b := range balances {
		total += b.Available()
	}

	return total, nil
}

// GetWarehouseStock returns all items with stock in a warehouse.
func (s *Service) GetWarehouseStock(ctx context.Context, companyID string, warehouseID id.ID, filter BalanceFilter) ([]entity.StockBalance, error) {
	return s.repo.GetBalancesByWarehouse(ctx, companyID, warehouseID, filter)
}

// GetLedgerHistory returns the ledger trail for an item.
func (s *Service) GetLedgerHistory(ctx context.Context, companyID string, itemID id.ID, filter LedgerFilter) ([]*entity.StockLedgerEntry, error) {
	return s.repo.GetLedgerHistory(ctx, companyID, itemID, filter)
}

// GetDocumentEntries returns the ledger entries recorded by a document.
func (s *Service) GetDocumentEntries(ctx context.Context, companyID string, recorderID id.ID) ([]*entity.StockLedgerEntry, error) {
	return s.repo.GetEntriesByRecorder(ctx, companyID, recorderID)
}

// GetTurnover generates a turnover report for the period.
func (s *Service) GetTurnover(ctx context.Context, companyID string, filter TurnoverFilter) ([]Turnover, error) {
	return s.repo.GetTurnover(ctx, companyID, filter)
}

// GetBalanceAtDate reconstructs a historical quantity from the ledger.
func (s *Service) GetBalanceAtDate(ctx context.Context, companyID string, warehouseID, itemID id.ID, date time.Time) (types.Quantity, error) {
	return s.repo.GetBalanceAtDate(ctx, companyID, warehouseID, itemID, date)
}

// ReservationLine is one line of a reservation request.
type ReservationLine struct {
	WarehouseID id.ID
	ItemID      id.ID
	Quantity    types.Quantity
}

// Reserve holds stock for the given lines. Runs in one transaction with
// row locks, so the availability check and the reserved bump are atomic.
// Any shortage rolls the whole reservation back.
func (s *Service) Reserve(ctx context.Context, companyID string, lines []ReservationLine) error {
	if len(lines) == 0 {
		return nil
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			if !line.Quantity.IsPositive() {
				return apperror.NewValidation("reservation quantity must be positive").
					WithDetail("item_id", line.ItemID.String())
			}

			balance, err := s.repo.GetBalanceForUpdate(ctx, companyID, line.WarehouseID, line.ItemID)
			if err != nil {
				return fmt.Errorf("get balance for %s: %w", line.ItemID, err)
			}

			if balance.Available() < line.Quantity {
				return apperror.NewInsufficientStock(
					line.ItemID.String(),
					line.Quantity.Float64(),
					balance.Available().Float64(),
				).WithDetail("warehouse_id", line.WarehouseID.String())
			}

			if err := s.repo.UpdateReserved(ctx, companyID, line.WarehouseID, line.ItemID, line.Quantity); err != nil {
				return fmt.Errorf("reserve %s: %w", line.ItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock reserved", "lines", len(lines))
	return nil
}

// Release returns previously reserved stock to availability.
func (s *Service) Release(ctx context.Context, companyID string, lines []ReservationLine) error {
	if len(lines) == 0 {
		return nil
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, line := range lines {
			if err := s.repo.UpdateReserved(ctx, companyID, line.WarehouseID, line.ItemID, line.Quantity.Neg()); err != nil {
				return fmt.Errorf("release %s: %w", line.ItemID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "stock reservation released", "lines", len(lines))
	return nil
}

// Recalculate rebuilds cached balances from the ledger. Maintenance
// operation, locks the affected rows while rebuilding.
func (s *Service) Recalculate(ctx context.Context, companyID string, warehouseID, itemID *id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.RecalculateBalances(ctx, companyID, warehouseID, itemID)
	})
}
