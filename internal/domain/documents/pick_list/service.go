package pick_list

import (
	"context"

	"stockroom/internal/core/id"
	"stockroom/internal/core/numerator"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/posting"
	"stockroom/internal/domain/registers/stock"
)

// Repository defines persistence for pick lists.
type Repository interface {
	domain.DocumentRepository[*PickList]

	// ListByStatus returns pick lists in the given status, oldest first.
	ListByStatus(ctx context.Context, companyID string, status Status) ([]*PickList, error)
}

// Service provides the picking workflow on top of the generic document
// service. Release takes a reservation; completion issues the picked
// quantities against it.
type Service struct {
	*domain.DocumentService[*PickList]
	repo      Repository
	stock     *stock.Service
	txManager tx.Manager
}

// NewService creates a new pick list service.
func NewService(repo Repository, engine *posting.Engine, num numerator.Generator, txm tx.Manager, stockSvc *stock.Service) *Service {
	svc := &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*PickList]{
			Repo:      repo,
			Engine:    engine,
			Numerator: num,
			TxManager: txm,
			DocName:   "pick list",
			NumPrefix: "PL",
		}),
		repo:      repo,
		stock:     stockSvc,
		txManager: txm,
	}

	// Short-picked lines leave part of the reservation unconsumed.
	// Return it inside the completion transaction.
	engine.OnPosted("PickList", svc.releaseShortPick)

	return svc
}

// Release transitions draft -> released and reserves the requested
// quantities. Reservation and status change commit or roll back together.
func (s *Service) Release(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	if err := doc.Transition(StatusReleased); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.stock.Reserve(ctx, companyID, reservationLines(doc, false)); err != nil {
			return err
		}
		return s.repo.Update(ctx, doc)
	})
}

// StartPicking transitions released -> picking and assigns the picker.
func (s *Service) StartPicking(ctx context.Context, companyID string, docID id.ID, pickerID string) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	if err := doc.Transition(StatusPicking); err != nil {
		return err
	}
	doc.AssignedTo = pickerID

	return s.repo.Update(ctx, doc)
}

// PickedQuantities is the picker's report: line ID to actually picked qty.
type PickedQuantities map[id.ID]types.Quantity

// FinishPicking records picked quantities and transitions picking -> picked.
// Quantities not reported default to the requested amount.
func (s *Service) FinishPicking(ctx context.Context, companyID string, docID id.ID, picked PickedQuantities) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	for i := range doc.Lines {
		if qty, ok := picked[doc.Lines[i].LineID]; ok {
			doc.Lines[i].PickedQty = qty
		}
	}

	if err := doc.Transition(StatusPicked); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.repo.Update(ctx, doc)
}

// Complete posts the pick list: picked quantities are issued from stock,
// consuming the reservation. Runs through the posting engine, so the
// status change, ledger entries, and balance updates are atomic.
func (s *Service) Complete(ctx context.Context, companyID string, docID id.ID) error {
	return s.Post(ctx, companyID, docID)
}

// Queue returns pick lists waiting in the given status, oldest first.
func (s *Service) Queue(ctx context.Context, companyID string, status Status) ([]*PickList, error) {
	return s.repo.ListByStatus(ctx, companyID, status)
}

// Cancel aborts the workflow and returns any reservation.
func (s *Service) Cancel(ctx context.Context, companyID string, docID id.ID) error {
	doc, err := s.GetByID(ctx, companyID, docID)
	if err != nil {
		return err
	}

	wasReserved := doc.Status == StatusReleased || doc.Status == StatusPicking || doc.Status == StatusPicked

	if err := doc.Transition(StatusCancelled); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if wasReserved {
			if err := s.stock.Release(ctx, companyID, reservationLines(doc, false)); err != nil {
				return err
			}
		}
		return s.repo.Update(ctx, doc)
	})
}

// releaseShortPick runs inside the completion transaction and releases the
// unconsumed part of the reservation for short-picked lines.
func (s *Service) releaseShortPick(ctx context.Context, doc posting.Postable, _ *posting.MovementSet) error {
	pl, ok := doc.(*PickList)
	if !ok {
		return nil
	}

	var lines []stock.ReservationLine
	for _, line := range pl.Lines {
		short := line.Quantity - line.PickedQty
		if short.IsPositive() {
			lines = append(lines, stock.ReservationLine{
				WarehouseID: pl.WarehouseID,
				ItemID:      line.ItemID,
				Quantity:    short,
			})
		}
	}
	return s.stock.Release(ctx, pl.CompanyID, lines)
}

func reservationLines(doc *PickList, picked bool) []stock.ReservationLine {
	lines := make([]stock.ReservationLine, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		qty := line.Quantity
		if picked {
			qty = line.PickedQty
		}
		if qty.IsPositive() {
			lines = append(lines, stock.ReservationLine{
				WarehouseID: doc.WarehouseID,
				ItemID:      line.ItemID,
				Quantity:    qty,
			})
		}
	}
	return lines
}
