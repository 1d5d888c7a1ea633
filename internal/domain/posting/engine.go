package posting

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/tx"
	"stockroom/internal/core/types"
	"stockroom/pkg/logger"
)

// StockRegister is the persistence surface the engine drives.
// BalancesForUpdate must return a locked row for EVERY requested key,
// creating zero-initialized rows for pairs that have never moved.
type StockRegister interface {
	BalancesForUpdate(ctx context.Context, companyID string, keys []BalanceKey) (map[BalanceKey]*entity.StockBalance, error)
	UpsertBalances(ctx context.Context, balances []*entity.StockBalance) error
	InsertEntries(ctx context.Context, entries []*entity.StockLedgerEntry) error
	EntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) ([]*entity.StockLedgerEntry, error)
	DeleteEntriesByRecorder(ctx context.Context, companyID string, recorderID id.ID) (int64, error)
}

// PeriodGuard rejects postings into closed accounting periods.
type PeriodGuard interface {
	EnsureOpen(ctx context.Context, companyID string, date time.Time) error
}

// Hook runs inside the posting transaction, after register rows are written
// but before commit. A hook error rolls the whole posting back.
type Hook func(ctx context.Context, doc Postable, set *MovementSet) error

// Engine posts and unposts documents. One instance serves every document
// type; the differences live entirely in each type's GenerateMovements.
//
// Everything a posting does happens in a single database transaction:
// balance reads take row locks, so concurrent postings for the same
// (item, warehouse) pair serialize instead of racing.
type Engine struct {
	txm    tx.Manager
	stock  StockRegister
	guard  PeriodGuard
	tracer trace.Tracer

	afterPost   map[string][]Hook
	afterUnpost map[string][]Hook
}

// NewEngine creates a posting engine. guard may be nil.
func NewEngine(txm tx.Manager, stock StockRegister, guard PeriodGuard) *Engine {
	return &Engine{
		txm:         txm,
		stock:       stock,
		guard:       guard,
		tracer:      otel.Tracer("stockroom/posting"),
		afterPost:   make(map[string][]Hook),
		afterUnpost: make(map[string][]Hook),
	}
}

// OnPosted registers a hook for a document type ("*" matches all types).
func (e *Engine) OnPosted(docType string, h Hook) {
	e.afterPost[docType] = append(e.afterPost[docType], h)
}

// OnUnposted registers an unposting hook for a document type.
func (e *Engine) OnUnposted(docType string, h Hook) {
	e.afterUnpost[docType] = append(e.afterUnpost[docType], h)
}

// Post records the document's movements in the registers.
//
// The whole sequence runs in one transaction:
//  1. lock balance rows for every touched (warehouse, item) pair,
//     in canonical order
//  2. replay movements against the locked balances, rejecting any
//     expense that exceeds available stock
//  3. replace the document's ledger entries and write updated balances
//  4. mark the document posted and persist it via saveDoc
//  5. run after-post hooks (ledger side effects such as GL entries)
//
// Any failure at any step rolls everything back. There is no partial
// posting and no compensating cleanup.
func (e *Engine) Post(ctx context.Context, doc Postable, saveDoc func(ctx context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, "posting.Post",
		trace.WithAttributes(
			attribute.String("document.type", doc.GetDocumentType()),
			attribute.String("document.id", doc.GetID().String()),
		))
	defer span.End()

	if doc.IsPosted() {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentPosted,
			"Document is already posted",
		).WithDetail("document_id", doc.GetID().String())
	}

	if err := doc.CanPost(ctx); err != nil {
		return err
	}

	if e.guard != nil {
		if err := e.guard.EnsureOpen(ctx, doc.GetCompanyID(), doc.GetDate()); err != nil {
			return err
		}
	}

	set, err := doc.GenerateMovements(ctx)
	if err != nil {
		return err
	}
	if set.IsEmpty() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Document produces no movements",
		).WithDetail("document_id", doc.GetID().String())
	}

	err = e.txm.RunSerializable(ctx, func(ctx context.Context) error {
		// Reposting replaces the previous iteration's entries. Balances for
		// the old entries are reversed first so the replay starts clean.
		if err := e.reverseExisting(ctx, doc); err != nil {
			return err
		}

		entries, balances, err := e.applyMovements(ctx, set)
		if err != nil {
			return err
		}

		if err := e.stock.InsertEntries(ctx, entries); err != nil {
			return err
		}
		if err := e.stock.UpsertBalances(ctx, balances); err != nil {
			return err
		}

		doc.MarkPosted()
		if err := saveDoc(ctx); err != nil {
			return err
		}

		return e.runHooks(ctx, e.afterPost, doc, set)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document posted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID().String(),
		"movements", len(set.Stock),
	)
	return nil
}

// Unpost reverses the document's movements and clears the posted flag.
// Runs in one transaction, symmetric with Post. Fails if reversing would
// drive any balance below its reserved quantity (the stock was already
// consumed downstream).
func (e *Engine) Unpost(ctx context.Context, doc Postable, saveDoc func(ctx context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, "posting.Unpost",
		trace.WithAttributes(
			attribute.String("document.type", doc.GetDocumentType()),
			attribute.String("document.id", doc.GetID().String()),
		))
	defer span.End()

	if !doc.IsPosted() {
		return apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Document is not posted",
		).WithDetail("document_id", doc.GetID().String())
	}

	err := e.txm.RunSerializable(ctx, func(ctx context.Context) error {
		if err := e.reverseExisting(ctx, doc); err != nil {
			return err
		}

		doc.MarkUnposted()
		if err := saveDoc(ctx); err != nil {
			return err
		}

		set := NewMovementSet(doc.GetID(), doc.GetDocumentType(), doc.GetPostedVersion(), doc.GetCompanyID())
		return e.runHooks(ctx, e.afterUnpost, doc, set)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document unposted",
		"document_type", doc.GetDocumentType(),
		"document_id", doc.GetID().String(),
	)
	return nil
}

// reverseExisting backs the document's current ledger entries out of the
// balances and deletes them. Uses the stored value deltas, so the reversal
// is exact regardless of how the average rate has drifted since.
func (e *Engine) reverseExisting(ctx context.Context, doc Postable) error {
	entries, err := e.stock.EntriesByRecorder(ctx, doc.GetCompanyID(), doc.GetID())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	keys := entryKeys(entries)
	balances, err := e.stock.BalancesForUpdate(ctx, doc.GetCompanyID(), keys)
	if err != nil {
		return err
	}

	// Reverse newest first within the document.
	for i := len(entries) - 1; i >= 0; i-- {
		en := entries[i]
		key := BalanceKey{WarehouseID: en.WarehouseID, ItemID: en.ItemID}
		b := balances[key]
		if b == nil {
			return apperror.NewInternal(nil).
				WithDetail("reason", "balance row missing during reversal").
				WithDetail("item_id", en.ItemID.String())
		}

		b.Quantity -= en.SignedQuantity()
		b.StockValue = b.StockValue.Sub(en.StockValueAfter.Sub(en.StockValueBefore))
		if en.ConsumesReservation && en.RecordType == entity.RecordTypeExpense {
			b.Reserved += en.Quantity
		}

		if b.Quantity.IsNegative() || b.Quantity < b.Reserved {
			return apperror.NewInsufficientStock(
				en.ItemID.String(),
				en.Quantity.Float64(),
				b.Available().Float64(),
			).WithDetail("reason", "reversal would drive stock negative")
		}

		b.ValuationRate = averageRate(b.Quantity, b.StockValue)
		b.UpdatedAt = time.Now().UTC()
	}

	if _, err := e.stock.DeleteEntriesByRecorder(ctx, doc.GetCompanyID(), doc.GetID()); err != nil {
		return err
	}
	return e.stock.UpsertBalances(ctx, balanceSlice(balances, keys))
}

// applyMovements replays the set against locked balances and produces
// ledger entries with before/after snapshots.
func (e *Engine) applyMovements(ctx context.Context, set *MovementSet) ([]*entity.StockLedgerEntry, []*entity.StockBalance, error) {
	keys := set.BalanceKeys()
	balances, err := e.stock.BalancesForUpdate(ctx, set.CompanyID, keys)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]*entity.StockLedgerEntry, 0, len(set.Stock))
	now := time.Now().UTC()

	var prev *entity.StockLedgerEntry
	for i := range set.Stock {
		m := set.Stock[i]
		key := BalanceKey{WarehouseID: m.WarehouseID, ItemID: m.ItemID}
		b := balances[key]
		if b == nil {
			return nil, nil, apperror.NewInternal(nil).
				WithDetail("reason", "balance row not locked").
				WithDetail("item_id", m.ItemID.String())
		}

		// Transfer receipts take the rate the paired expense went out at.
		if m.InheritRate && prev != nil && prev.RecordType == entity.RecordTypeExpense {
			m.IncomingRate = prev.ValuationRate
		}

		entry, err := applyOne(b, &m)
		if err != nil {
			return nil, nil, err
		}

		b.LastMovementAt = m.Period
		b.UpdatedAt = now
		entries = append(entries, entry)
		prev = entry
	}

	return entries, balanceSlice(balances, keys), nil
}

// applyOne applies a single movement to a balance and snapshots the change.
// Receipts fold the incoming value into the moving average; expenses go out
// at the current average rate. When quantity hits zero the value is zeroed
// too, so rounding residue never accumulates.
func applyOne(b *entity.StockBalance, m *entity.StockMovement) (*entity.StockLedgerEntry, error) {
	qtyBefore := b.Quantity
	valueBefore := b.StockValue

	var qtyAfter types.Quantity
	var valueAfter, rate types.Money

	switch m.RecordType {
	case entity.RecordTypeReceipt:
		qtyAfter = qtyBefore + m.Quantity
		valueAfter = valueBefore.Add(m.Quantity.MulRate(m.IncomingRate))
		rate = averageRate(qtyAfter, valueAfter)

	case entity.RecordTypeExpense:
		if m.ConsumesReservation {
			if b.Quantity < m.Quantity {
				return nil, insufficientStock(m, b)
			}
			if b.Reserved >= m.Quantity {
				b.Reserved -= m.Quantity
			} else {
				b.Reserved = 0
			}
		} else if b.Available() < m.Quantity {
			return nil, insufficientStock(m, b)
		}

		rate = b.ValuationRate
		qtyAfter = qtyBefore - m.Quantity
		if qtyAfter.IsZero() {
			valueAfter = types.ZeroMoney()
		} else {
			valueAfter = valueBefore.Sub(m.Quantity.MulRate(rate))
		}

	default:
		return nil, apperror.NewInternal(nil).
			WithDetail("reason", "unknown record type").
			WithDetail("record_type", string(m.RecordType))
	}

	b.Quantity = qtyAfter
	b.StockValue = valueAfter
	b.ValuationRate = averageRate(qtyAfter, valueAfter)

	return &entity.StockLedgerEntry{
		StockMovement:    *m,
		QtyBefore:        qtyBefore,
		QtyAfter:         qtyAfter,
		ValuationRate:    rate,
		StockValueBefore: valueBefore,
		StockValueAfter:  valueAfter,
	}, nil
}

func insufficientStock(m *entity.StockMovement, b *entity.StockBalance) error {
	return apperror.NewInsufficientStock(
		m.ItemID.String(),
		m.Quantity.Float64(),
		b.Available().Float64(),
	).WithDetail("warehouse_id", m.WarehouseID.String())
}

// averageRate returns value/qty, or zero for empty stock.
func averageRate(qty types.Quantity, value types.Money) types.Money {
	if !qty.IsPositive() {
		return types.ZeroMoney()
	}
	return value.Div(qty.Decimal())
}

func (e *Engine) runHooks(ctx context.Context, hooks map[string][]Hook, doc Postable, set *MovementSet) error {
	for _, h := range hooks[doc.GetDocumentType()] {
		if err := h(ctx, doc, set); err != nil {
			return err
		}
	}
	for _, h := range hooks["*"] {
		if err := h(ctx, doc, set); err != nil {
			return err
		}
	}
	return nil
}

func entryKeys(entries []*entity.StockLedgerEntry) []BalanceKey {
	set := NewMovementSet(id.Nil(), "", 0, "")
	for _, en := range entries {
		set.Stock = append(set.Stock, en.StockMovement)
	}
	return set.BalanceKeys()
}

func balanceSlice(m map[BalanceKey]*entity.StockBalance, keys []BalanceKey) []*entity.StockBalance {
	out := make([]*entity.StockBalance, 0, len(keys))
	for _, k := range keys {
		if b := m[k]; b != nil {
			out = append(out, b)
		}
	}
	return out
}
