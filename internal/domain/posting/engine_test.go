package posting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/apperror"
	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// memRegister is an in-memory StockRegister. Single company, no locking.
type memRegister struct {
	balances map[BalanceKey]*entity.StockBalance
	entries  []*entity.StockLedgerEntry
}

func newMemRegister() *memRegister {
	return &memRegister{balances: make(map[BalanceKey]*entity.StockBalance)}
}

func (r *memRegister) BalancesForUpdate(_ context.Context, companyID string, keys []BalanceKey) (map[BalanceKey]*entity.StockBalance, error) {
	out := make(map[BalanceKey]*entity.StockBalance, len(keys))
	for _, k := range keys {
		if b, ok := r.balances[k]; ok {
			copied := *b
			out[k] = &copied
			continue
		}
		out[k] = &entity.StockBalance{
			CompanyID:     companyID,
			WarehouseID:   k.WarehouseID,
			ItemID:        k.ItemID,
			ValuationRate: types.ZeroMoney(),
			StockValue:    types.ZeroMoney(),
		}
	}
	return out, nil
}

func (r *memRegister) UpsertBalances(_ context.Context, balances []*entity.StockBalance) error {
	for _, b := range balances {
		copied := *b
		r.balances[BalanceKey{WarehouseID: b.WarehouseID, ItemID: b.ItemID}] = &copied
	}
	return nil
}

func (r *memRegister) InsertEntries(_ context.Context, entries []*entity.StockLedgerEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memRegister) EntriesByRecorder(_ context.Context, _ string, recorderID id.ID) ([]*entity.StockLedgerEntry, error) {
	var out []*entity.StockLedgerEntry
	for _, e := range r.entries {
		if e.RecorderID == recorderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memRegister) DeleteEntriesByRecorder(_ context.Context, _ string, recorderID id.ID) (int64, error) {
	kept := r.entries[:0]
	var deleted int64
	for _, e := range r.entries {
		if e.RecorderID == recorderID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

func (r *memRegister) snapshot() *memRegister {
	s := newMemRegister()
	for k, b := range r.balances {
		copied := *b
		s.balances[k] = &copied
	}
	s.entries = append([]*entity.StockLedgerEntry(nil), r.entries...)
	return s
}

func (r *memRegister) restore(s *memRegister) {
	r.balances = s.balances
	r.entries = s.entries
}

func (r *memRegister) totalValue() types.Money {
	total := types.ZeroMoney()
	for _, b := range r.balances {
		total = total.Add(b.StockValue)
	}
	return total
}

// memTxManager emulates transactional semantics by snapshotting the
// register before fn and restoring it when fn fails.
type memTxManager struct {
	reg *memRegister
}

func (m *memTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunSerializable(ctx, fn)
}

func (m *memTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := m.reg.snapshot()
	if err := fn(ctx); err != nil {
		m.reg.restore(snap)
		return err
	}
	return nil
}

// testDoc is a minimal Postable.
type testDoc struct {
	id        id.ID
	company   string
	date      time.Time
	posted    bool
	version   int
	docType   string
	movements func(set *MovementSet)
	canPost   error
}

func newTestDoc(docType string, movements func(set *MovementSet)) *testDoc {
	return &testDoc{
		id:        id.New(),
		company:   "acme",
		date:      time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		version:   1,
		docType:   docType,
		movements: movements,
	}
}

func (d *testDoc) GetID() id.ID             { return d.id }
func (d *testDoc) GetCompanyID() string     { return d.company }
func (d *testDoc) GetDate() time.Time       { return d.date }
func (d *testDoc) GetPostedVersion() int    { return d.version }
func (d *testDoc) IsPosted() bool           { return d.posted }
func (d *testDoc) GetDocumentType() string  { return d.docType }
func (d *testDoc) MarkPosted()              { d.posted = true; d.version++ }
func (d *testDoc) MarkUnposted()            { d.posted = false }
func (d *testDoc) CanPost(context.Context) error { return d.canPost }

func (d *testDoc) GenerateMovements(context.Context) (*MovementSet, error) {
	set := NewMovementSet(d.id, d.docType, d.version, d.company)
	d.movements(set)
	return set, nil
}

func newTestEngine() (*Engine, *memRegister) {
	reg := newMemRegister()
	engine := NewEngine(&memTxManager{reg: reg}, reg, nil)
	return engine, reg
}

func noSave(context.Context) error { return nil }

func qty(f float64) types.Quantity { return types.NewQuantityFromFloat64(f) }

func TestPostReceipt(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	doc := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(10), types.MustMoney("5"))
	})

	err := engine.Post(context.Background(), doc, noSave)
	require.NoError(t, err)
	assert.True(t, doc.IsPosted())

	b := reg.balances[BalanceKey{WarehouseID: wh, ItemID: itm}]
	require.NotNil(t, b)
	assert.Equal(t, qty(10), b.Quantity)
	assert.True(t, b.StockValue.Equal(types.MustMoney("50")))
	assert.True(t, b.ValuationRate.Equal(types.MustMoney("5")))

	require.Len(t, reg.entries, 1)
	assert.Equal(t, types.Quantity(0), reg.entries[0].QtyBefore)
	assert.Equal(t, qty(10), reg.entries[0].QtyAfter)
}

func TestPostExpenseInsufficientStock(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	doc := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockExpense(time.Now().UTC(), wh, itm, qty(5))
	})

	err := engine.Post(context.Background(), doc, noSave)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// Nothing committed: no entries, no balance rows.
	assert.Empty(t, reg.entries)
	assert.Empty(t, reg.balances)
}

func TestPostMovingAverage(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	first := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(10), types.MustMoney("10"))
	})
	require.NoError(t, engine.Post(context.Background(), first, noSave))

	second := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(10), types.MustMoney("20"))
	})
	require.NoError(t, engine.Post(context.Background(), second, noSave))

	b := reg.balances[BalanceKey{WarehouseID: wh, ItemID: itm}]
	assert.Equal(t, qty(20), b.Quantity)
	assert.True(t, b.StockValue.Equal(types.MustMoney("300")))
	assert.True(t, b.ValuationRate.Equal(types.MustMoney("15")), "got %s", b.ValuationRate)

	// Expense goes out at the average.
	issue := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockExpense(time.Now().UTC(), wh, itm, qty(5))
	})
	require.NoError(t, engine.Post(context.Background(), issue, noSave))

	b = reg.balances[BalanceKey{WarehouseID: wh, ItemID: itm}]
	assert.Equal(t, qty(15), b.Quantity)
	assert.True(t, b.StockValue.Equal(types.MustMoney("225")))
}

func TestPostTransferIsValueNeutral(t *testing.T) {
	engine, reg := newTestEngine()
	src, dst, itm := id.New(), id.New(), id.New()

	seed := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), src, itm, qty(10), types.MustMoney("4"))
	})
	require.NoError(t, engine.Post(context.Background(), seed, noSave))
	valueBefore := reg.totalValue()

	transfer := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockTransfer(time.Now().UTC(), src, dst, itm, qty(6))
	})
	require.NoError(t, engine.Post(context.Background(), transfer, noSave))

	assert.True(t, reg.totalValue().Equal(valueBefore),
		"transfer changed total value: %s -> %s", valueBefore, reg.totalValue())

	dstBal := reg.balances[BalanceKey{WarehouseID: dst, ItemID: itm}]
	require.NotNil(t, dstBal)
	assert.Equal(t, qty(6), dstBal.Quantity)
	assert.True(t, dstBal.ValuationRate.Equal(types.MustMoney("4")),
		"receipt should inherit the expense rate, got %s", dstBal.ValuationRate)
}

func TestRepostReplacesEntries(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	amount := qty(10)
	doc := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, amount, types.MustMoney("5"))
	})
	require.NoError(t, engine.Post(context.Background(), doc, noSave))

	// Edit after unposting in memory, then post again. The previous
	// iteration's entries must be reversed, not doubled.
	doc.MarkUnposted()
	amount = qty(3)

	require.NoError(t, engine.Post(context.Background(), doc, noSave))

	b := reg.balances[BalanceKey{WarehouseID: wh, ItemID: itm}]
	assert.Equal(t, qty(3), b.Quantity)
	assert.True(t, b.StockValue.Equal(types.MustMoney("15")))

	entries, err := reg.EntriesByRecorder(context.Background(), "acme", doc.GetID())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, qty(3), entries[0].Quantity)
}

func TestUnpostReversesBalances(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	doc := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(8), types.MustMoney("3"))
	})
	require.NoError(t, engine.Post(context.Background(), doc, noSave))
	require.NoError(t, engine.Unpost(context.Background(), doc, noSave))

	assert.False(t, doc.IsPosted())
	assert.Empty(t, reg.entries)

	b := reg.balances[BalanceKey{WarehouseID: wh, ItemID: itm}]
	require.NotNil(t, b)
	assert.True(t, b.Quantity.IsZero())
	assert.True(t, b.StockValue.Equal(decimal.Zero))
}

func TestUnpostRejectsConsumedStock(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	receipt := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(10), types.MustMoney("2"))
	})
	require.NoError(t, engine.Post(context.Background(), receipt, noSave))

	issue := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockExpense(time.Now().UTC(), wh, itm, qty(7))
	})
	require.NoError(t, engine.Post(context.Background(), issue, noSave))

	// Only 3 left; unposting the receipt would drive the balance to -7.
	err := engine.Unpost(context.Background(), receipt, noSave)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// Receipt stays posted and its entries remain.
	assert.True(t, receipt.IsPosted())
	entries, _ := reg.EntriesByRecorder(context.Background(), "acme", receipt.GetID())
	assert.Len(t, entries, 1)
}

func TestPostConsumesReservation(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	seed := newTestDoc("PurchaseReceipt", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(10), types.MustMoney("1"))
	})
	require.NoError(t, engine.Post(context.Background(), seed, noSave))

	key := BalanceKey{WarehouseID: wh, ItemID: itm}
	reg.balances[key].Reserved = qty(4)

	pick := newTestDoc("PickList", func(set *MovementSet) {
		set.AddStockExpenseReserved(time.Now().UTC(), wh, itm, qty(4))
	})
	require.NoError(t, engine.Post(context.Background(), pick, noSave))

	b := reg.balances[key]
	assert.Equal(t, qty(6), b.Quantity)
	assert.True(t, b.Reserved.IsZero())
}

func TestPostHookErrorRollsBack(t *testing.T) {
	engine, reg := newTestEngine()
	wh, itm := id.New(), id.New()

	boom := errors.New("gl write failed")
	engine.OnPosted("StockTransaction", func(context.Context, Postable, *MovementSet) error {
		return boom
	})

	doc := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(1), types.MustMoney("1"))
	})

	err := engine.Post(context.Background(), doc, noSave)
	require.ErrorIs(t, err, boom)

	assert.Empty(t, reg.entries)
	assert.Empty(t, reg.balances)
}

func TestPostRejectsAlreadyPosted(t *testing.T) {
	engine, _ := newTestEngine()
	wh, itm := id.New(), id.New()

	doc := newTestDoc("StockTransaction", func(set *MovementSet) {
		set.AddStockReceipt(time.Now().UTC(), wh, itm, qty(1), types.MustMoney("1"))
	})
	require.NoError(t, engine.Post(context.Background(), doc, noSave))

	err := engine.Post(context.Background(), doc, noSave)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDocumentPosted, appErr.Code)
}

func TestPostRejectsEmptyMovementSet(t *testing.T) {
	engine, _ := newTestEngine()

	doc := newTestDoc("StockTransaction", func(*MovementSet) {})

	err := engine.Post(context.Background(), doc, noSave)
	require.Error(t, err)
}

func TestBalanceKeysCanonicalOrder(t *testing.T) {
	whA := id.MustParse("00000000-0000-0000-0000-00000000000a")
	whB := id.MustParse("00000000-0000-0000-0000-00000000000b")
	itm1 := id.MustParse("00000000-0000-0000-0000-000000000001")
	itm2 := id.MustParse("00000000-0000-0000-0000-000000000002")

	set := NewMovementSet(id.New(), "Test", 1, "acme")
	now := time.Now().UTC()
	set.AddStockReceipt(now, whB, itm2, qty(1), types.MustMoney("1"))
	set.AddStockReceipt(now, whA, itm2, qty(1), types.MustMoney("1"))
	set.AddStockReceipt(now, whA, itm1, qty(1), types.MustMoney("1"))
	set.AddStockReceipt(now, whA, itm1, qty(2), types.MustMoney("1")) // duplicate key

	keys := set.BalanceKeys()
	require.Len(t, keys, 3)
	assert.Equal(t, BalanceKey{WarehouseID: whA, ItemID: itm1}, keys[0])
	assert.Equal(t, BalanceKey{WarehouseID: whA, ItemID: itm2}, keys[1])
	assert.Equal(t, BalanceKey{WarehouseID: whB, ItemID: itm2}, keys[2])
}
