package gl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain/documents/pos_sale"
	"stockroom/internal/domain/documents/purchase_receipt"
	"stockroom/internal/domain/documents/stock_adjustment"
	"stockroom/internal/domain/registers/stock"
)

type fakeGLRepo struct {
	entries []Entry
}

func (r *fakeGLRepo) InsertEntries(_ context.Context, entries []Entry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *fakeGLRepo) DeleteByRecorder(_ context.Context, companyID string, recorderID id.ID) (int64, error) {
	var kept []Entry
	var deleted int64
	for _, e := range r.entries {
		if e.CompanyID == companyID && e.RecorderID == recorderID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

func (r *fakeGLRepo) GetByRecorder(_ context.Context, companyID string, recorderID id.ID) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.CompanyID == companyID && e.RecorderID == recorderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeGLRepo) TrialBalance(_ context.Context, _ string, _, _ time.Time) ([]AccountBalance, error) {
	return nil, nil
}

// fakeStockRepo serves only GetEntriesByRecorder. The embedded interface
// is nil, so any other call panics and fails the test loudly.
type fakeStockRepo struct {
	stock.Repository
	entries []*entity.StockLedgerEntry
}

func (r *fakeStockRepo) GetEntriesByRecorder(_ context.Context, _ string, _ id.ID) ([]*entity.StockLedgerEntry, error) {
	return r.entries, nil
}

func assertBalanced(t *testing.T, entries []Entry) {
	t.Helper()
	debits := types.ZeroMoney()
	credits := types.ZeroMoney()
	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	assert.True(t, debits.Equal(credits), "debits %s != credits %s", debits, credits)
}

func sumAccount(entries []Entry, account string, debit bool) types.Money {
	total := types.ZeroMoney()
	for _, e := range entries {
		if e.Account != account {
			continue
		}
		if debit {
			total = total.Add(e.Debit)
		} else {
			total = total.Add(e.Credit)
		}
	}
	return total
}

func TestJournalRejectsUnbalanced(t *testing.T) {
	j := NewJournal(id.New(), "PurchaseReceipt", "acme", time.Now())
	j.Debit(AccountInventory, types.MustMoney("10"), "goods")
	j.Credit(AccountPayable, types.MustMoney("9"), "supplier")

	_, err := j.Entries()
	assert.Error(t, err)
}

func TestPurchasePostedWritesJournal(t *testing.T) {
	ctx := context.Background()
	repo := &fakeGLRepo{}
	svc := NewService(repo, &fakeStockRepo{})

	pr := purchase_receipt.NewPurchaseReceipt("acme", "ACME Supplies", id.New())
	pr.Number = "PR-2026-0001"
	pr.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("2.50"))

	require.NoError(t, svc.onPurchasePosted(ctx, pr, nil))
	require.Len(t, repo.entries, 2)
	assertBalanced(t, repo.entries)
	assert.True(t, sumAccount(repo.entries, AccountInventory, true).Equal(types.MustMoney("25")))
	assert.True(t, sumAccount(repo.entries, AccountPayable, false).Equal(types.MustMoney("25")))
}

func TestSalePostedUsesLedgerCost(t *testing.T) {
	ctx := context.Background()
	repo := &fakeGLRepo{}
	stockRepo := &fakeStockRepo{entries: []*entity.StockLedgerEntry{
		{StockValueBefore: types.MustMoney("100"), StockValueAfter: types.MustMoney("70")},
		{StockValueBefore: types.MustMoney("50"), StockValueAfter: types.MustMoney("45")},
	}}
	svc := NewService(repo, stockRepo)

	sale := pos_sale.NewPOSSale("acme", "cashier-1", id.New(), pos_sale.PaymentCash)
	sale.Number = "POS-000001"
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(3), types.MustMoney("20"))

	require.NoError(t, svc.onSalePosted(ctx, sale, nil))
	require.Len(t, repo.entries, 4)
	assertBalanced(t, repo.entries)
	assert.True(t, sumAccount(repo.entries, AccountCash, true).Equal(types.MustMoney("60")))
	assert.True(t, sumAccount(repo.entries, AccountSales, false).Equal(types.MustMoney("60")))
	assert.True(t, sumAccount(repo.entries, AccountCOGS, true).Equal(types.MustMoney("35")))
	assert.True(t, sumAccount(repo.entries, AccountInventory, false).Equal(types.MustMoney("35")))
}

func TestAdjustmentPostedFollowsDelta(t *testing.T) {
	ctx := context.Background()

	t.Run("surplus debits inventory", func(t *testing.T) {
		repo := &fakeGLRepo{}
		stockRepo := &fakeStockRepo{entries: []*entity.StockLedgerEntry{
			{StockValueBefore: types.MustMoney("100"), StockValueAfter: types.MustMoney("130")},
		}}
		svc := NewService(repo, stockRepo)

		adj := stock_adjustment.NewStockAdjustment("acme", id.New(), "count surplus")
		require.NoError(t, svc.onAdjustmentPosted(ctx, adj, nil))
		require.Len(t, repo.entries, 2)
		assertBalanced(t, repo.entries)
		assert.True(t, sumAccount(repo.entries, AccountInventory, true).Equal(types.MustMoney("30")))
	})

	t.Run("shortage credits inventory", func(t *testing.T) {
		repo := &fakeGLRepo{}
		stockRepo := &fakeStockRepo{entries: []*entity.StockLedgerEntry{
			{StockValueBefore: types.MustMoney("100"), StockValueAfter: types.MustMoney("85")},
		}}
		svc := NewService(repo, stockRepo)

		adj := stock_adjustment.NewStockAdjustment("acme", id.New(), "shrinkage")
		require.NoError(t, svc.onAdjustmentPosted(ctx, adj, nil))
		require.Len(t, repo.entries, 2)
		assertBalanced(t, repo.entries)
		assert.True(t, sumAccount(repo.entries, AccountInventory, false).Equal(types.MustMoney("15")))
		assert.True(t, sumAccount(repo.entries, AccountStockAdjustment, true).Equal(types.MustMoney("15")))
	})

	t.Run("zero delta writes nothing", func(t *testing.T) {
		repo := &fakeGLRepo{}
		svc := NewService(repo, &fakeStockRepo{})

		adj := stock_adjustment.NewStockAdjustment("acme", id.New(), "no-op")
		require.NoError(t, svc.onAdjustmentPosted(ctx, adj, nil))
		assert.Empty(t, repo.entries)
	})
}

func TestUnpostedRemovesEntries(t *testing.T) {
	ctx := context.Background()
	repo := &fakeGLRepo{}
	svc := NewService(repo, &fakeStockRepo{})

	pr := purchase_receipt.NewPurchaseReceipt("acme", "ACME Supplies", id.New())
	pr.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("10"))
	require.NoError(t, svc.onPurchasePosted(ctx, pr, nil))
	require.Len(t, repo.entries, 2)

	require.NoError(t, svc.onUnposted(ctx, pr, nil))
	assert.Empty(t, repo.entries)
}
