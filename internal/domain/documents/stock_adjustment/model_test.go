package stock_adjustment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

func qty(f float64) types.Quantity {
	return types.NewQuantityFromFloat64(f)
}

func countedLine(doc *StockAdjustment, itemID id.ID, book, counted float64, rate types.Money) {
	line := doc.AddLine(itemID, qty(book), rate)
	adjusted := qty(counted)
	line.AdjustedQty = &adjusted
}

func TestApprove(t *testing.T) {
	doc := NewStockAdjustment("acme", id.New(), "annual count")
	countedLine(doc, id.New(), 10, 8, types.ZeroMoney())

	require.NoError(t, doc.Approve("auditor-1"))
	assert.Equal(t, StatusApproved, doc.Status)
	assert.Equal(t, "auditor-1", doc.ApprovedBy)

	// Approving twice is an invalid transition.
	assert.Error(t, doc.Approve("auditor-2"))
}

func TestApproveRequiresFullCount(t *testing.T) {
	doc := NewStockAdjustment("acme", id.New(), "annual count")
	countedLine(doc, id.New(), 10, 8, types.ZeroMoney())
	uncounted := doc.AddLine(id.New(), qty(5), types.ZeroMoney())

	require.Error(t, doc.Approve("auditor-1"))
	assert.Equal(t, StatusDraft, doc.Status)

	require.NoError(t, doc.RecordCount(uncounted.LineID, qty(5)))
	assert.NoError(t, doc.Approve("auditor-1"))
}

func TestRecordCount(t *testing.T) {
	doc := NewStockAdjustment("acme", id.New(), "spot check")
	line := doc.AddLine(id.New(), qty(10), types.ZeroMoney())

	assert.False(t, line.Counted())
	assert.Equal(t, DirectionNone, line.Direction())

	require.NoError(t, doc.RecordCount(line.LineID, qty(12)))
	assert.True(t, doc.Lines[0].Counted())
	assert.Equal(t, qty(2), doc.Lines[0].Difference())
	assert.Equal(t, DirectionSurplus, doc.Lines[0].Direction())

	assert.Error(t, doc.RecordCount(id.New(), qty(1)))
}

func TestCanPostRequiresApprovalAndCount(t *testing.T) {
	ctx := context.Background()
	doc := NewStockAdjustment("acme", id.New(), "damage write-off")
	countedLine(doc, id.New(), 10, 9, types.ZeroMoney())

	require.Error(t, doc.CanPost(ctx))

	require.NoError(t, doc.Approve("auditor-1"))
	assert.NoError(t, doc.CanPost(ctx))

	// A line added after approval without a count blocks posting.
	doc.AddLine(id.New(), qty(3), types.ZeroMoney())
	assert.Error(t, doc.CanPost(ctx))
}

func TestValidateQuantities(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects negative book quantity", func(t *testing.T) {
		doc := NewStockAdjustment("acme", id.New(), "count")
		countedLine(doc, id.New(), -1, 0, types.ZeroMoney())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("rejects negative counted quantity", func(t *testing.T) {
		doc := NewStockAdjustment("acme", id.New(), "count")
		countedLine(doc, id.New(), 1, -1, types.ZeroMoney())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("uncounted line is valid while drafting", func(t *testing.T) {
		doc := NewStockAdjustment("acme", id.New(), "count")
		doc.AddLine(id.New(), qty(1), types.ZeroMoney())
		assert.NoError(t, doc.Validate(ctx))
	})
}

func TestGenerateMovementsFromDifference(t *testing.T) {
	ctx := context.Background()
	wh := id.New()
	doc := NewStockAdjustment("acme", wh, "count variance")
	countedLine(doc, id.New(), 10, 13, types.MustMoney("7")) // surplus 3
	countedLine(doc, id.New(), 5, 4, types.ZeroMoney())      // shortage 1
	countedLine(doc, id.New(), 2, 2, types.ZeroMoney())      // no change

	set, err := doc.GenerateMovements(ctx)
	require.NoError(t, err)
	require.Len(t, set.Stock, 2)

	assert.Equal(t, entity.RecordTypeReceipt, set.Stock[0].RecordType)
	assert.Equal(t, qty(3), set.Stock[0].Quantity)
	assert.True(t, set.Stock[0].IncomingRate.Equal(types.MustMoney("7")))

	assert.Equal(t, entity.RecordTypeExpense, set.Stock[1].RecordType)
	assert.Equal(t, qty(1), set.Stock[1].Quantity)
	assert.Equal(t, wh, set.Stock[1].WarehouseID)
}

func TestMarkPostedWorkflow(t *testing.T) {
	doc := NewStockAdjustment("acme", id.New(), "shrinkage")
	countedLine(doc, id.New(), 10, 9, types.ZeroMoney())
	require.NoError(t, doc.Approve("auditor-1"))

	doc.MarkPosted()
	assert.Equal(t, StatusPosted, doc.Status)
	assert.True(t, doc.Posted)

	doc.MarkUnposted()
	assert.Equal(t, StatusApproved, doc.Status)
	assert.False(t, doc.Posted)
}
