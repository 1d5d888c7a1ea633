package stock_transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

func TestValidateByType(t *testing.T) {
	ctx := context.Background()
	src, dst := id.New(), id.New()

	t.Run("in requires target warehouse", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeIn)
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"))
		require.Error(t, doc.Validate(ctx))

		doc.TargetWarehouseID = &dst
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("out requires source warehouse", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeOut)
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.ZeroMoney())
		require.Error(t, doc.Validate(ctx))

		doc.SourceWarehouseID = &src
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("transfer requires distinct warehouses", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeTransfer)
		doc.SourceWarehouseID = &src
		doc.TargetWarehouseID = &src
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.ZeroMoney())
		require.Error(t, doc.Validate(ctx))

		doc.TargetWarehouseID = &dst
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		doc := NewStockTransaction("acme", "sideways")
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.ZeroMoney())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeIn)
		doc.TargetWarehouseID = &dst
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeIn)
		doc.TargetWarehouseID = &dst
		doc.AddLine(id.New(), 0, types.ZeroMoney())
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestAddLineTotals(t *testing.T) {
	doc := NewStockTransaction("acme", TypeIn)
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("10"))
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(3.5), types.MustMoney("4"))

	assert.Equal(t, types.NewQuantityFromFloat64(5.5), doc.TotalQuantity)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
}

func TestAddLineInUnit(t *testing.T) {
	doc := NewStockTransaction("acme", TypeIn)
	doc.AddLineInUnit(id.New(), "box", types.NewQuantityFromFloat64(3), types.MustMoney("10"))

	assert.Equal(t, "box", doc.Lines[0].UOM)
	assert.Equal(t, types.NewQuantityFromFloat64(3), doc.Lines[0].EnteredQty)
	assert.Equal(t, types.NewQuantityFromFloat64(3), doc.Lines[0].Quantity)
}

func TestGenerateMovements(t *testing.T) {
	ctx := context.Background()
	src, dst := id.New(), id.New()
	itm := id.New()

	t.Run("in produces receipts", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeIn)
		doc.TargetWarehouseID = &dst
		doc.AddLine(itm, types.NewQuantityFromFloat64(5), types.MustMoney("2"))

		set, err := doc.GenerateMovements(ctx)
		require.NoError(t, err)
		require.Len(t, set.Stock, 1)
		assert.Equal(t, entity.RecordTypeReceipt, set.Stock[0].RecordType)
		assert.Equal(t, dst, set.Stock[0].WarehouseID)
	})

	t.Run("out produces expenses", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeOut)
		doc.SourceWarehouseID = &src
		doc.AddLine(itm, types.NewQuantityFromFloat64(5), types.ZeroMoney())

		set, err := doc.GenerateMovements(ctx)
		require.NoError(t, err)
		require.Len(t, set.Stock, 1)
		assert.Equal(t, entity.RecordTypeExpense, set.Stock[0].RecordType)
		assert.Equal(t, src, set.Stock[0].WarehouseID)
	})

	t.Run("transfer produces expense and inheriting receipt", func(t *testing.T) {
		doc := NewStockTransaction("acme", TypeTransfer)
		doc.SourceWarehouseID = &src
		doc.TargetWarehouseID = &dst
		doc.AddLine(itm, types.NewQuantityFromFloat64(5), types.ZeroMoney())

		set, err := doc.GenerateMovements(ctx)
		require.NoError(t, err)
		require.Len(t, set.Stock, 2)
		assert.Equal(t, entity.RecordTypeExpense, set.Stock[0].RecordType)
		assert.Equal(t, src, set.Stock[0].WarehouseID)
		assert.Equal(t, entity.RecordTypeReceipt, set.Stock[1].RecordType)
		assert.Equal(t, dst, set.Stock[1].WarehouseID)
		assert.True(t, set.Stock[1].InheritRate)
	})
}

func TestCanPostRevalidatesLines(t *testing.T) {
	ctx := context.Background()

	doc := NewStockTransaction("acme", TypeIn)
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("1"))

	// Missing target warehouse must block posting, not just creation.
	require.Error(t, doc.CanPost(ctx))

	dst := id.New()
	doc.TargetWarehouseID = &dst
	assert.NoError(t, doc.CanPost(ctx))

	doc.Lines[0].Quantity = 0
	assert.Error(t, doc.CanPost(ctx))
}
