package purchase_receipt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

func TestAddLineTotals(t *testing.T) {
	doc := NewPurchaseReceipt("acme", "ACME Supplies", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("2.50"))
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(4), types.MustMoney("1.25"))

	assert.Equal(t, types.NewQuantityFromFloat64(14), doc.TotalQuantity)
	assert.True(t, doc.TotalAmount.Equal(types.MustMoney("30")), "got %s", doc.TotalAmount)
	assert.True(t, doc.Lines[0].Amount.Equal(types.MustMoney("25")))
	assert.Equal(t, 2, doc.Lines[1].LineNo)
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid receipt", func(t *testing.T) {
		doc := NewPurchaseReceipt("acme", "ACME Supplies", id.New())
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("5"))
		assert.NoError(t, doc.Validate(ctx))
	})

	t.Run("rejects missing supplier", func(t *testing.T) {
		doc := NewPurchaseReceipt("acme", "", id.New())
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("5"))
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		doc := NewPurchaseReceipt("acme", "ACME Supplies", id.New())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		doc := NewPurchaseReceipt("acme", "ACME Supplies", id.New())
		doc.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("-0.01"))
		assert.Error(t, doc.Validate(ctx))
	})
}

func TestGenerateMovements(t *testing.T) {
	ctx := context.Background()
	wh := id.New()
	doc := NewPurchaseReceipt("acme", "ACME Supplies", wh)
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("2"))

	set, err := doc.GenerateMovements(ctx)
	require.NoError(t, err)
	require.Len(t, set.Stock, 1)
	assert.Equal(t, entity.RecordTypeReceipt, set.Stock[0].RecordType)
	assert.Equal(t, wh, set.Stock[0].WarehouseID)
	assert.True(t, set.Stock[0].IncomingRate.Equal(types.MustMoney("2")))
	assert.False(t, set.Stock[0].InheritRate)
}

func TestCanPostRevalidatesLines(t *testing.T) {
	ctx := context.Background()

	doc := NewPurchaseReceipt("acme", "ACME Supplies", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(10), types.MustMoney("2"))
	require.NoError(t, doc.CanPost(ctx))

	// A line gone bad after creation must block posting.
	doc.Lines[0].Rate = types.MustMoney("-1")
	assert.Error(t, doc.CanPost(ctx))
}
