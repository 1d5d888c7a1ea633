package pos_sale

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
	sale := NewPOSSale("acme", "cashier-1", id.New(), PaymentCash)
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("3.50"))
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("12"))

	assert.Equal(t, types.NewQuantityFromFloat64(3), sale.TotalQuantity)
	assert.True(t, sale.TotalAmount.Equal(types.MustMoney("19")), "got %s", sale.TotalAmount)
	assert.True(t, sale.Lines[0].Amount.Equal(types.MustMoney("7")))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid sale", func(t *testing.T) {
		sale := NewPOSSale("acme", "cashier-1", id.New(), PaymentCard)
		sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("5"))
		assert.NoError(t, sale.Validate(ctx))
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		sale := NewPOSSale("acme", "cashier-1", id.New(), "barter")
		sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("5"))
		assert.Error(t, sale.Validate(ctx))
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		sale := NewPOSSale("acme", "cashier-1", id.New(), PaymentCash)
		assert.Error(t, sale.Validate(ctx))
	})

	t.Run("rejects negative rate", func(t *testing.T) {
		sale := NewPOSSale("acme", "cashier-1", id.New(), PaymentCash)
		sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("-1"))
		assert.Error(t, sale.Validate(ctx))
	})
}

func TestGenerateMovements(t *testing.T) {
	ctx := context.Background()
	wh := id.New()
	sale := NewPOSSale("acme", "cashier-1", wh, PaymentCash)
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(2), types.MustMoney("3"))
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("9"))

	set, err := sale.GenerateMovements(ctx)
	require.NoError(t, err)
	require.Len(t, set.Stock, 2)
	for _, m := range set.Stock {
		assert.Equal(t, entity.RecordTypeExpense, m.RecordType)
		assert.Equal(t, wh, m.WarehouseID)
		assert.False(t, m.ConsumesReservation)
	}
}

func TestCanPostRevalidatesLines(t *testing.T) {
	ctx := context.Background()

	sale := NewPOSSale("acme", "cashier-1", id.New(), PaymentCash)
	sale.AddLine(id.New(), types.NewQuantityFromFloat64(1), types.MustMoney("5"))
	require.NoError(t, sale.CanPost(ctx))

	// A line gone bad after creation must block posting.
	sale.Lines[0].Quantity = 0
	assert.Error(t, sale.CanPost(ctx))
}
