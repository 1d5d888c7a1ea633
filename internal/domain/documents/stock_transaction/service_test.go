package stock_transaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

// boxNormalizer treats "box" as 12 base units.
type boxNormalizer struct{}

func (boxNormalizer) NormalizeQuantity(_ context.Context, _ string, uomCode string, qty types.Quantity) (types.Quantity, error) {
	if uomCode == "box" {
		return qty * 12, nil
	}
	return qty, nil
}

func TestNormalizeLines(t *testing.T) {
	svc := &Service{normalizer: boxNormalizer{}}

	doc := NewStockTransaction("acme", TypeIn)
	doc.AddLineInUnit(id.New(), "box", types.NewQuantityFromFloat64(2), types.MustMoney("1"))
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(5), types.MustMoney("1"))

	require.NoError(t, svc.normalizeLines(context.Background(), doc))

	assert.Equal(t, types.NewQuantityFromFloat64(24), doc.Lines[0].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(2), doc.Lines[0].EnteredQty)
	assert.Equal(t, types.NewQuantityFromFloat64(5), doc.Lines[1].Quantity)
	assert.Equal(t, types.NewQuantityFromFloat64(29), doc.TotalQuantity)
}
