package pick_list

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
)

func TestTransitionAllowList(t *testing.T) {
	allowed := []struct {
		from, to Status
	}{
		{StatusDraft, StatusReleased},
		{StatusDraft, StatusCancelled},
		{StatusReleased, StatusPicking},
		{StatusReleased, StatusCancelled},
		{StatusPicking, StatusPicked},
		{StatusPicking, StatusCancelled},
		{StatusPicked, StatusCompleted},
		{StatusPicked, StatusCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to Status
	}{
		{StatusDraft, StatusPicking},
		{StatusDraft, StatusCompleted},
		{StatusReleased, StatusCompleted},
		{StatusCompleted, StatusDraft},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusReleased},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTransitionRejectsSkippedStep(t *testing.T) {
	doc := NewPickList("acme", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(1))

	err := doc.Transition(StatusPicked)
	require.Error(t, err)
	assert.Equal(t, StatusDraft, doc.Status)

	require.NoError(t, doc.Transition(StatusReleased))
	require.NoError(t, doc.Transition(StatusPicking))
	require.NoError(t, doc.Transition(StatusPicked))
	assert.Equal(t, StatusPicked, doc.Status)
}

func TestCanPostRequiresPicked(t *testing.T) {
	ctx := context.Background()
	doc := NewPickList("acme", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(2))

	require.Error(t, doc.CanPost(ctx))

	doc.Status = StatusPicked
	assert.NoError(t, doc.CanPost(ctx))
}

func TestValidatePickedBounds(t *testing.T) {
	ctx := context.Background()
	doc := NewPickList("acme", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(5))

	// Picked defaults to requested.
	assert.Equal(t, doc.Lines[0].Quantity, doc.Lines[0].PickedQty)
	assert.NoError(t, doc.Validate(ctx))

	// Short pick is fine, zero is fine.
	doc.Lines[0].PickedQty = 0
	assert.NoError(t, doc.Validate(ctx))

	// Picking more than requested is not.
	doc.Lines[0].PickedQty = types.NewQuantityFromFloat64(6)
	assert.Error(t, doc.Validate(ctx))
}

func TestGenerateMovementsSkipsZeroPicked(t *testing.T) {
	ctx := context.Background()
	wh := id.New()
	doc := NewPickList("acme", wh)
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(5))
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(3))
	doc.Lines[1].PickedQty = 0
	doc.Status = StatusPicked

	set, err := doc.GenerateMovements(ctx)
	require.NoError(t, err)
	require.Len(t, set.Stock, 1)
	assert.Equal(t, doc.Lines[0].ItemID, set.Stock[0].ItemID)
	assert.True(t, set.Stock[0].ConsumesReservation)
}

func TestMarkPostedCompletesWorkflow(t *testing.T) {
	doc := NewPickList("acme", id.New())
	doc.AddLine(id.New(), types.NewQuantityFromFloat64(1))
	doc.Status = StatusPicked

	doc.MarkPosted()
	assert.Equal(t, StatusCompleted, doc.Status)
	assert.True(t, doc.Posted)

	doc.MarkUnposted()
	assert.Equal(t, StatusPicked, doc.Status)
	assert.False(t, doc.Posted)
}
