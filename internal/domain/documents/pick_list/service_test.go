package pick_list

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockroom/internal/core/id"
	"stockroom/internal/core/types"
	"stockroom/internal/domain"
	"stockroom/internal/domain/registers/stock"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePickListRepo struct {
	Repository
	docs map[id.ID]*PickList
}

func (f *fakePickListRepo) GetByID(_ context.Context, _ string, docID id.ID) (*PickList, error) {
	return f.docs[docID], nil
}

func (f *fakePickListRepo) Update(_ context.Context, doc *PickList) error {
	f.docs[doc.ID] = doc
	return nil
}

// fakeStockRepo records reservation deltas per item.
type fakeStockRepo struct {
	stock.Repository
	reserved map[id.ID]types.Quantity
}

func (f *fakeStockRepo) UpdateReserved(_ context.Context, _ string, _, itemID id.ID, delta types.Quantity) error {
	f.reserved[itemID] += delta
	return nil
}

func newCancelFixture(doc *PickList) (*Service, *fakeStockRepo) {
	repo := &fakePickListRepo{docs: map[id.ID]*PickList{doc.ID: doc}}
	stockRepo := &fakeStockRepo{reserved: map[id.ID]types.Quantity{}}
	svc := &Service{
		DocumentService: domain.NewDocumentService(domain.DocumentServiceConfig[*PickList]{
			Repo:      repo,
			TxManager: fakeTxManager{},
			DocName:   "pick list",
			NumPrefix: "PL",
		}),
		repo:      repo,
		stock:     stock.NewService(stockRepo, fakeTxManager{}),
		txManager: fakeTxManager{},
	}
	return svc, stockRepo
}

func TestCancelReturnsReservation(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()

	reserving := []Status{StatusReleased, StatusPicking, StatusPicked}
	for _, status := range reserving {
		t.Run(string(status), func(t *testing.T) {
			doc := NewPickList("acme", id.New())
			doc.AddLine(itemID, types.NewQuantityFromFloat64(4))
			doc.Status = status
			svc, stockRepo := newCancelFixture(doc)

			require.NoError(t, svc.Cancel(ctx, "acme", doc.ID))
			assert.Equal(t, StatusCancelled, doc.Status)
			assert.Equal(t, types.NewQuantityFromFloat64(-4), stockRepo.reserved[itemID])
		})
	}

	t.Run("draft holds no reservation", func(t *testing.T) {
		doc := NewPickList("acme", id.New())
		doc.AddLine(itemID, types.NewQuantityFromFloat64(4))
		svc, stockRepo := newCancelFixture(doc)

		require.NoError(t, svc.Cancel(ctx, "acme", doc.ID))
		assert.Equal(t, StatusCancelled, doc.Status)
		assert.Empty(t, stockRepo.reserved)
	})
}
