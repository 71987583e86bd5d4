package purchasing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

type stubOrderRepo struct {
	purchasing.PurchaseOrderRepository
	orders  map[uuid.UUID]*purchasing.PurchaseOrder
	deleted []uuid.UUID
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*purchasing.PurchaseOrder)}
}

func (r *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.NewNotFoundError("purchase order")
	}
	return order, nil
}

func (r *stubOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.orders[id]; !ok {
		return shared.NewNotFoundError("purchase order")
	}
	delete(r.orders, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func seedOrder(t *testing.T, repo *stubOrderRepo, number string) *purchasing.PurchaseOrder {
	t.Helper()
	order, err := purchasing.NewPurchaseOrder(number, uuid.New(), "Acme Wholesale")
	require.NoError(t, err)
	_, err = order.AddLine(uuid.New(), "Widget", "SKU-001", decimal.NewFromInt(5), decimal.NewFromFloat(2.50))
	require.NoError(t, err)
	repo.orders[order.ID] = order
	return order
}

func TestPurchaseOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	newService := func() (*PurchaseOrderService, *stubOrderRepo) {
		repo := newStubOrderRepo()
		return NewPurchaseOrderService(repo, zap.NewNop()), repo
	}

	t.Run("rejects pending order", func(t *testing.T) {
		service, repo := newService()
		order := seedOrder(t, repo, "PO-2026-00001")

		err := service.Delete(ctx, order.ID)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeOrderLocked))
		assert.Contains(t, repo.orders, order.ID)
	})

	t.Run("rejects approved order", func(t *testing.T) {
		service, repo := newService()
		order := seedOrder(t, repo, "PO-2026-00002")
		require.NoError(t, order.Approve(uuid.New()))

		err := service.Delete(ctx, order.ID)
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeOrderLocked))
		assert.Contains(t, repo.orders, order.ID)
	})

	t.Run("deletes cancelled order", func(t *testing.T) {
		service, repo := newService()
		order := seedOrder(t, repo, "PO-2026-00003")
		require.NoError(t, order.Cancel("supplier discontinued the line"))

		require.NoError(t, service.Delete(ctx, order.ID))
		assert.NotContains(t, repo.orders, order.ID)
	})

	t.Run("deletes received order", func(t *testing.T) {
		service, repo := newService()
		order := seedOrder(t, repo, "PO-2026-00004")
		require.NoError(t, order.Approve(uuid.New()))
		require.NoError(t, order.ReceiveLine(order.Lines[0].ID, decimal.NewFromInt(5), uuid.New()))
		require.NoError(t, order.MarkReceived())

		require.NoError(t, service.Delete(ctx, order.ID))
		assert.NotContains(t, repo.orders, order.ID)
	})

	t.Run("unknown order returns not found", func(t *testing.T) {
		service, _ := newService()
		err := service.Delete(ctx, uuid.New())
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
	})
}
