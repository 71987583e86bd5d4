package receiving

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// In-memory repositories. Find methods return clones so the store only
// changes on save, mirroring how a database-backed repository behaves.

type fakeOrderRepo struct {
	orders       map[uuid.UUID]*purchasing.PurchaseOrder
	saveLockErr  error
	saveLockSeen int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*purchasing.PurchaseOrder)}
}

func cloneOrder(o *purchasing.PurchaseOrder) *purchasing.PurchaseOrder {
	c := *o
	c.Lines = make([]purchasing.PurchaseOrderLine, len(o.Lines))
	copy(c.Lines, o.Lines)
	c.ClearDomainEvents()
	return &c
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.NewNotFoundError("purchase order")
	}
	return cloneOrder(o), nil
}

func (r *fakeOrderRepo) FindByOrderNumber(ctx context.Context, n string) (*purchasing.PurchaseOrder, error) {
	for _, o := range r.orders {
		if o.OrderNumber == n {
			return cloneOrder(o), nil
		}
	}
	return nil, shared.NewNotFoundError("purchase order")
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, f shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return nil, nil
}

func (r *fakeOrderRepo) FindByStatus(ctx context.Context, s purchasing.PurchaseOrderStatus, f shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return nil, nil
}

func (r *fakeOrderRepo) FindBySupplier(ctx context.Context, id uuid.UUID, f shared.Filter) ([]purchasing.PurchaseOrder, error) {
	return nil, nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, o *purchasing.PurchaseOrder) error {
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(ctx context.Context, o *purchasing.PurchaseOrder) error {
	r.saveLockSeen++
	if r.saveLockErr != nil {
		err := r.saveLockErr
		r.saveLockErr = nil
		return err
	}
	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.NewNotFoundError("purchase order")
	}
	if stored.Version >= o.Version {
		return shared.NewConcurrentModificationError("purchase order")
	}
	r.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, f shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) CountByStatus(ctx context.Context, s purchasing.PurchaseOrderStatus) (int64, error) {
	return 0, nil
}

func (r *fakeOrderRepo) ExistsByOrderNumber(ctx context.Context, n string) (bool, error) {
	return false, nil
}

func (r *fakeOrderRepo) GenerateOrderNumber(ctx context.Context) (string, error) {
	return fmt.Sprintf("PO-2026-%05d", len(r.orders)+1), nil
}

type fakeBatchRepo struct {
	batches []*inventory.Batch
	seq     int
}

func (r *fakeBatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.NewNotFoundError("batch")
}

func (r *fakeBatchRepo) FindByBatchNumber(ctx context.Context, n string) (*inventory.Batch, error) {
	return nil, shared.NewNotFoundError("batch")
}

func (r *fakeBatchRepo) FindByProduct(ctx context.Context, id uuid.UUID, f shared.Filter) ([]inventory.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) Save(ctx context.Context, b *inventory.Batch) error {
	r.batches = append(r.batches, b)
	return nil
}

func (r *fakeBatchRepo) GenerateBatchNumber(ctx context.Context) (string, error) {
	r.seq++
	return fmt.Sprintf("BATCH-20260829-%04d", r.seq), nil
}

type fakeRecordRepo struct {
	records map[uuid.UUID]*inventory.InventoryRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[uuid.UUID]*inventory.InventoryRecord)}
}

func cloneRecord(rec *inventory.InventoryRecord) *inventory.InventoryRecord {
	c := *rec
	c.ClearDomainEvents()
	return &c
}

func (r *fakeRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return cloneRecord(rec), nil
		}
	}
	return nil, shared.NewNotFoundError("inventory record")
}

func (r *fakeRecordRepo) FindByBatch(ctx context.Context, batchID uuid.UUID) (*inventory.InventoryRecord, error) {
	rec, ok := r.records[batchID]
	if !ok {
		return nil, shared.NewNotFoundError("inventory record")
	}
	return cloneRecord(rec), nil
}

func (r *fakeRecordRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryRecord, error) {
	var out []inventory.InventoryRecord
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, *cloneRecord(rec))
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) FindAll(ctx context.Context, f shared.Filter) ([]inventory.InventoryRecord, error) {
	return nil, nil
}

func (r *fakeRecordRepo) Save(ctx context.Context, rec *inventory.InventoryRecord) error {
	r.records[rec.BatchID] = cloneRecord(rec)
	return nil
}

func (r *fakeRecordRepo) SaveWithLock(ctx context.Context, rec *inventory.InventoryRecord) error {
	stored, ok := r.records[rec.BatchID]
	if ok && stored.Version >= rec.Version {
		return shared.NewConcurrentModificationError("inventory record")
	}
	r.records[rec.BatchID] = cloneRecord(rec)
	return nil
}

func (r *fakeRecordRepo) Count(ctx context.Context, f shared.Filter) (int64, error) {
	return int64(len(r.records)), nil
}

type fakeMovementRepo struct {
	entries   []*inventory.MovementEntry
	appendErr error
}

func (r *fakeMovementRepo) Append(ctx context.Context, e *inventory.MovementEntry) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeMovementRepo) FindByProduct(ctx context.Context, id uuid.UUID, f shared.Filter) ([]inventory.MovementEntry, error) {
	return nil, nil
}

func (r *fakeMovementRepo) FindByBatch(ctx context.Context, id uuid.UUID, f shared.Filter) ([]inventory.MovementEntry, error) {
	return nil, nil
}

func (r *fakeMovementRepo) FindByReference(ctx context.Context, t inventory.ReferenceType, id uuid.UUID) ([]inventory.MovementEntry, error) {
	return nil, nil
}

func (r *fakeMovementRepo) CountByProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	return int64(len(r.entries)), nil
}

func (r *fakeMovementRepo) SumByBatch(ctx context.Context, batchID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.BatchID == batchID {
			sum = sum.Add(e.SignedQuantity())
		}
	}
	return sum, nil
}

func (r *fakeMovementRepo) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.entries {
		if e.ProductID == productID {
			sum = sum.Add(e.SignedQuantity())
		}
	}
	return sum, nil
}

type stubCatalog struct {
	prices map[uuid.UUID]decimal.Decimal
	err    error
}

func (c *stubCatalog) Lookup(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &ProductInfo{ProductID: productID, SellingPrice: c.prices[productID]}, nil
}

type coordinatorFixture struct {
	coordinator *Coordinator
	orders      *fakeOrderRepo
	batches     *fakeBatchRepo
	records     *fakeRecordRepo
	movements   *fakeMovementRepo
}

func newCoordinatorFixture() *coordinatorFixture {
	orders := newFakeOrderRepo()
	batches := &fakeBatchRepo{}
	records := newFakeRecordRepo()
	movements := &fakeMovementRepo{}
	scope := &NoOpTransactionScope{Repos: &StaticRepositories{
		PurchaseOrderRepo:   orders,
		BatchRepo:           batches,
		InventoryRecordRepo: records,
		MovementRepo:        movements,
	}}
	return &coordinatorFixture{
		coordinator: NewCoordinator(scope, inventory.NewBatchFactory(), zap.NewNop()),
		orders:      orders,
		batches:     batches,
		records:     records,
		movements:   movements,
	}
}

func (f *coordinatorFixture) seedApprovedOrder(t *testing.T, lineCount int) *purchasing.PurchaseOrder {
	t.Helper()
	order, err := purchasing.NewPurchaseOrder("PO-2026-00001", uuid.New(), "Acme Wholesale")
	require.NoError(t, err)
	for i := 0; i < lineCount; i++ {
		_, err := order.AddLine(uuid.New(), fmt.Sprintf("Widget %d", i+1), fmt.Sprintf("SKU-%03d", i+1),
			decimal.NewFromInt(10), decimal.NewFromFloat(2.50))
		require.NoError(t, err)
	}
	require.NoError(t, order.Approve(uuid.New()))
	order.ClearDomainEvents()
	require.NoError(t, f.orders.Save(context.Background(), order))
	return order
}

func TestCoordinator_ReceiveLine_CompletesSingleLineOrder(t *testing.T) {
	f := newCoordinatorFixture()
	order := f.seedApprovedOrder(t, 1)
	line := order.Lines[0]

	result, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   line.ID,
		Quantity: decimal.NewFromInt(10),
		Location: "A-02-17",
	})
	require.NoError(t, err)

	assert.True(t, result.OrderCompleted)
	assert.Equal(t, purchasing.PurchaseOrderStatusReceived, result.Order.Status)
	require.NotNil(t, result.Order.FindLine(line.ID).BatchID)
	assert.NotEmpty(t, result.Batch.BatchNumber)

	record, err := f.records.FindByBatch(context.Background(), result.Batch.ID)
	require.NoError(t, err)
	assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "A-02-17", record.Location)

	require.Len(t, f.movements.entries, 1)
	entry := f.movements.entries[0]
	assert.Equal(t, inventory.MovementTypeIn, entry.Type)
	assert.True(t, entry.BalanceBefore.IsZero())
	assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, inventory.ReferenceTypePurchaseOrder, entry.ReferenceType)
	require.NotNil(t, entry.ReferenceID)
	assert.Equal(t, order.ID, *entry.ReferenceID)
	assert.Equal(t, "Purchase Order Receipt", entry.Reason)
	assert.Equal(t, result.Batch.ID, entry.BatchID)

	sum, err := f.movements.SumByBatch(context.Background(), result.Batch.ID)
	require.NoError(t, err)
	assert.True(t, record.TotalQuantity().Equal(sum))
}

func TestCoordinator_ReceiveLine_RecordPerBatch(t *testing.T) {
	f := newCoordinatorFixture()
	productID := uuid.New()

	order, err := purchasing.NewPurchaseOrder("PO-2026-00002", uuid.New(), "Acme Wholesale")
	require.NoError(t, err)
	_, err = order.AddLine(productID, "Widget", "SKU-001", decimal.NewFromInt(10), decimal.NewFromFloat(2.50))
	require.NoError(t, err)
	_, err = order.AddLine(productID, "Widget", "SKU-001", decimal.NewFromInt(4), decimal.NewFromFloat(2.50))
	require.NoError(t, err)
	require.NoError(t, order.Approve(uuid.New()))
	order.ClearDomainEvents()
	require.NoError(t, f.orders.Save(context.Background(), order))

	first, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[0].ID,
		Quantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	second, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[1].ID,
		Quantity: decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	// Two deliveries of the same product keep separate batch records.
	assert.NotEqual(t, first.Batch.ID, second.Batch.ID)
	records, err := f.records.FindByProduct(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		sum, err := f.movements.SumByBatch(context.Background(), record.BatchID)
		require.NoError(t, err)
		assert.True(t, record.TotalQuantity().Equal(sum))
	}
}

func TestCoordinator_ReceiveLine_SellingPriceFromCatalog(t *testing.T) {
	t.Run("uses the standing selling price", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		line := order.Lines[0]
		f.coordinator.SetProductCatalog(&stubCatalog{prices: map[uuid.UUID]decimal.Decimal{
			line.ProductID: decimal.NewFromFloat(4.99),
		}})

		result, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   line.ID,
			Quantity: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.True(t, result.Batch.SellingPrice.Equal(decimal.NewFromFloat(4.99)))
	})

	t.Run("falls back to unit cost without a standing price", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)

		result, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.True(t, result.Batch.SellingPrice.Equal(decimal.NewFromFloat(2.50)))
	})

	t.Run("catalog failure does not block the receipt", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		f.coordinator.SetProductCatalog(&stubCatalog{err: errors.New("catalog down")})

		result, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(10),
		})
		require.NoError(t, err)
		assert.True(t, result.Batch.SellingPrice.Equal(decimal.NewFromFloat(2.50)))
	})
}

func TestCoordinator_ReceiveLine_PartialOrderStaysApproved(t *testing.T) {
	f := newCoordinatorFixture()
	order := f.seedApprovedOrder(t, 2)

	result, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[0].ID,
		Quantity: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.False(t, result.OrderCompleted)
	assert.Equal(t, purchasing.PurchaseOrderStatusApproved, result.Order.Status)
	assert.True(t, result.Order.FindLine(order.Lines[0].ID).IsReceived())
	assert.False(t, result.Order.FindLine(order.Lines[1].ID).IsReceived())
}

func TestCoordinator_ReceiveLine_SecondReceiveFails(t *testing.T) {
	f := newCoordinatorFixture()
	order := f.seedApprovedOrder(t, 2)
	input := ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[0].ID,
		Quantity: decimal.NewFromInt(10),
	}

	_, err := f.coordinator.ReceiveLine(context.Background(), input)
	require.NoError(t, err)

	_, err = f.coordinator.ReceiveLine(context.Background(), input)
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeAlreadyReceived))

	// Nothing extra booked for the losing attempt
	assert.Len(t, f.batches.batches, 1)
	assert.Len(t, f.movements.entries, 1)
}

func TestCoordinator_ReceiveLine_VersionConflictMapsToAlreadyReceived(t *testing.T) {
	f := newCoordinatorFixture()
	order := f.seedApprovedOrder(t, 1)
	f.orders.saveLockErr = shared.NewConcurrentModificationError("purchase order")

	_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[0].ID,
		Quantity: decimal.NewFromInt(10),
	})
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeAlreadyReceived))
}

func TestCoordinator_ReceiveLine_Validation(t *testing.T) {
	t.Run("quantity above ordered", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   order.Lines[0].ID,
			Quantity: decimal.NewFromInt(11),
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidReceivedQuantity))
	})

	t.Run("zero quantity", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   order.Lines[0].ID,
			Quantity: decimal.Zero,
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidReceivedQuantity))
	})

	t.Run("expiry before received date", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		expiry := time.Now().AddDate(0, 0, -1)
		_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:    order.ID,
			LineID:     order.Lines[0].ID,
			Quantity:   decimal.NewFromInt(10),
			ExpiryDate: &expiry,
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidDateRange))
	})

	t.Run("expiry already past for backdated receipt", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		received := time.Now().AddDate(0, -1, 0)
		expiry := time.Now().AddDate(0, 0, -7)
		_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:      order.ID,
			LineID:       order.Lines[0].ID,
			Quantity:     decimal.NewFromInt(10),
			ReceivedDate: received,
			ExpiryDate:   &expiry,
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidDateRange))
		assert.Empty(t, f.batches.batches)
	})

	t.Run("order not approved", func(t *testing.T) {
		f := newCoordinatorFixture()
		order, err := purchasing.NewPurchaseOrder("PO-2026-00009", uuid.New(), "Acme")
		require.NoError(t, err)
		line, err := order.AddLine(uuid.New(), "Widget", "SKU-001", decimal.NewFromInt(5), decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, f.orders.Save(context.Background(), order))

		_, err = f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   line.ID,
			Quantity: decimal.NewFromInt(5),
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidTransition))
	})

	t.Run("unknown line", func(t *testing.T) {
		f := newCoordinatorFixture()
		order := f.seedApprovedOrder(t, 1)
		_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
			OrderID:  order.ID,
			LineID:   uuid.New(),
			Quantity: decimal.NewFromInt(1),
		})
		assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
	})
}

func TestCoordinator_ReceiveLine_InfrastructureFailureWrapped(t *testing.T) {
	f := newCoordinatorFixture()
	order := f.seedApprovedOrder(t, 1)
	cause := errors.New("connection reset")
	f.movements.appendErr = cause

	_, err := f.coordinator.ReceiveLine(context.Background(), ReceiveLineInput{
		OrderID:  order.ID,
		LineID:   order.Lines[0].ID,
		Quantity: decimal.NewFromInt(10),
	})
	require.Error(t, err)
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeReceivingFailed))
	assert.ErrorIs(t, err, cause)
}
