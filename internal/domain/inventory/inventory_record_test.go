package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/backoffice/internal/domain/shared"
)

func newTestRecord(t *testing.T) *InventoryRecord {
	t.Helper()
	record, err := NewInventoryRecord(uuid.New(), uuid.New(), "A-01-03")
	require.NoError(t, err)
	return record
}

func TestNewInventoryRecord(t *testing.T) {
	record := newTestRecord(t)
	assert.True(t, record.QuantityOnHand.IsZero())
	assert.True(t, record.QuantityOnShelf.IsZero())
	assert.True(t, record.QuantityReserved.IsZero())
	assert.Equal(t, "A-01-03", record.Location)

	_, err := NewInventoryRecord(uuid.Nil, uuid.New(), "")
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidInput))
}

func TestInventoryRecord_Increase(t *testing.T) {
	record := newTestRecord(t)

	require.NoError(t, record.Increase(decimal.NewFromInt(10)))
	assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, record.Version)
	assert.Len(t, record.DomainEvents(), 1)

	err := record.Increase(decimal.Zero)
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeInvalidInput))
}

func TestInventoryRecord_Decrease(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.Increase(decimal.NewFromInt(10)))
	require.NoError(t, record.MoveToShelf(decimal.NewFromInt(6)))

	t.Run("takes from shelf first", func(t *testing.T) {
		require.NoError(t, record.Decrease(decimal.NewFromInt(4)))
		assert.True(t, record.QuantityOnShelf.Equal(decimal.NewFromInt(2)))
		assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(4)))
	})

	t.Run("spills into warehouse", func(t *testing.T) {
		require.NoError(t, record.Decrease(decimal.NewFromInt(3)))
		assert.True(t, record.QuantityOnShelf.IsZero())
		assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(3)))
	})

	t.Run("never goes negative", func(t *testing.T) {
		err := record.Decrease(decimal.NewFromInt(7))
		require.Error(t, err)
		assert.True(t, record.TotalQuantity().Equal(decimal.NewFromInt(3)))
	})
}

func TestInventoryRecord_ShelfAndReservations(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.Increase(decimal.NewFromInt(10)))

	require.NoError(t, record.MoveToShelf(decimal.NewFromInt(6)))
	assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(4)))
	assert.True(t, record.QuantityOnShelf.Equal(decimal.NewFromInt(6)))
	assert.True(t, record.TotalQuantity().Equal(decimal.NewFromInt(10)))

	err := record.MoveToShelf(decimal.NewFromInt(5))
	require.Error(t, err)

	require.NoError(t, record.Reserve(decimal.NewFromInt(4)))
	assert.True(t, record.AvailableQuantity().Equal(decimal.NewFromInt(2)))

	err = record.Reserve(decimal.NewFromInt(3))
	require.Error(t, err)

	require.NoError(t, record.ReleaseReservation(decimal.NewFromInt(4)))
	assert.True(t, record.QuantityReserved.IsZero())

	err = record.ReleaseReservation(decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestInventoryRecord_Adjust(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.Increase(decimal.NewFromInt(10)))

	t.Run("applies signed delta", func(t *testing.T) {
		delta, err := record.Adjust(decimal.NewFromInt(-3))
		require.NoError(t, err)
		assert.True(t, delta.Equal(decimal.NewFromInt(-3)))
		assert.True(t, record.QuantityOnHand.Equal(decimal.NewFromInt(7)))
	})

	t.Run("no-op on zero delta", func(t *testing.T) {
		version := record.Version
		delta, err := record.Adjust(decimal.Zero)
		require.NoError(t, err)
		assert.True(t, delta.IsZero())
		assert.Equal(t, version, record.Version)
	})

	t.Run("rejects delta leaving negative stock", func(t *testing.T) {
		_, err := record.Adjust(decimal.NewFromInt(-8))
		require.Error(t, err)
	})
}

func TestMovementEntry_Balances(t *testing.T) {
	record := newTestRecord(t)
	require.NoError(t, record.Increase(decimal.NewFromInt(5)))
	record.ClearDomainEvents()

	t.Run("inbound", func(t *testing.T) {
		entry, err := NewMovementEntry(record, MovementTypeIn, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.True(t, entry.BalanceBefore.Equal(decimal.NewFromInt(5)))
		assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(15)))
		assert.True(t, entry.SignedQuantity().Equal(decimal.NewFromInt(10)))
		assert.Equal(t, record.BatchID, entry.BatchID)
		assert.Equal(t, record.ID, entry.InventoryRecordID)
	})

	t.Run("outbound", func(t *testing.T) {
		entry, err := NewMovementEntry(record, MovementTypeOut, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(2)))
		assert.True(t, entry.SignedQuantity().Equal(decimal.NewFromInt(-3)))
	})

	t.Run("adjustment keeps sign", func(t *testing.T) {
		entry, err := NewMovementEntry(record, MovementTypeAdjust, decimal.NewFromInt(-2))
		require.NoError(t, err)
		assert.True(t, entry.BalanceAfter.Equal(decimal.NewFromInt(3)))
	})

	t.Run("shelf stock counts toward the balance", func(t *testing.T) {
		require.NoError(t, record.MoveToShelf(decimal.NewFromInt(2)))
		entry, err := NewMovementEntry(record, MovementTypeIn, decimal.NewFromInt(1))
		require.NoError(t, err)
		assert.True(t, entry.BalanceBefore.Equal(decimal.NewFromInt(5)))
	})

	t.Run("rejects non-positive quantity for inbound", func(t *testing.T) {
		_, err := NewMovementEntry(record, MovementTypeIn, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("builder setters", func(t *testing.T) {
		refID := uuid.New()
		entry, err := NewMovementEntry(record, MovementTypeIn, decimal.NewFromInt(1))
		require.NoError(t, err)
		entry.WithReference(ReferenceTypePurchaseOrder, refID).WithReason("Purchase Order Receipt")

		require.NotNil(t, entry.ReferenceID)
		assert.Equal(t, refID, *entry.ReferenceID)
		assert.Equal(t, ReferenceTypePurchaseOrder, entry.ReferenceType)
		assert.Equal(t, "Purchase Order Receipt", entry.Reason)
	})
}
