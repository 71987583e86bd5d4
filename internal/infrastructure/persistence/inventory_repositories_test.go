package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// newSQLiteDB opens an in-memory database for integration-style repository
// tests that need real SQL execution rather than statement expectations.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&inventory.Batch{},
		&inventory.InventoryRecord{},
		&inventory.MovementEntry{},
	))
	return db
}

func newTestBatch(t *testing.T, batchNumber string, quantity int64) *inventory.Batch {
	t.Helper()
	factory := inventory.NewBatchFactory()
	batch, err := factory.CreateBatch(inventory.BatchInput{
		ProductID:    uuid.New(),
		BatchNumber:  batchNumber,
		Quantity:     decimal.NewFromInt(quantity),
		UnitCost:     decimal.NewFromFloat(3.50),
		ReceivedDate: time.Now(),
	})
	require.NoError(t, err)
	return batch
}

// newStockedRecord creates a batch record carrying the given warehouse stock
func newStockedRecord(t *testing.T, quantity int64) *inventory.InventoryRecord {
	t.Helper()
	record, err := inventory.NewInventoryRecord(uuid.New(), uuid.New(), "")
	require.NoError(t, err)
	if quantity > 0 {
		require.NoError(t, record.Increase(decimal.NewFromInt(quantity)))
	}
	record.ClearDomainEvents()
	return record
}

func TestGormBatchRepository_SaveAndFind(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormBatchRepository(db)
	ctx := context.Background()

	batch := newTestBatch(t, "BATCH-20260829-0001", 12)
	require.NoError(t, repo.Save(ctx, batch))

	found, err := repo.FindByBatchNumber(ctx, "BATCH-20260829-0001")
	require.NoError(t, err)
	assert.Equal(t, batch.ID, found.ID)
	assert.True(t, found.Quantity.Equal(decimal.NewFromInt(12)))
	assert.Equal(t, inventory.BatchStatusActive, found.Status)

	_, err = repo.FindByBatchNumber(ctx, "BATCH-20260829-9999")
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
}

func TestGormBatchRepository_GenerateBatchNumber(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormBatchRepository(db)
	ctx := context.Background()
	prefix := fmt.Sprintf("BATCH-%s-", time.Now().Format("20060102"))

	number, err := repo.GenerateBatchNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefix+"0001", number)

	batch := newTestBatch(t, number, 5)
	require.NoError(t, repo.Save(ctx, batch))

	next, err := repo.GenerateBatchNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, prefix+"0002", next)
}

func TestGormInventoryRecordRepository_FindByBatchAndProduct(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormInventoryRecordRepository(db)
	ctx := context.Background()
	productID := uuid.New()

	first, err := inventory.NewInventoryRecord(uuid.New(), productID, "A-01")
	require.NoError(t, err)
	second, err := inventory.NewInventoryRecord(uuid.New(), productID, "A-02")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))
	require.NoError(t, repo.Save(ctx, second))

	found, err := repo.FindByBatch(ctx, first.BatchID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
	assert.Equal(t, "A-01", found.Location)

	records, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = repo.FindByBatch(ctx, uuid.New())
	assert.True(t, shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound))
}

func TestGormMovementEntryRepository_AppendAndSum(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormMovementEntryRepository(db)
	ctx := context.Background()
	record := newStockedRecord(t, 0)

	in, err := inventory.NewMovementEntry(record, inventory.MovementTypeIn, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, in))
	require.NoError(t, record.Increase(decimal.NewFromInt(10)))

	out, err := inventory.NewMovementEntry(record, inventory.MovementTypeOut, decimal.NewFromInt(3))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, out))

	sum, err := repo.SumByBatch(ctx, record.BatchID)
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(7)), "signed sum should be 10 - 3, got %s", sum)

	productSum, err := repo.SumByProduct(ctx, record.ProductID)
	require.NoError(t, err)
	assert.True(t, productSum.Equal(decimal.NewFromInt(7)))

	count, err := repo.CountByProduct(ctx, record.ProductID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// Entries for another batch stay out of the sum.
	other, err := repo.SumByBatch(ctx, uuid.New())
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestGormMovementEntryRepository_FindByReference(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormMovementEntryRepository(db)
	ctx := context.Background()
	record := newStockedRecord(t, 0)
	orderID := uuid.New()

	entry, err := inventory.NewMovementEntry(record, inventory.MovementTypeIn, decimal.NewFromInt(4))
	require.NoError(t, err)
	entry.WithReference(inventory.ReferenceTypePurchaseOrder, orderID).
		WithReason("Purchase Order Receipt")
	require.NoError(t, repo.Append(ctx, entry))

	entries, err := repo.FindByReference(ctx, inventory.ReferenceTypePurchaseOrder, orderID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, "Purchase Order Receipt", entries[0].Reason)
}
