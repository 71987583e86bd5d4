package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// BatchRepository persists stock batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByBatchNumber(ctx context.Context, batchNumber string) (*Batch, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Batch, error)
	Save(ctx context.Context, batch *Batch) error
	// GenerateBatchNumber produces the next BATCH-YYYYMMDD-NNNN number
	GenerateBatchNumber(ctx context.Context) (string, error)
}

// InventoryRecordRepository persists per-batch inventory records
type InventoryRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID) (*InventoryRecord, error)
	// FindByProduct returns the batch records of one product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryRecord, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryRecord, error)
	Save(ctx context.Context, record *InventoryRecord) error
	// SaveWithLock persists only when the stored version matches; a mismatch
	// returns a CONCURRENT_MODIFICATION domain error.
	SaveWithLock(ctx context.Context, record *InventoryRecord) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// MovementEntryRepository appends and queries the inventory ledger
type MovementEntryRepository interface {
	Append(ctx context.Context, entry *MovementEntry) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]MovementEntry, error)
	FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]MovementEntry, error)
	FindByReference(ctx context.Context, refType ReferenceType, refID uuid.UUID) ([]MovementEntry, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// SumByBatch returns the signed ledger total for one batch
	SumByBatch(ctx context.Context, batchID uuid.UUID) (decimal.Decimal, error)
	// SumByProduct returns the signed ledger total across a product's batches
	SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error)
}
