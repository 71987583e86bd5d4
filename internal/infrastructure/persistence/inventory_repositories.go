package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// GormBatchRepository is the GORM implementation of inventory.BatchRepository
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID loads a batch
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "batch")
	}
	return &batch, nil
}

// FindByBatchNumber loads a batch by its business key
func (r *GormBatchRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*inventory.Batch, error) {
	var batch inventory.Batch
	err := r.db.WithContext(ctx).First(&batch, "batch_number = ?", batchNumber).Error
	if err != nil {
		return nil, translateError(err, "batch")
	}
	return &batch, nil
}

// FindByProduct returns a page of batches for one product
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.Batch, error) {
	var batches []inventory.Batch
	query := r.db.WithContext(ctx).Model(&inventory.Batch{}).Where("product_id = ?", productID)
	if err := applyFilter(query, filter).Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save persists a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	return translateError(r.db.WithContext(ctx).Save(batch).Error, "batch")
}

// GenerateBatchNumber produces the next BATCH-YYYYMMDD-NNNN number for today
func (r *GormBatchRepository) GenerateBatchNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("BATCH-%s-", time.Now().Format("20060102"))

	var last string
	err := r.db.WithContext(ctx).Model(&inventory.Batch{}).
		Select("batch_number").
		Where("batch_number LIKE ?", prefix+"%").
		Order("batch_number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

var _ inventory.BatchRepository = (*GormBatchRepository)(nil)

// GormInventoryRecordRepository is the GORM implementation of
// inventory.InventoryRecordRepository.
type GormInventoryRecordRepository struct {
	db *gorm.DB
}

// NewGormInventoryRecordRepository creates a GormInventoryRecordRepository
func NewGormInventoryRecordRepository(db *gorm.DB) *GormInventoryRecordRepository {
	return &GormInventoryRecordRepository{db: db}
}

// FindByID loads a record
func (r *GormInventoryRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "inventory record")
	}
	return &record, nil
}

// FindByBatch loads the record owned by one batch
func (r *GormInventoryRecordRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) (*inventory.InventoryRecord, error) {
	var record inventory.InventoryRecord
	err := r.db.WithContext(ctx).First(&record, "batch_id = ?", batchID).Error
	if err != nil {
		return nil, translateError(err, "inventory record")
	}
	return &record, nil
}

// FindByProduct returns the batch records of one product, newest first
func (r *GormInventoryRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// FindAll returns a page of records
func (r *GormInventoryRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryRecord, error) {
	var records []inventory.InventoryRecord
	query := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{})
	if err := applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save persists a record without a version check
func (r *GormInventoryRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	return translateError(r.db.WithContext(ctx).Save(record).Error, "inventory record")
}

// SaveWithLock persists the record only if the stored version is older than
// the in-memory one. New records are created directly.
func (r *GormInventoryRecordRepository) SaveWithLock(ctx context.Context, record *inventory.InventoryRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current struct{ Version int }
		err := tx.Model(&inventory.InventoryRecord{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("version").
			Where("id = ?", record.ID).
			Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return translateError(tx.Create(record).Error, "inventory record")
		}
		if err != nil {
			return err
		}
		if current.Version >= record.Version {
			return shared.NewConcurrentModificationError("inventory record")
		}
		return translateError(tx.Save(record).Error, "inventory record")
	})
}

// Count returns the number of records
func (r *GormInventoryRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.InventoryRecord{}).Count(&count).Error
	return count, err
}

var _ inventory.InventoryRecordRepository = (*GormInventoryRecordRepository)(nil)

// GormMovementEntryRepository is the GORM implementation of
// inventory.MovementEntryRepository. The ledger is append-only: there are no
// update or delete operations.
type GormMovementEntryRepository struct {
	db *gorm.DB
}

// NewGormMovementEntryRepository creates a GormMovementEntryRepository
func NewGormMovementEntryRepository(db *gorm.DB) *GormMovementEntryRepository {
	return &GormMovementEntryRepository{db: db}
}

// Append inserts a new ledger entry
func (r *GormMovementEntryRepository) Append(ctx context.Context, entry *inventory.MovementEntry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error, "movement entry")
}

// FindByProduct returns a page of entries for one product
func (r *GormMovementEntryRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.MovementEntry, error) {
	var entries []inventory.MovementEntry
	query := r.db.WithContext(ctx).Model(&inventory.MovementEntry{}).Where("product_id = ?", productID)
	if err := applyFilter(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByBatch returns a page of entries for one batch
func (r *GormMovementEntryRepository) FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]inventory.MovementEntry, error) {
	var entries []inventory.MovementEntry
	query := r.db.WithContext(ctx).Model(&inventory.MovementEntry{}).Where("batch_id = ?", batchID)
	if err := applyFilter(query, filter).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByReference returns all entries originating from one document
func (r *GormMovementEntryRepository) FindByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.MovementEntry, error) {
	var entries []inventory.MovementEntry
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByProduct returns the number of entries for one product
func (r *GormMovementEntryRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&inventory.MovementEntry{}).
		Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// SumByBatch returns the signed ledger total for one batch
func (r *GormMovementEntryRepository) SumByBatch(ctx context.Context, batchID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&inventory.MovementEntry{}).
		Select("COALESCE(SUM(CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)").
		Where("batch_id = ?", batchID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// SumByProduct returns the signed ledger total for one product
func (r *GormMovementEntryRepository) SumByProduct(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&inventory.MovementEntry{}).
		Select("COALESCE(SUM(CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)").
		Where("product_id = ?", productID).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

var _ inventory.MovementEntryRepository = (*GormMovementEntryRepository)(nil)
