package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/storeops/backoffice/internal/application/receiving"
	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/purchasing"
)

// GormTransactionScope implements receiving.TransactionScope over a GORM
// transaction. Every repository handed to the callback operates on the same
// transaction, so the whole receipt commits or rolls back as one.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos receiving.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Batches() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormTransactionalRepositories) InventoryRecords() inventory.InventoryRecordRepository {
	return NewGormInventoryRecordRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.MovementEntryRepository {
	return NewGormMovementEntryRepository(r.tx)
}

var _ receiving.TransactionScope = (*GormTransactionScope)(nil)
var _ receiving.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
