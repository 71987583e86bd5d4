package receiving

import (
	"context"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/purchasing"
)

// TransactionalRepositories exposes the repositories participating in one
// receiving transaction. All of them operate on the same underlying unit of
// work, so a failure anywhere rolls back everything.
type TransactionalRepositories interface {
	PurchaseOrders() purchasing.PurchaseOrderRepository
	Batches() inventory.BatchRepository
	InventoryRecords() inventory.InventoryRecordRepository
	Movements() inventory.MovementEntryRepository
}

// TransactionScope executes a function atomically against a set of
// transactional repositories.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs the function against the given repositories
// without any transaction. Intended for tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute implements TransactionScope
func (s *NoOpTransactionScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

// StaticRepositories is a TransactionalRepositories backed by fixed instances.
// Intended for tests alongside NoOpTransactionScope.
type StaticRepositories struct {
	PurchaseOrderRepo   purchasing.PurchaseOrderRepository
	BatchRepo           inventory.BatchRepository
	InventoryRecordRepo inventory.InventoryRecordRepository
	MovementRepo        inventory.MovementEntryRepository
}

// PurchaseOrders implements TransactionalRepositories
func (r *StaticRepositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return r.PurchaseOrderRepo
}

// Batches implements TransactionalRepositories
func (r *StaticRepositories) Batches() inventory.BatchRepository {
	return r.BatchRepo
}

// InventoryRecords implements TransactionalRepositories
func (r *StaticRepositories) InventoryRecords() inventory.InventoryRecordRepository {
	return r.InventoryRecordRepo
}

// Movements implements TransactionalRepositories
func (r *StaticRepositories) Movements() inventory.MovementEntryRepository {
	return r.MovementRepo
}
