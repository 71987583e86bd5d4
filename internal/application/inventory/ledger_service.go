package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// LedgerService exposes read access to the inventory ledger and the per-batch
// stock records, plus the consistency check between the two.
type LedgerService struct {
	records   inventory.InventoryRecordRepository
	movements inventory.MovementEntryRepository
	batches   inventory.BatchRepository
	logger    *zap.Logger
}

// NewLedgerService creates a LedgerService
func NewLedgerService(records inventory.InventoryRecordRepository, movements inventory.MovementEntryRepository, batches inventory.BatchRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		records:   records,
		movements: movements,
		batches:   batches,
		logger:    logger,
	}
}

// ProductStock aggregates a product's batch records into one position
type ProductStock struct {
	ProductID        uuid.UUID                   `json:"product_id"`
	QuantityOnHand   decimal.Decimal             `json:"quantity_on_hand"`
	QuantityOnShelf  decimal.Decimal             `json:"quantity_on_shelf"`
	QuantityReserved decimal.Decimal             `json:"quantity_reserved"`
	Records          []inventory.InventoryRecord `json:"records"`
}

// GetProductStock returns a product's batch records with summed totals
func (s *LedgerService) GetProductStock(ctx context.Context, productID uuid.UUID) (*ProductStock, error) {
	records, err := s.records.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.NewNotFoundError("inventory record")
	}
	stock := &ProductStock{ProductID: productID, Records: records}
	for i := range records {
		stock.QuantityOnHand = stock.QuantityOnHand.Add(records[i].QuantityOnHand)
		stock.QuantityOnShelf = stock.QuantityOnShelf.Add(records[i].QuantityOnShelf)
		stock.QuantityReserved = stock.QuantityReserved.Add(records[i].QuantityReserved)
	}
	return stock, nil
}

// GetBatchRecord returns the stock record of one batch
func (s *LedgerService) GetBatchRecord(ctx context.Context, batchID uuid.UUID) (*inventory.InventoryRecord, error) {
	return s.records.FindByBatch(ctx, batchID)
}

// ListRecords returns a page of batch stock records
func (s *LedgerService) ListRecords(ctx context.Context, filter shared.Filter) (*shared.Paginated[inventory.InventoryRecord], error) {
	records, err := s.records.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.records.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &shared.Paginated[inventory.InventoryRecord]{Items: records, Total: total}, nil
}

// ListMovements returns a page of ledger entries for a product
func (s *LedgerService) ListMovements(ctx context.Context, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[inventory.MovementEntry], error) {
	entries, err := s.movements.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movements.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &shared.Paginated[inventory.MovementEntry]{Items: entries, Total: total}, nil
}

// ListMovementsByReference returns all entries originating from one document,
// oldest first. Used to trace a receipt back through the ledger.
func (s *LedgerService) ListMovementsByReference(ctx context.Context, refType inventory.ReferenceType, refID uuid.UUID) ([]inventory.MovementEntry, error) {
	return s.movements.FindByReference(ctx, refType, refID)
}

// ListBatches returns a page of batches for a product
func (s *LedgerService) ListBatches(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.Batch, error) {
	return s.batches.FindByProduct(ctx, productID, filter)
}

// BatchConsistency compares one batch record against its ledger sum
type BatchConsistency struct {
	BatchID    uuid.UUID       `json:"batch_id"`
	OnHand     decimal.Decimal `json:"on_hand"`
	OnShelf    decimal.Decimal `json:"on_shelf"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Consistent bool            `json:"consistent"`
}

// ConsistencyReport holds the per-batch checks for one product
type ConsistencyReport struct {
	ProductID  uuid.UUID          `json:"product_id"`
	Batches    []BatchConsistency `json:"batches"`
	Consistent bool               `json:"consistent"`
}

// CheckConsistency verifies, batch by batch, that on-hand plus on-shelf
// equals the signed ledger sum. A mismatch is logged at error level; callers
// decide how to repair.
func (s *LedgerService) CheckConsistency(ctx context.Context, productID uuid.UUID) (*ConsistencyReport, error) {
	records, err := s.records.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.NewNotFoundError("inventory record")
	}

	report := &ConsistencyReport{ProductID: productID, Consistent: true}
	for i := range records {
		record := &records[i]
		sum, err := s.movements.SumByBatch(ctx, record.BatchID)
		if err != nil {
			return nil, err
		}
		check := BatchConsistency{
			BatchID:    record.BatchID,
			OnHand:     record.QuantityOnHand,
			OnShelf:    record.QuantityOnShelf,
			LedgerSum:  sum,
			Consistent: record.TotalQuantity().Equal(sum),
		}
		if !check.Consistent {
			report.Consistent = false
			s.logger.Error("batch record out of sync with ledger",
				zap.String("product_id", productID.String()),
				zap.String("batch_id", record.BatchID.String()),
				zap.String("on_hand", check.OnHand.String()),
				zap.String("on_shelf", check.OnShelf.String()),
				zap.String("ledger_sum", check.LedgerSum.String()))
		}
		report.Batches = append(report.Batches, check)
	}
	return report, nil
}
