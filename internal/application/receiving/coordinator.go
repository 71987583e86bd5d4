package receiving

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// receiptReason labels every ledger entry written by the receiving flow
const receiptReason = "Purchase Order Receipt"

// ReceiveLineInput carries everything needed to receive one purchase order line
type ReceiveLineInput struct {
	OrderID           uuid.UUID
	LineID            uuid.UUID
	Quantity          decimal.Decimal
	BatchNumber       string
	ReceivedDate      time.Time
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	Location          string
	Notes             string
	OperatorID        uuid.UUID
}

// ReceiveLineResult reports the outcome of a line receipt
type ReceiveLineResult struct {
	Order          *purchasing.PurchaseOrder
	Batch          *inventory.Batch
	Record         *inventory.InventoryRecord
	OrderCompleted bool
}

// Coordinator receives purchase order lines. Each receipt runs as one
// transaction: batch creation, inventory record creation, ledger append, line
// update and order status recompute either all commit or all roll back.
type Coordinator struct {
	scope        TransactionScope
	batchFactory *inventory.BatchFactory
	catalog      ProductCatalog
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewCoordinator creates a receiving Coordinator
func NewCoordinator(scope TransactionScope, batchFactory *inventory.BatchFactory, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		scope:        scope,
		batchFactory: batchFactory,
		catalog:      NoOpProductCatalog{},
		publisher:    shared.NoOpEventPublisher{},
		logger:       logger,
	}
}

// SetEventPublisher wires the event publisher used after commit
func (c *Coordinator) SetEventPublisher(publisher shared.EventPublisher) {
	if publisher != nil {
		c.publisher = publisher
	}
}

// SetProductCatalog wires the product master lookup used for selling prices
func (c *Coordinator) SetProductCatalog(catalog ProductCatalog) {
	if catalog != nil {
		c.catalog = catalog
	}
}

// ReceiveLine receives goods against a single purchase order line
func (c *Coordinator) ReceiveLine(ctx context.Context, input ReceiveLineInput) (*ReceiveLineResult, error) {
	var (
		result ReceiveLineResult
		events []shared.DomainEvent
	)

	err := c.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, input.OrderID)
		if err != nil {
			return err
		}

		line := order.FindLine(input.LineID)
		if line == nil {
			return shared.NewNotFoundError("purchase order line")
		}
		if !order.Status.CanReceive() {
			return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
				"cannot receive against purchase order in status %s", order.Status)
		}
		if line.IsReceived() {
			return shared.NewDomainErrorf(shared.ErrCodeAlreadyReceived,
				"line %s has already been received", line.ID)
		}

		batch, err := c.batchFactory.CreateBatch(inventory.BatchInput{
			ProductID:           line.ProductID,
			PurchaseOrderLineID: &line.ID,
			BatchNumber:         input.BatchNumber,
			Quantity:            input.Quantity,
			UnitCost:            line.UnitCost,
			SellingPrice:        c.lookupSellingPrice(ctx, line.ProductID),
			ReceivedDate:        input.ReceivedDate,
			ManufacturingDate:   input.ManufacturingDate,
			ExpiryDate:          input.ExpiryDate,
			Notes:               input.Notes,
		})
		if err != nil {
			return err
		}
		if batch.BatchNumber == "" {
			number, err := repos.Batches().GenerateBatchNumber(ctx)
			if err != nil {
				return err
			}
			batch.BatchNumber = number
		}
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}

		// Each batch gets its own record, starting from zero. The receipt
		// itself flows through the ledger entry and Increase below.
		record, err := inventory.NewInventoryRecord(batch.ID, line.ProductID, input.Location)
		if err != nil {
			return err
		}

		entry, err := inventory.NewMovementEntry(record, inventory.MovementTypeIn, input.Quantity)
		if err != nil {
			return err
		}
		entry.WithReference(inventory.ReferenceTypePurchaseOrder, order.ID).
			WithReason(receiptReason)
		if input.OperatorID != uuid.Nil {
			entry.WithOperator(input.OperatorID)
		}

		if err := record.Increase(input.Quantity); err != nil {
			return err
		}
		if err := repos.InventoryRecords().Save(ctx, record); err != nil {
			return err
		}
		if err := repos.Movements().Append(ctx, entry); err != nil {
			return err
		}

		if err := order.ReceiveLine(line.ID, input.Quantity, batch.ID); err != nil {
			return err
		}
		if err := repos.PurchaseOrders().SaveWithLock(ctx, order); err != nil {
			// Two clerks racing on the same line: the version check lets
			// exactly one through, the loser sees the line as taken.
			if shared.IsDomainErrorWithCode(err, shared.ErrCodeConcurrentModification) {
				return shared.NewDomainErrorf(shared.ErrCodeAlreadyReceived,
					"line %s was received by a concurrent operation", line.ID)
			}
			return err
		}
		events = append(events, order.DomainEvents()...)
		order.ClearDomainEvents()

		// The completion check runs against re-read post-write state, not the
		// in-memory snapshot, so receipts of the final lines racing each other
		// still produce exactly one RECEIVED transition.
		fresh, err := repos.PurchaseOrders().FindByID(ctx, order.ID)
		if err != nil {
			return err
		}
		if fresh.IsFullyReceived() && fresh.Status.CanReceive() {
			if err := fresh.MarkReceived(); err != nil {
				return err
			}
			if err := repos.PurchaseOrders().SaveWithLock(ctx, fresh); err != nil {
				return err
			}
			events = append(events, fresh.DomainEvents()...)
			fresh.ClearDomainEvents()
			result.OrderCompleted = true
		}

		events = append(events, record.DomainEvents()...)
		record.ClearDomainEvents()
		result.Order = fresh
		result.Batch = batch
		result.Record = record
		return nil
	})
	if err != nil {
		return nil, wrapReceivingError(err)
	}

	c.publishEvents(ctx, events)
	c.logger.Info("purchase order line received",
		zap.String("order_number", result.Order.OrderNumber),
		zap.String("line_id", input.LineID.String()),
		zap.String("batch_number", result.Batch.BatchNumber),
		zap.String("quantity", input.Quantity.String()),
		zap.Bool("order_completed", result.OrderCompleted))
	return &result, nil
}

// lookupSellingPrice asks the product master for the standing selling price.
// A missing product or catalog failure is not fatal; the batch falls back to
// the line's unit cost.
func (c *Coordinator) lookupSellingPrice(ctx context.Context, productID uuid.UUID) decimal.Decimal {
	info, err := c.catalog.Lookup(ctx, productID)
	if err != nil {
		if !shared.IsDomainErrorWithCode(err, shared.ErrCodeNotFound) {
			c.logger.Warn("product catalog lookup failed",
				zap.String("product_id", productID.String()), zap.Error(err))
		}
		return decimal.Zero
	}
	return info.SellingPrice
}

// wrapReceivingError passes business rule violations through untouched and
// wraps everything else as a receiving failure.
func wrapReceivingError(err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return shared.WrapDomainError(shared.ErrCodeReceivingFailed, "receiving could not be completed", err)
}

func (c *Coordinator) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, events...); err != nil {
		c.logger.Warn("failed to publish receiving events", zap.Error(err))
	}
}
