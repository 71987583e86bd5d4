package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// PurchaseOrderRepository persists purchase order aggregates
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseOrder, error)
	FindByStatus(ctx context.Context, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock persists the aggregate only if the stored version matches
	// the version the aggregate was loaded at. A mismatch returns a
	// CONCURRENT_MODIFICATION domain error.
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context, filter shared.Filter) (int64, error)
	CountByStatus(ctx context.Context, status PurchaseOrderStatus) (int64, error)
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)
	// GenerateOrderNumber produces the next sequential PO-YYYY-NNNNN number
	GenerateOrderNumber(ctx context.Context) (string, error)
}
