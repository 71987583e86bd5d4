package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// SalesOrderSummary is the slice of a sales order that reconciliation needs
type SalesOrderSummary struct {
	ID          uuid.UUID
	OrderNumber string
	TotalAmount decimal.Decimal
}

// SalesOrderDirectory resolves sales orders referenced by payments. Sales
// order management lives outside this service; implementations typically call
// it over HTTP.
type SalesOrderDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrderSummary, error)
}

// NoOpSalesOrderDirectory knows no sales orders. Deployments without a sales
// module keep it; payments against ORDER documents are then rejected on
// recording.
type NoOpSalesOrderDirectory struct{}

// FindByID reports every sales order as unknown
func (NoOpSalesOrderDirectory) FindByID(_ context.Context, _ uuid.UUID) (*SalesOrderSummary, error) {
	return nil, shared.NewNotFoundError("sales order")
}
