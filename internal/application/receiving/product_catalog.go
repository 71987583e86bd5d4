package receiving

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInfo is the slice of the product master the receiving flow needs
type ProductInfo struct {
	ProductID    uuid.UUID
	Name         string
	CostPrice    decimal.Decimal
	SellingPrice decimal.Decimal
}

// ProductCatalog looks up standing product prices. The product master lives
// outside this service; implementations typically call it over HTTP.
type ProductCatalog interface {
	Lookup(ctx context.Context, productID uuid.UUID) (*ProductInfo, error)
}

// NoOpProductCatalog reports no standing prices, so received batches fall
// back to the purchase order line's unit cost.
type NoOpProductCatalog struct{}

// Lookup returns an empty ProductInfo for any product
func (NoOpProductCatalog) Lookup(_ context.Context, productID uuid.UUID) (*ProductInfo, error) {
	return &ProductInfo{ProductID: productID}, nil
}
