package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/purchasing"
)

// CreatePurchaseOrderInput carries the data for a new order
type CreatePurchaseOrderInput struct {
	SupplierID           uuid.UUID
	SupplierName         string
	ExpectedDeliveryDate *time.Time
	Notes                string
	ShippingFee          decimal.Decimal
	DiscountPercent      decimal.Decimal
	Lines                []CreateLineInput
}

// CreateLineInput carries the data for one line on a new order
type CreateLineInput struct {
	ProductID       uuid.UUID
	ProductName     string
	SKU             string
	OrderedQuantity decimal.Decimal
	UnitCost        decimal.Decimal
}

// UpdatePurchaseOrderInput carries editable header fields
type UpdatePurchaseOrderInput struct {
	ExpectedDeliveryDate *time.Time
	Notes                *string
	ShippingFee          *decimal.Decimal
	DiscountPercent      *decimal.Decimal
}

// PurchaseOrderLineResponse is the outward representation of a line
type PurchaseOrderLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	SKU              string          `json:"sku"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	BatchID          *uuid.UUID      `json:"batch_id,omitempty"`
	Received         bool            `json:"received"`
}

// PurchaseOrderResponse is the outward representation of an order
type PurchaseOrderResponse struct {
	ID                   uuid.UUID                   `json:"id"`
	OrderNumber          string                      `json:"order_number"`
	SupplierID           uuid.UUID                   `json:"supplier_id"`
	SupplierName         string                      `json:"supplier_name"`
	Status               string                      `json:"status"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	ApprovedAt           *time.Time                  `json:"approved_at,omitempty"`
	ReceivedAt           *time.Time                  `json:"received_at,omitempty"`
	CancelledAt          *time.Time                  `json:"cancelled_at,omitempty"`
	CancelReason         string                      `json:"cancel_reason,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	SubtotalAmount       decimal.Decimal             `json:"subtotal_amount"`
	ShippingFee          decimal.Decimal             `json:"shipping_fee"`
	DiscountPercent      decimal.Decimal             `json:"discount_percent"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Version              int                         `json:"version"`
	Lines                []PurchaseOrderLineResponse `json:"lines"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// ToPurchaseOrderResponse converts a domain order to its response form
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(order.Lines))
	for i := range order.Lines {
		l := &order.Lines[i]
		lines = append(lines, PurchaseOrderLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			ProductName:      l.ProductName,
			SKU:              l.SKU,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			UnitCost:         l.UnitCost,
			Subtotal:         l.Subtotal(),
			BatchID:          l.BatchID,
			Received:         l.IsReceived(),
		})
	}
	return &PurchaseOrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		SupplierName:         order.SupplierName,
		Status:               order.Status.String(),
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		ApprovedAt:           order.ApprovedAt,
		ReceivedAt:           order.ReceivedAt,
		CancelledAt:          order.CancelledAt,
		CancelReason:         order.CancelReason,
		Notes:                order.Notes,
		SubtotalAmount:       order.SubtotalAmount(),
		ShippingFee:          order.ShippingFee,
		DiscountPercent:      order.DiscountPercent,
		TotalAmount:          order.TotalAmount,
		Version:              order.Version,
		Lines:                lines,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}
