package purchasing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// Event type names for the purchasing aggregate
const (
	EventTypePurchaseOrderCreated      = "purchasing.purchase_order.created"
	EventTypePurchaseOrderApproved     = "purchasing.purchase_order.approved"
	EventTypePurchaseOrderCancelled    = "purchasing.purchase_order.cancelled"
	EventTypePurchaseOrderLineReceived = "purchasing.purchase_order.line_received"
	EventTypePurchaseOrderReceived     = "purchasing.purchase_order.received"

	aggregateTypePurchaseOrder = "PurchaseOrder"
)

// PurchaseOrderCreatedEvent is raised when a new order enters the system
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
}

// NewPurchaseOrderCreatedEvent creates a PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
	}
}

// PurchaseOrderApprovedEvent is raised when an order is approved for receiving
type PurchaseOrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderApprovedEvent creates a PurchaseOrderApprovedEvent
func NewPurchaseOrderApprovedEvent(order *PurchaseOrder) *PurchaseOrderApprovedEvent {
	return &PurchaseOrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderApproved, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
}

// PurchaseOrderCancelledEvent is raised when an order is cancelled
type PurchaseOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// NewPurchaseOrderCancelledEvent creates a PurchaseOrderCancelledEvent
func NewPurchaseOrderCancelledEvent(order *PurchaseOrder, reason string) *PurchaseOrderCancelledEvent {
	return &PurchaseOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCancelled, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		Reason:          reason,
	}
}

// PurchaseOrderLineReceivedEvent is raised when a single line is received
type PurchaseOrderLineReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber      string          `json:"order_number"`
	LineID           uuid.UUID       `json:"line_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	BatchID          uuid.UUID       `json:"batch_id"`
}

// NewPurchaseOrderLineReceivedEvent creates a PurchaseOrderLineReceivedEvent
func NewPurchaseOrderLineReceivedEvent(order *PurchaseOrder, line *PurchaseOrderLine) *PurchaseOrderLineReceivedEvent {
	var batchID uuid.UUID
	if line.BatchID != nil {
		batchID = *line.BatchID
	}
	return &PurchaseOrderLineReceivedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePurchaseOrderLineReceived, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:      order.OrderNumber,
		LineID:           line.ID,
		ProductID:        line.ProductID,
		ReceivedQuantity: line.ReceivedQuantity,
		BatchID:          batchID,
	}
}

// PurchaseOrderReceivedEvent is raised when every line carries a batch and the
// order reaches its terminal received state
type PurchaseOrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewPurchaseOrderReceivedEvent creates a PurchaseOrderReceivedEvent
func NewPurchaseOrderReceivedEvent(order *PurchaseOrder) *PurchaseOrderReceivedEvent {
	return &PurchaseOrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderReceived, aggregateTypePurchaseOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
	}
}
