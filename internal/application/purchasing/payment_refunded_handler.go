package purchasing

import (
	"context"

	"go.uber.org/zap"

	domainpayment "github.com/storeops/backoffice/internal/domain/payment"
	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// PaymentRefundedHandler reacts to refunds against purchase orders. A refund
// reopens the outstanding balance, which buyers track on the order itself, so
// the handler surfaces it in the purchasing log stream.
type PaymentRefundedHandler struct {
	orders purchasing.PurchaseOrderRepository
	logger *zap.Logger
}

// NewPaymentRefundedHandler creates a PaymentRefundedHandler
func NewPaymentRefundedHandler(orders purchasing.PurchaseOrderRepository, logger *zap.Logger) *PaymentRefundedHandler {
	return &PaymentRefundedHandler{orders: orders, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *PaymentRefundedHandler) EventTypes() []string {
	return []string{domainpayment.EventTypePaymentRefunded}
}

// Handle implements shared.EventHandler
func (h *PaymentRefundedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	refunded, ok := event.(*domainpayment.PaymentRefundedEvent)
	if !ok {
		return nil
	}
	if refunded.Document.Type != domainpayment.DocumentTypePurchaseOrder {
		return nil
	}

	order, err := h.orders.FindByID(ctx, refunded.Document.ID)
	if err != nil {
		return err
	}

	h.logger.Warn("payment refunded against purchase order",
		zap.String("order_number", order.OrderNumber),
		zap.String("payment_number", refunded.PaymentNumber),
		zap.String("amount", refunded.Amount.String()),
		zap.String("reason", refunded.Reason))
	return nil
}

var _ shared.EventHandler = (*PaymentRefundedHandler)(nil)
