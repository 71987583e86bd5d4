package payment

import (
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// Event type names for the payment aggregate
const (
	EventTypePaymentCreated       = "payment.created"
	EventTypePaymentStatusChanged = "payment.status_changed"
	EventTypePaymentRefunded      = "payment.refunded"

	aggregateTypePayment = "Payment"
)

// PaymentCreatedEvent is raised when a payment is recorded
type PaymentCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	Document      DocumentRef     `json:"document"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewPaymentCreatedEvent creates a PaymentCreatedEvent
func NewPaymentCreatedEvent(p *Payment) *PaymentCreatedEvent {
	return &PaymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCreated, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		Document:        p.Document,
		Amount:          p.Amount,
	}
}

// PaymentStatusChangedEvent is raised on every lifecycle transition
type PaymentStatusChangedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	Document      DocumentRef     `json:"document"`
	Amount        decimal.Decimal `json:"amount"`
	FromStatus    PaymentStatus   `json:"from_status"`
	ToStatus      PaymentStatus   `json:"to_status"`
}

// NewPaymentStatusChangedEvent creates a PaymentStatusChangedEvent
func NewPaymentStatusChangedEvent(p *Payment, from PaymentStatus) *PaymentStatusChangedEvent {
	return &PaymentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentStatusChanged, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		Document:        p.Document,
		Amount:          p.Amount,
		FromStatus:      from,
		ToStatus:        p.Status,
	}
}

// PaymentRefundedEvent is raised when a completed payment is refunded
type PaymentRefundedEvent struct {
	shared.BaseDomainEvent
	PaymentNumber string          `json:"payment_number"`
	Document      DocumentRef     `json:"document"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}

// NewPaymentRefundedEvent creates a PaymentRefundedEvent
func NewPaymentRefundedEvent(p *Payment, reason string) *PaymentRefundedEvent {
	return &PaymentRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentRefunded, aggregateTypePayment, p.ID),
		PaymentNumber:   p.PaymentNumber,
		Document:        p.Document,
		Amount:          p.Amount,
		Reason:          reason,
	}
}
