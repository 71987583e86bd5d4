package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// PaymentStatus represents the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// IsValid reports whether the status is a known value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to the target status
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusCompleted || target == PaymentStatusCancelled
	case PaymentStatusCompleted:
		return target == PaymentStatusRefunded
	default:
		// CANCELLED and REFUNDED are terminal
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCancelled || s == PaymentStatusRefunded
}

// String returns the status as a string
func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentMethod is how the payment was made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
)

// IsValid reports whether the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheck:
		return true
	}
	return false
}

// DocumentType identifies the kind of document a payment settles
type DocumentType string

const (
	DocumentTypeOrder         DocumentType = "ORDER"
	DocumentTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
)

// IsValid reports whether the document type is known
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeOrder || t == DocumentTypePurchaseOrder
}

// DocumentRef is a typed reference to the document being paid
type DocumentRef struct {
	Type DocumentType `gorm:"size:30;not null;column:document_type" json:"type"`
	ID   uuid.UUID    `gorm:"type:uuid;not null;column:document_id" json:"id"`
}

// Payment is the aggregate root for settlements against documents
type Payment struct {
	shared.BaseAggregateRoot
	PaymentNumber string          `gorm:"size:50;not null;uniqueIndex" json:"payment_number"`
	Document      DocumentRef     `gorm:"embedded" json:"document"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method        PaymentMethod   `gorm:"size:20;not null" json:"method"`
	Status        PaymentStatus   `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	PaymentDate   time.Time       `gorm:"not null" json:"payment_date"`
	Note          string          `gorm:"size:500" json:"note,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	CancelReason  string          `gorm:"size:500" json:"cancel_reason,omitempty"`
	RefundReason  string          `gorm:"size:500" json:"refund_reason,omitempty"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
}

// NewPayment creates a pending payment against a document
func NewPayment(paymentNumber string, doc DocumentRef, amount decimal.Decimal, method PaymentMethod) (*Payment, error) {
	if strings.TrimSpace(paymentNumber) == "" {
		return nil, shared.NewInvalidInputError("payment number is required")
	}
	if !doc.Type.IsValid() {
		return nil, shared.NewInvalidInputError("invalid document type")
	}
	if doc.ID == uuid.Nil {
		return nil, shared.NewInvalidInputError("document reference is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidAmount,
			"payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewInvalidInputError("invalid payment method")
	}

	p := &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PaymentNumber:     paymentNumber,
		Document:          doc,
		Amount:            amount,
		Method:            method,
		Status:            PaymentStatusPending,
		PaymentDate:       time.Now(),
	}
	p.AddDomainEvent(NewPaymentCreatedEvent(p))
	return p, nil
}

// UpdateDetails changes amount, method and note. Allowed only while pending.
func (p *Payment) UpdateDetails(amount decimal.Decimal, method PaymentMethod, note string) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodePaymentLocked,
			"payment %s is %s and cannot be modified", p.PaymentNumber, p.Status)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.ErrCodeInvalidAmount,
			"payment amount must be positive")
	}
	if !method.IsValid() {
		return shared.NewInvalidInputError("invalid payment method")
	}

	p.Amount = amount
	p.Method = method
	p.Note = note
	p.IncrementVersion()
	return nil
}

// SetPaymentDate records when the money actually moved. Allowed only while
// pending.
func (p *Payment) SetPaymentDate(date time.Time) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodePaymentLocked,
			"payment %s is %s and cannot be modified", p.PaymentNumber, p.Status)
	}
	p.PaymentDate = date
	p.IncrementVersion()
	return nil
}

// CanDelete reports whether the payment may be removed. Completed and refunded
// payments are part of the financial record and must stay.
func (p *Payment) CanDelete() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusCancelled
}

// Complete transitions the payment from pending to completed
func (p *Payment) Complete() error {
	if !p.Status.CanTransitionTo(PaymentStatusCompleted) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidPaymentTransition,
			"cannot complete payment in status %s", p.Status)
	}

	now := time.Now()
	p.Status = PaymentStatusCompleted
	p.CompletedAt = &now
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, PaymentStatusPending))
	return nil
}

// Cancel transitions the payment from pending to cancelled
func (p *Payment) Cancel(reason string) error {
	if !p.Status.CanTransitionTo(PaymentStatusCancelled) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidPaymentTransition,
			"cannot cancel payment in status %s", p.Status)
	}

	now := time.Now()
	prev := p.Status
	p.Status = PaymentStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = reason
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentStatusChangedEvent(p, prev))
	return nil
}

// Refund transitions the payment from completed to refunded. Refunds exist
// for supplier settlements only; payments against sales orders never refund
// through this flow.
func (p *Payment) Refund(reason string) error {
	if p.Document.Type != DocumentTypePurchaseOrder {
		return shared.NewDomainErrorf(shared.ErrCodeRefundNotAllowed,
			"payments against %s documents cannot be refunded", p.Document.Type)
	}
	if p.Status != PaymentStatusCompleted {
		return shared.NewDomainErrorf(shared.ErrCodeRefundNotAllowed,
			"only completed payments can be refunded; payment is %s", p.Status)
	}

	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
	p.RefundReason = reason
	p.IncrementVersion()
	p.AddDomainEvent(NewPaymentRefundedEvent(p, reason))
	return nil
}

// CountsTowardPaid reports whether the payment contributes to the paid total
// of its document. Only completed payments count; refunds reopen the balance.
func (p *Payment) CountsTowardPaid() bool {
	return p.Status == PaymentStatusCompleted
}
