package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/payment"
)

// RecordPaymentInput carries the data for a new payment
type RecordPaymentInput struct {
	DocumentType string
	DocumentID   uuid.UUID
	Amount       decimal.Decimal
	Method       string
	Note         string
	PaymentDate  *time.Time
	CreatedBy    uuid.UUID
}

// UpdatePaymentInput carries editable fields of a pending payment
type UpdatePaymentInput struct {
	Amount      decimal.Decimal
	Method      string
	Note        string
	PaymentDate *time.Time
}

// PaymentResponse is the outward representation of a payment
type PaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	PaymentNumber string          `json:"payment_number"`
	DocumentType  string          `json:"document_type"`
	DocumentID    uuid.UUID       `json:"document_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Status        string          `json:"status"`
	PaymentDate   time.Time       `json:"payment_date"`
	Note          string          `json:"note,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	RefundedAt    *time.Time      `json:"refunded_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment to its response form
func ToPaymentResponse(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		DocumentType:  string(p.Document.Type),
		DocumentID:    p.Document.ID,
		Amount:        p.Amount,
		Method:        string(p.Method),
		Status:        p.Status.String(),
		PaymentDate:   p.PaymentDate,
		Note:          p.Note,
		CompletedAt:   p.CompletedAt,
		CancelledAt:   p.CancelledAt,
		RefundedAt:    p.RefundedAt,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ReconciliationResult summarises the payment position of a document
type ReconciliationResult struct {
	DocumentType     string            `json:"document_type"`
	DocumentID       uuid.UUID         `json:"document_id"`
	DocumentNumber   string            `json:"document_number"`
	DocumentTotal    decimal.Decimal   `json:"document_total"`
	PaidTotal        decimal.Decimal   `json:"paid_total"`
	RemainingBalance decimal.Decimal   `json:"remaining_balance"`
	Overpaid         bool              `json:"overpaid"`
	OverpaidBy       decimal.Decimal   `json:"overpaid_by"`
	Payments         []PaymentResponse `json:"payments"`
}
