package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// PaymentRepository persists payment aggregates
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByPaymentNumber(ctx context.Context, paymentNumber string) (*Payment, error)
	FindByDocument(ctx context.Context, doc DocumentRef) ([]Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)

	Save(ctx context.Context, p *Payment) error
	// SaveWithLock persists only when the stored version matches; a mismatch
	// returns a CONCURRENT_MODIFICATION domain error.
	SaveWithLock(ctx context.Context, p *Payment) error

	Delete(ctx context.Context, id uuid.UUID) error

	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// GeneratePaymentNumber produces the next PAY-YYYY-NNNNN number
	GeneratePaymentNumber(ctx context.Context) (string, error)
}
