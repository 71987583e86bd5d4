package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/payment"
	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// Reconciler records payments against referenced documents and computes the
// outstanding balance per document.
type Reconciler struct {
	payments    payment.PaymentRepository
	orders      purchasing.PurchaseOrderRepository
	salesOrders SalesOrderDirectory
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewReconciler creates a payment Reconciler
func NewReconciler(payments payment.PaymentRepository, orders purchasing.PurchaseOrderRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		payments:    payments,
		orders:      orders,
		salesOrders: NoOpSalesOrderDirectory{},
		publisher:   shared.NoOpEventPublisher{},
		logger:      logger,
	}
}

// SetEventPublisher wires the event publisher used after persistence
func (r *Reconciler) SetEventPublisher(publisher shared.EventPublisher) {
	if publisher != nil {
		r.publisher = publisher
	}
}

// SetSalesOrderDirectory wires the sales order lookup used for ORDER documents
func (r *Reconciler) SetSalesOrderDirectory(directory SalesOrderDirectory) {
	if directory != nil {
		r.salesOrders = directory
	}
}

// documentSummary resolves the number and total of a referenced document
func (r *Reconciler) documentSummary(ctx context.Context, doc payment.DocumentRef) (string, decimal.Decimal, error) {
	switch doc.Type {
	case payment.DocumentTypePurchaseOrder:
		order, err := r.orders.FindByID(ctx, doc.ID)
		if err != nil {
			return "", decimal.Zero, err
		}
		return order.OrderNumber, order.TotalAmount, nil
	case payment.DocumentTypeOrder:
		order, err := r.salesOrders.FindByID(ctx, doc.ID)
		if err != nil {
			return "", decimal.Zero, err
		}
		return order.OrderNumber, order.TotalAmount, nil
	default:
		return "", decimal.Zero, shared.NewInvalidInputError("invalid document type")
	}
}

// RecordPayment creates a pending payment against a document
func (r *Reconciler) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResponse, error) {
	docType := payment.DocumentType(input.DocumentType)
	if !docType.IsValid() {
		return nil, shared.NewInvalidInputError("invalid document type")
	}
	// The referenced document must exist before money is booked against it.
	doc := payment.DocumentRef{Type: docType, ID: input.DocumentID}
	if _, _, err := r.documentSummary(ctx, doc); err != nil {
		return nil, err
	}

	number, err := r.payments.GeneratePaymentNumber(ctx)
	if err != nil {
		return nil, err
	}
	p, err := payment.NewPayment(number, doc,
		input.Amount, payment.PaymentMethod(input.Method))
	if err != nil {
		return nil, err
	}
	if input.Note != "" {
		p.Note = input.Note
	}
	if input.PaymentDate != nil {
		p.PaymentDate = *input.PaymentDate
	}
	if input.CreatedBy != uuid.Nil {
		createdBy := input.CreatedBy
		p.CreatedBy = &createdBy
	}

	if err := r.payments.Save(ctx, p); err != nil {
		return nil, err
	}
	r.publishDomainEvents(ctx, p)

	r.logger.Info("payment recorded",
		zap.String("payment_number", p.PaymentNumber),
		zap.String("document_id", p.Document.ID.String()),
		zap.String("amount", p.Amount.String()))
	return ToPaymentResponse(p), nil
}

// GetByID loads one payment
func (r *Reconciler) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPaymentResponse(p), nil
}

// List returns a page of payments
func (r *Reconciler) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PaymentResponse], error) {
	payments, err := r.payments.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := r.payments.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, *ToPaymentResponse(&payments[i]))
	}
	return &shared.Paginated[PaymentResponse]{Items: items, Total: total}, nil
}

// Update edits a pending payment
func (r *Reconciler) Update(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (*PaymentResponse, error) {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateDetails(input.Amount, payment.PaymentMethod(input.Method), input.Note); err != nil {
		return nil, err
	}
	if input.PaymentDate != nil {
		p.PaymentDate = *input.PaymentDate
	}
	if err := r.payments.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return ToPaymentResponse(p), nil
}

// Delete removes a payment that never settled. Completed and refunded
// payments are immutable history.
func (r *Reconciler) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.CanDelete() {
		return shared.NewDomainErrorf(shared.ErrCodePaymentLocked,
			"payment %s is %s and cannot be deleted", p.PaymentNumber, p.Status)
	}
	if err := r.payments.Delete(ctx, p.ID); err != nil {
		return err
	}
	r.logger.Info("payment deleted",
		zap.String("payment_number", p.PaymentNumber),
		zap.String("status", p.Status.String()))
	return nil
}

// Complete marks a pending payment as completed. Overpaying the document is a
// soft invariant: the operation succeeds and a warning is logged.
func (r *Reconciler) Complete(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Complete(); err != nil {
		return nil, err
	}
	if err := r.payments.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	r.publishDomainEvents(ctx, p)

	if result, err := r.Reconcile(ctx, p.Document); err == nil && result.Overpaid {
		r.logger.Warn("document overpaid",
			zap.String("payment_number", p.PaymentNumber),
			zap.String("document_number", result.DocumentNumber),
			zap.String("overpaid_by", result.OverpaidBy.String()))
	}
	return ToPaymentResponse(p), nil
}

// Cancel cancels a pending payment
func (r *Reconciler) Cancel(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Cancel(reason); err != nil {
		return nil, err
	}
	if err := r.payments.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	r.publishDomainEvents(ctx, p)
	return ToPaymentResponse(p), nil
}

// Refund refunds a completed payment
func (r *Reconciler) Refund(ctx context.Context, id uuid.UUID, reason string) (*PaymentResponse, error) {
	p, err := r.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Refund(reason); err != nil {
		return nil, err
	}
	if err := r.payments.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	r.publishDomainEvents(ctx, p)

	r.logger.Info("payment refunded",
		zap.String("payment_number", p.PaymentNumber),
		zap.String("reason", reason))
	return ToPaymentResponse(p), nil
}

// Reconcile computes the payment position of a referenced document. Only
// completed payments count toward the paid total; the remaining balance never
// goes below zero.
func (r *Reconciler) Reconcile(ctx context.Context, doc payment.DocumentRef) (*ReconciliationResult, error) {
	number, total, err := r.documentSummary(ctx, doc)
	if err != nil {
		return nil, err
	}
	payments, err := r.payments.FindByDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	items := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		p := &payments[i]
		if p.CountsTowardPaid() {
			paid = paid.Add(p.Amount)
		}
		items = append(items, *ToPaymentResponse(p))
	}

	remaining := total.Sub(paid)
	overpaidBy := decimal.Zero
	if remaining.IsNegative() {
		overpaidBy = remaining.Neg()
		remaining = decimal.Zero
	}

	return &ReconciliationResult{
		DocumentType:     string(doc.Type),
		DocumentID:       doc.ID,
		DocumentNumber:   number,
		DocumentTotal:    total,
		PaidTotal:        paid,
		RemainingBalance: remaining,
		Overpaid:         overpaidBy.IsPositive(),
		OverpaidBy:       overpaidBy,
		Payments:         items,
	}, nil
}

func (r *Reconciler) publishDomainEvents(ctx context.Context, p *payment.Payment) {
	events := p.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := r.publisher.Publish(ctx, events...); err != nil {
		r.logger.Warn("failed to publish payment events",
			zap.String("payment_number", p.PaymentNumber),
			zap.Error(err))
	}
	p.ClearDomainEvents()
}
