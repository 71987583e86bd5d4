package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/domain/purchasing"
	"github.com/storeops/backoffice/internal/domain/shared"
)

// PurchaseOrderService implements the purchase order workflow
type PurchaseOrderService struct {
	repo      purchasing.PurchaseOrderRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewPurchaseOrderService creates a PurchaseOrderService
func NewPurchaseOrderService(repo purchasing.PurchaseOrderRepository, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		repo:      repo,
		publisher: shared.NoOpEventPublisher{},
		logger:    logger,
	}
}

// SetEventPublisher wires the event publisher used after persistence
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	if publisher != nil {
		s.publisher = publisher
	}
}

// Create builds and persists a new pending purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*PurchaseOrderResponse, error) {
	orderNumber, err := s.repo.GenerateOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	order, err := purchasing.NewPurchaseOrder(orderNumber, input.SupplierID, input.SupplierName)
	if err != nil {
		return nil, err
	}
	if input.ExpectedDeliveryDate != nil {
		if err := order.SetExpectedDeliveryDate(input.ExpectedDeliveryDate); err != nil {
			return nil, err
		}
	}
	if input.Notes != "" {
		if err := order.SetNotes(input.Notes); err != nil {
			return nil, err
		}
	}
	for _, line := range input.Lines {
		if _, err := order.AddLine(line.ProductID, line.ProductName, line.SKU, line.OrderedQuantity, line.UnitCost); err != nil {
			return nil, err
		}
	}
	if input.ShippingFee.IsPositive() || input.DiscountPercent.IsPositive() {
		if err := order.SetCharges(input.ShippingFee, input.DiscountPercent); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	s.logger.Info("purchase order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("supplier_id", order.SupplierID.String()),
		zap.Int("lines", len(order.Lines)))
	return ToPurchaseOrderResponse(order), nil
}

// GetByID loads one order
func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// List returns a page of orders, optionally filtered by status
func (s *PurchaseOrderService) List(ctx context.Context, status string, filter shared.Filter) (*shared.Paginated[PurchaseOrderResponse], error) {
	var (
		orders []purchasing.PurchaseOrder
		err    error
	)
	if status != "" {
		poStatus := purchasing.PurchaseOrderStatus(status)
		if !poStatus.IsValid() {
			return nil, shared.NewInvalidInputError("invalid purchase order status")
		}
		orders, err = s.repo.FindByStatus(ctx, poStatus, filter)
	} else {
		orders, err = s.repo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToPurchaseOrderResponse(&orders[i]))
	}
	return &shared.Paginated[PurchaseOrderResponse]{Items: items, Total: total}, nil
}

// Update edits header fields. The expected delivery date stays editable after
// approval; notes only while pending.
func (s *PurchaseOrderService) Update(ctx context.Context, id uuid.UUID, input UpdatePurchaseOrderInput) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.ExpectedDeliveryDate != nil {
		if err := order.SetExpectedDeliveryDate(input.ExpectedDeliveryDate); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		if err := order.SetNotes(*input.Notes); err != nil {
			return nil, err
		}
	}
	if input.ShippingFee != nil || input.DiscountPercent != nil {
		shipping := order.ShippingFee
		discount := order.DiscountPercent
		if input.ShippingFee != nil {
			shipping = *input.ShippingFee
		}
		if input.DiscountPercent != nil {
			discount = *input.DiscountPercent
		}
		if err := order.SetCharges(shipping, discount); err != nil {
			return nil, err
		}
	}

	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// AddLine appends a line to a pending order
func (s *PurchaseOrderService) AddLine(ctx context.Context, id uuid.UUID, input CreateLineInput) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := order.AddLine(input.ProductID, input.ProductName, input.SKU, input.OrderedQuantity, input.UnitCost); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// UpdateLine edits an existing line on a pending order
func (s *PurchaseOrderService) UpdateLine(ctx context.Context, id, lineID uuid.UUID, orderedQty, unitCost decimal.Decimal) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateLine(lineID, orderedQty, unitCost); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// RemoveLine deletes a line from a pending order
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, id, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	return ToPurchaseOrderResponse(order), nil
}

// Approve transitions an order to approved
func (s *PurchaseOrderService) Approve(ctx context.Context, id, approvedBy uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Approve(approvedBy); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	s.logger.Info("purchase order approved",
		zap.String("order_number", order.OrderNumber),
		zap.String("approved_by", approvedBy.String()))
	return ToPurchaseOrderResponse(order), nil
}

// Cancel transitions an order to cancelled
func (s *PurchaseOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*PurchaseOrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)

	s.logger.Info("purchase order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", reason))
	return ToPurchaseOrderResponse(order), nil
}

// Delete removes an order that has run its course. Orders still moving
// through the workflow stay on the books.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.Status.IsTerminal() {
		return shared.NewDomainErrorf(shared.ErrCodeOrderLocked,
			"only received or cancelled purchase orders can be deleted; order is %s", order.Status)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("purchase order deleted",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", string(order.Status)))
	return nil
}

func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	events := order.DomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish purchase order events",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
	order.ClearDomainEvents()
}
