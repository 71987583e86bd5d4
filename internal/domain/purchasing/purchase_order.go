package purchasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid reports whether the status is a known value
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusApproved,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusApproved || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusApproved:
		return target == PurchaseOrderStatusReceived || target == PurchaseOrderStatusCancelled
	default:
		// RECEIVED and CANCELLED are terminal
		return false
	}
}

// IsTerminal reports whether the status permits no further transitions
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanReceive reports whether goods may be received against an order in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved
}

// String returns the status as a string
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// PurchaseOrderLine is a single product line on a purchase order.
// A line is considered received exactly when BatchID is set.
type PurchaseOrderLine struct {
	shared.BaseEntity
	PurchaseOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null" json:"product_id"`
	ProductName      string          `gorm:"size:255;not null" json:"product_name"`
	SKU              string          `gorm:"size:100" json:"sku"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"received_quantity"`
	UnitCost         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"unit_cost"`
	BatchID          *uuid.UUID      `gorm:"type:uuid" json:"batch_id,omitempty"`
}

// Subtotal returns ordered quantity times unit cost
func (l *PurchaseOrderLine) Subtotal() decimal.Decimal {
	return l.OrderedQuantity.Mul(l.UnitCost)
}

// IsReceived reports whether the line has been received (carries a batch)
func (l *PurchaseOrderLine) IsReceived() bool {
	return l.BatchID != nil
}

// PurchaseOrder is the aggregate root for the purchasing flow
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber          string              `gorm:"size:50;not null;uniqueIndex" json:"order_number"`
	SupplierID           uuid.UUID           `gorm:"type:uuid;not null;index" json:"supplier_id"`
	SupplierName         string              `gorm:"size:255;not null" json:"supplier_name"`
	Status               PurchaseOrderStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ExpectedDeliveryDate *time.Time          `json:"expected_delivery_date,omitempty"`
	ApprovedAt           *time.Time          `json:"approved_at,omitempty"`
	ApprovedBy           *uuid.UUID          `gorm:"type:uuid" json:"approved_by,omitempty"`
	ReceivedAt           *time.Time          `json:"received_at,omitempty"`
	CancelledAt          *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason         string              `gorm:"size:500" json:"cancel_reason,omitempty"`
	Notes                string              `gorm:"size:1000" json:"notes,omitempty"`
	ShippingFee          decimal.Decimal     `gorm:"type:decimal(15,2);not null;default:0" json:"shipping_fee"`
	DiscountPercent      decimal.Decimal     `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	TotalAmount          decimal.Decimal     `gorm:"type:decimal(15,2);not null;default:0" json:"total_amount"`
	Lines                []PurchaseOrderLine `gorm:"foreignKey:PurchaseOrderID" json:"lines"`
}

// NewPurchaseOrder creates a pending purchase order
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewInvalidInputError("order number is required")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewInvalidInputError("supplier is required")
	}
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewInvalidInputError("supplier name is required")
	}

	order := &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Status:            PurchaseOrderStatusPending,
		ShippingFee:       decimal.Zero,
		DiscountPercent:   decimal.Zero,
		TotalAmount:       decimal.Zero,
	}
	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))
	return order, nil
}

// canEditLines reports whether line-level edits are allowed, returning the
// matching domain error when they are not. Full edits are allowed only while
// the order is pending.
func (o *PurchaseOrder) canEditLines() error {
	if o.Status.IsTerminal() {
		return shared.NewDomainErrorf(shared.ErrCodeOrderLocked,
			"purchase order %s is %s and cannot be modified", o.OrderNumber, o.Status)
	}
	if o.Status != PurchaseOrderStatusPending {
		return shared.NewDomainErrorf(shared.ErrCodeOrderLocked,
			"purchase order %s is %s; only the expected delivery date may change", o.OrderNumber, o.Status)
	}
	return nil
}

// AddLine appends a product line. Allowed only while pending.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, productName, sku string, orderedQty, unitCost decimal.Decimal) (*PurchaseOrderLine, error) {
	if err := o.canEditLines(); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product is required")
	}
	if orderedQty.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidInputError("ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewInvalidInputError("unit cost cannot be negative")
	}

	line := PurchaseOrderLine{
		BaseEntity:       shared.NewBaseEntity(),
		PurchaseOrderID:  o.ID,
		ProductID:        productID,
		ProductName:      productName,
		SKU:              sku,
		OrderedQuantity:  orderedQty,
		ReceivedQuantity: decimal.Zero,
		UnitCost:         unitCost,
	}
	o.Lines = append(o.Lines, line)
	o.recalculateTotal()
	o.IncrementVersion()
	return &o.Lines[len(o.Lines)-1], nil
}

// UpdateLine changes the ordered quantity and unit cost of an existing line.
// Allowed only while pending.
func (o *PurchaseOrder) UpdateLine(lineID uuid.UUID, orderedQty, unitCost decimal.Decimal) error {
	if err := o.canEditLines(); err != nil {
		return err
	}
	if orderedQty.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("ordered quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewInvalidInputError("unit cost cannot be negative")
	}

	line := o.findLine(lineID)
	if line == nil {
		return shared.NewNotFoundError("purchase order line")
	}
	line.OrderedQuantity = orderedQty
	line.UnitCost = unitCost
	line.Touch()
	o.recalculateTotal()
	o.IncrementVersion()
	return nil
}

// RemoveLine deletes a line. Allowed only while pending.
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if err := o.canEditLines(); err != nil {
		return err
	}
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			o.Lines = append(o.Lines[:i], o.Lines[i+1:]...)
			o.recalculateTotal()
			o.IncrementVersion()
			return nil
		}
	}
	return shared.NewNotFoundError("purchase order line")
}

// SetNotes updates free-form notes. Allowed only while pending.
func (o *PurchaseOrder) SetNotes(notes string) error {
	if err := o.canEditLines(); err != nil {
		return err
	}
	o.Notes = notes
	o.IncrementVersion()
	return nil
}

// SetCharges updates the shipping fee and the order-level discount percentage.
// Allowed only while pending.
func (o *PurchaseOrder) SetCharges(shippingFee, discountPercent decimal.Decimal) error {
	if err := o.canEditLines(); err != nil {
		return err
	}
	if shippingFee.IsNegative() {
		return shared.NewInvalidInputError("shipping fee cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("discount percent must be between 0 and 100")
	}
	o.ShippingFee = shippingFee
	o.DiscountPercent = discountPercent
	o.recalculateTotal()
	o.IncrementVersion()
	return nil
}

// SetExpectedDeliveryDate updates the expected delivery date. This is the one
// field that stays editable after approval, up until the order is terminal.
func (o *PurchaseOrder) SetExpectedDeliveryDate(date *time.Time) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainErrorf(shared.ErrCodeOrderLocked,
			"purchase order %s is %s and cannot be modified", o.OrderNumber, o.Status)
	}
	o.ExpectedDeliveryDate = date
	o.IncrementVersion()
	return nil
}

// Approve transitions the order from pending to approved
func (o *PurchaseOrder) Approve(approvedBy uuid.UUID) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusApproved) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot approve purchase order in status %s", o.Status)
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot approve purchase order %s without lines", o.OrderNumber)
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusApproved
	o.ApprovedAt = &now
	if approvedBy != uuid.Nil {
		o.ApprovedBy = &approvedBy
	}
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderApprovedEvent(o))
	return nil
}

// Cancel transitions the order to cancelled from pending or approved
func (o *PurchaseOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot cancel purchase order in status %s", o.Status)
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderCancelledEvent(o, reason))
	return nil
}

// ReceiveLine records a receipt against a line: the received quantity and the
// batch created for it. The order must be approved and the line must not
// already carry a batch.
func (o *PurchaseOrder) ReceiveLine(lineID uuid.UUID, quantity decimal.Decimal, batchID uuid.UUID) error {
	if !o.Status.CanReceive() {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot receive against purchase order in status %s", o.Status)
	}
	line := o.findLine(lineID)
	if line == nil {
		return shared.NewNotFoundError("purchase order line")
	}
	if line.IsReceived() {
		return shared.NewDomainErrorf(shared.ErrCodeAlreadyReceived,
			"line %s has already been received", lineID)
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.ErrCodeInvalidReceivedQuantity,
			"received quantity must be positive")
	}
	if quantity.GreaterThan(line.OrderedQuantity) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidReceivedQuantity,
			"received quantity %s exceeds ordered quantity %s", quantity, line.OrderedQuantity)
	}
	if batchID == uuid.Nil {
		return shared.NewInvalidInputError("batch is required")
	}

	line.ReceivedQuantity = quantity
	id := batchID
	line.BatchID = &id
	line.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderLineReceivedEvent(o, line))
	return nil
}

// MarkReceived transitions the order to received once every line carries a batch
func (o *PurchaseOrder) MarkReceived() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusReceived) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidTransition,
			"cannot mark purchase order as received in status %s", o.Status)
	}
	if !o.IsFullyReceived() {
		return shared.NewDomainErrorf(shared.ErrCodeIncompleteReceiving,
			"purchase order %s still has unreceived lines", o.OrderNumber)
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusReceived
	o.ReceivedAt = &now
	o.IncrementVersion()
	o.AddDomainEvent(NewPurchaseOrderReceivedEvent(o))
	return nil
}

// IsFullyReceived reports whether every line carries a batch
func (o *PurchaseOrder) IsFullyReceived() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for i := range o.Lines {
		if !o.Lines[i].IsReceived() {
			return false
		}
	}
	return true
}

// FindLine returns the line with the given ID, or nil
func (o *PurchaseOrder) FindLine(lineID uuid.UUID) *PurchaseOrderLine {
	return o.findLine(lineID)
}

func (o *PurchaseOrder) findLine(lineID uuid.UUID) *PurchaseOrderLine {
	for i := range o.Lines {
		if o.Lines[i].ID == lineID {
			return &o.Lines[i]
		}
	}
	return nil
}

// SubtotalAmount returns the sum of line subtotals before charges
func (o *PurchaseOrder) SubtotalAmount() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range o.Lines {
		subtotal = subtotal.Add(o.Lines[i].Subtotal())
	}
	return subtotal
}

// total = subtotal * (1 - discount%) + shipping, rounded to cents
func (o *PurchaseOrder) recalculateTotal() {
	subtotal := o.SubtotalAmount()
	if o.DiscountPercent.IsPositive() {
		factor := decimal.NewFromInt(1).Sub(o.DiscountPercent.Div(decimal.NewFromInt(100)))
		subtotal = subtotal.Mul(factor)
	}
	o.TotalAmount = subtotal.Add(o.ShippingFee).Round(2)
}
