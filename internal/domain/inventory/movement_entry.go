package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// MovementType classifies a ledger entry
type MovementType string

const (
	MovementTypeIn     MovementType = "IN"
	MovementTypeOut    MovementType = "OUT"
	MovementTypeAdjust MovementType = "ADJUST"
)

// IsValid reports whether the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust:
		return true
	}
	return false
}

// ReferenceType identifies the kind of document a movement points back to
type ReferenceType string

const (
	ReferenceTypePurchaseOrder ReferenceType = "PURCHASE_ORDER"
	ReferenceTypeStockTake     ReferenceType = "STOCK_TAKE"
	ReferenceTypeManual        ReferenceType = "MANUAL"
)

// MovementEntry is one immutable row in the inventory ledger. Every entry
// belongs to a batch record; entries are only ever appended, corrections
// happen through compensating ADJUST entries.
type MovementEntry struct {
	shared.BaseEntity
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	BatchID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"batch_id"`
	InventoryRecordID uuid.UUID       `gorm:"type:uuid;not null;index" json:"inventory_record_id"`
	Type              MovementType    `gorm:"size:10;not null" json:"type"`
	Quantity          decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"quantity"`
	BalanceBefore     decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"balance_before"`
	BalanceAfter      decimal.Decimal `gorm:"type:decimal(15,3);not null" json:"balance_after"`
	ReferenceType     ReferenceType   `gorm:"size:30;not null" json:"reference_type"`
	ReferenceID       *uuid.UUID      `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Reason            string          `gorm:"size:500" json:"reason,omitempty"`
	OperatorID        *uuid.UUID      `gorm:"type:uuid" json:"operator_id,omitempty"`
}

// NewMovementEntry creates a ledger entry against a batch record, capturing
// the record's total stock as the before balance. Call it before applying the
// movement to the record. Quantity is a positive magnitude for IN/OUT and a
// signed delta for ADJUST.
func NewMovementEntry(record *InventoryRecord, movementType MovementType, quantity decimal.Decimal) (*MovementEntry, error) {
	if record == nil {
		return nil, shared.NewInvalidInputError("inventory record is required")
	}
	if !movementType.IsValid() {
		return nil, shared.NewInvalidInputError("invalid movement type")
	}
	if movementType != MovementTypeAdjust && quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewInvalidInputError("movement quantity must be positive")
	}
	if movementType == MovementTypeAdjust && quantity.IsZero() {
		return nil, shared.NewInvalidInputError("adjustment quantity cannot be zero")
	}

	entry := &MovementEntry{
		BaseEntity:        shared.NewBaseEntity(),
		ProductID:         record.ProductID,
		BatchID:           record.BatchID,
		InventoryRecordID: record.ID,
		Type:              movementType,
		Quantity:          quantity,
		BalanceBefore:     record.TotalQuantity(),
		ReferenceType:     ReferenceTypeManual,
	}
	entry.BalanceAfter = entry.BalanceBefore.Add(entry.SignedQuantity())
	return entry, nil
}

// WithReference attaches the originating document
func (e *MovementEntry) WithReference(refType ReferenceType, refID uuid.UUID) *MovementEntry {
	e.ReferenceType = refType
	e.ReferenceID = &refID
	return e
}

// WithReason attaches a free-form reason
func (e *MovementEntry) WithReason(reason string) *MovementEntry {
	e.Reason = reason
	return e
}

// WithOperator records who triggered the movement
func (e *MovementEntry) WithOperator(operatorID uuid.UUID) *MovementEntry {
	e.OperatorID = &operatorID
	return e
}

// SignedQuantity returns the quantity with the sign implied by the type:
// positive for IN, negative for OUT, as stored for ADJUST.
func (e *MovementEntry) SignedQuantity() decimal.Decimal {
	switch e.Type {
	case MovementTypeOut:
		return e.Quantity.Neg()
	default:
		return e.Quantity
	}
}
