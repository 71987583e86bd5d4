package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// InventoryRecord tracks the stock position of one batch. Every batch owns
// exactly one record, created with all quantities at zero. The movement ledger
// is the source of truth; on-hand plus on-shelf must always equal the ledger
// sum for the batch and changes only through Increase/Decrease/Adjust.
type InventoryRecord struct {
	shared.BaseAggregateRoot
	BatchID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"batch_id"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"quantity_on_hand"`
	QuantityOnShelf  decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"quantity_on_shelf"`
	QuantityReserved decimal.Decimal `gorm:"type:decimal(15,3);not null;default:0" json:"quantity_reserved"`
	Location         string          `gorm:"size:100" json:"location,omitempty"`
}

// NewInventoryRecord creates the stock record for a freshly received batch.
// All quantities start at zero; stock arrives through Increase only.
func NewInventoryRecord(batchID, productID uuid.UUID, location string) (*InventoryRecord, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewInvalidInputError("batch is required")
	}
	if productID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product is required")
	}
	return &InventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		ProductID:         productID,
		QuantityOnHand:    decimal.Zero,
		QuantityOnShelf:   decimal.Zero,
		QuantityReserved:  decimal.Zero,
		Location:          strings.TrimSpace(location),
	}, nil
}

// TotalQuantity is the physical stock of the batch, warehouse plus shelf
func (r *InventoryRecord) TotalQuantity() decimal.Decimal {
	return r.QuantityOnHand.Add(r.QuantityOnShelf)
}

// AvailableQuantity is the shelf stock not held by reservations
func (r *InventoryRecord) AvailableQuantity() decimal.Decimal {
	return r.QuantityOnShelf.Sub(r.QuantityReserved)
}

// Increase adds received stock to the warehouse quantity
func (r *InventoryRecord) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("increase quantity must be positive")
	}
	r.QuantityOnHand = r.QuantityOnHand.Add(quantity)
	r.IncrementVersion()
	r.AddDomainEvent(NewStockChangedEvent(r, quantity))
	return nil
}

// Decrease removes stock, shelf first then warehouse. Total never goes negative.
func (r *InventoryRecord) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("decrease quantity must be positive")
	}
	if quantity.GreaterThan(r.TotalQuantity()) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidInput,
			"cannot decrease stock below zero: %s in stock, requested %s", r.TotalQuantity(), quantity)
	}
	fromShelf := decimal.Min(quantity, r.QuantityOnShelf)
	r.QuantityOnShelf = r.QuantityOnShelf.Sub(fromShelf)
	r.QuantityOnHand = r.QuantityOnHand.Sub(quantity.Sub(fromShelf))
	r.IncrementVersion()
	r.AddDomainEvent(NewStockChangedEvent(r, quantity.Neg()))
	return nil
}

// MoveToShelf transfers stock from the warehouse to the shelf. Total quantity
// is unchanged, so no ledger entry accompanies a shelf move.
func (r *InventoryRecord) MoveToShelf(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("shelf move quantity must be positive")
	}
	if quantity.GreaterThan(r.QuantityOnHand) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidInput,
			"cannot shelve %s: only %s in the warehouse", quantity, r.QuantityOnHand)
	}
	r.QuantityOnHand = r.QuantityOnHand.Sub(quantity)
	r.QuantityOnShelf = r.QuantityOnShelf.Add(quantity)
	r.IncrementVersion()
	return nil
}

// Reserve holds shelf stock for a pending sale
func (r *InventoryRecord) Reserve(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("reserve quantity must be positive")
	}
	if quantity.GreaterThan(r.AvailableQuantity()) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidInput,
			"cannot reserve %s: only %s available", quantity, r.AvailableQuantity())
	}
	r.QuantityReserved = r.QuantityReserved.Add(quantity)
	r.IncrementVersion()
	return nil
}

// ReleaseReservation returns reserved stock to the available pool
func (r *InventoryRecord) ReleaseReservation(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("release quantity must be positive")
	}
	if quantity.GreaterThan(r.QuantityReserved) {
		return shared.NewDomainErrorf(shared.ErrCodeInvalidInput,
			"cannot release %s: only %s reserved", quantity, r.QuantityReserved)
	}
	r.QuantityReserved = r.QuantityReserved.Sub(quantity)
	r.IncrementVersion()
	return nil
}

// Adjust applies a signed stock-take correction to the warehouse quantity and
// returns the delta. The resulting total must stay non-negative.
func (r *InventoryRecord) Adjust(delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.IsZero() {
		return decimal.Zero, nil
	}
	if r.TotalQuantity().Add(delta).IsNegative() {
		return decimal.Zero, shared.NewDomainErrorf(shared.ErrCodeInvalidInput,
			"adjustment of %s would leave negative stock", delta)
	}
	r.QuantityOnHand = r.QuantityOnHand.Add(delta)
	r.IncrementVersion()
	r.AddDomainEvent(NewStockChangedEvent(r, delta))
	return delta, nil
}

// SetLocation updates where the batch is stored
func (r *InventoryRecord) SetLocation(location string) {
	r.Location = strings.TrimSpace(location)
	r.IncrementVersion()
}
