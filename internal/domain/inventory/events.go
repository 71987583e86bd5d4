package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// Event type names for the inventory aggregates
const (
	EventTypeStockChanged = "inventory.record.stock_changed"

	aggregateTypeInventoryRecord = "InventoryRecord"
)

// StockChangedEvent is raised whenever a batch record's stock total changes
type StockChangedEvent struct {
	shared.BaseDomainEvent
	BatchID   uuid.UUID       `json:"batch_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Delta     decimal.Decimal `json:"delta"`
	OnHand    decimal.Decimal `json:"on_hand"`
	OnShelf   decimal.Decimal `json:"on_shelf"`
}

// NewStockChangedEvent creates a StockChangedEvent
func NewStockChangedEvent(record *InventoryRecord, delta decimal.Decimal) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockChanged, aggregateTypeInventoryRecord, record.ID),
		BatchID:         record.BatchID,
		ProductID:       record.ProductID,
		Delta:           delta,
		OnHand:          record.QuantityOnHand,
		OnShelf:         record.QuantityOnShelf,
	}
}
