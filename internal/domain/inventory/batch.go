package inventory

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storeops/backoffice/internal/domain/shared"
)

// BatchStatus is the lifecycle state of a stock batch
type BatchStatus string

const (
	BatchStatusActive  BatchStatus = "ACTIVE"
	BatchStatusExpired BatchStatus = "EXPIRED"
)

// Batch represents a physical lot of stock received in one delivery
type Batch struct {
	shared.BaseEntity
	BatchNumber         string           `gorm:"size:50;not null;uniqueIndex" json:"batch_number"`
	ProductID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	PurchaseOrderLineID *uuid.UUID       `gorm:"type:uuid;index" json:"purchase_order_line_id,omitempty"`
	Quantity            decimal.Decimal  `gorm:"type:decimal(15,3);not null" json:"quantity"`
	UnitCost            decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"unit_cost"`
	SellingPrice        decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"selling_price"`
	Status              BatchStatus      `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`
	ReceivedDate        time.Time        `gorm:"not null" json:"received_date"`
	ManufacturingDate   *time.Time       `json:"manufacturing_date,omitempty"`
	ExpiryDate          *time.Time       `json:"expiry_date,omitempty"`
	PromotionPrice      *decimal.Decimal `gorm:"type:decimal(15,2)" json:"promotion_price,omitempty"`
	PromotionStart      *time.Time       `json:"promotion_start,omitempty"`
	PromotionEnd        *time.Time       `json:"promotion_end,omitempty"`
	Notes               string           `gorm:"size:1000" json:"notes,omitempty"`
}

// IsExpired reports whether the batch has passed its expiry date
func (b *Batch) IsExpired() bool {
	return b.ExpiryDate != nil && time.Now().After(*b.ExpiryDate)
}

// WillExpireWithin reports whether the batch expires within the given duration
func (b *Batch) WillExpireWithin(d time.Duration) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return time.Now().Add(d).After(*b.ExpiryDate)
}

// DaysUntilExpiry returns the whole days until expiry, negative if already
// expired, or -1 when the batch has no expiry date.
func (b *Batch) DaysUntilExpiry() int {
	if b.ExpiryDate == nil {
		return -1
	}
	return int(time.Until(*b.ExpiryDate).Hours() / 24)
}

// RefreshStatus moves the batch to EXPIRED once its expiry date has passed.
// Expiry is one-way; an expired batch never reactivates.
func (b *Batch) RefreshStatus() {
	if b.Status == BatchStatusActive && b.IsExpired() {
		b.Status = BatchStatusExpired
	}
}

// SetPromotion puts the batch on a time-boxed promotional price
func (b *Batch) SetPromotion(price decimal.Decimal, start, end time.Time) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return shared.NewInvalidInputError("promotion price must be positive")
	}
	if !end.After(start) {
		return shared.NewDomainError(shared.ErrCodeInvalidDateRange,
			"promotion end must be after promotion start")
	}
	b.PromotionPrice = &price
	b.PromotionStart = &start
	b.PromotionEnd = &end
	return nil
}

// EffectiveSellingPrice returns the promotional price while the promotion
// window is open, the standing selling price otherwise.
func (b *Batch) EffectiveSellingPrice(at time.Time) decimal.Decimal {
	if b.PromotionPrice != nil && b.PromotionStart != nil && b.PromotionEnd != nil &&
		!at.Before(*b.PromotionStart) && at.Before(*b.PromotionEnd) {
		return *b.PromotionPrice
	}
	return b.SellingPrice
}

// receivedDateSkew tolerates small clock drift between clients and the server
const receivedDateSkew = 5 * time.Minute

// BatchFactory creates validated stock batches. The clock is injectable so
// date-range rules stay testable.
type BatchFactory struct {
	now func() time.Time
}

// NewBatchFactory creates a BatchFactory using the system clock
func NewBatchFactory() *BatchFactory {
	return &BatchFactory{now: time.Now}
}

// NewBatchFactoryWithClock creates a BatchFactory with a custom clock
func NewBatchFactoryWithClock(now func() time.Time) *BatchFactory {
	return &BatchFactory{now: now}
}

// BatchInput carries everything needed to create one batch
type BatchInput struct {
	ProductID           uuid.UUID
	PurchaseOrderLineID *uuid.UUID
	// BatchNumber may be empty; the repository assigns a generated one on save.
	BatchNumber string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	// SellingPrice falls back to the unit cost when not positive.
	SellingPrice      decimal.Decimal
	ReceivedDate      time.Time
	ManufacturingDate *time.Time
	ExpiryDate        *time.Time
	Notes             string
}

// CreateBatch validates the input and builds a new active batch
func (f *BatchFactory) CreateBatch(input BatchInput) (*Batch, error) {
	if input.ProductID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product is required")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidReceivedQuantity,
			"batch quantity must be positive")
	}
	if input.UnitCost.IsNegative() {
		return nil, shared.NewInvalidInputError("unit cost cannot be negative")
	}
	receivedDate := input.ReceivedDate
	if receivedDate.IsZero() {
		receivedDate = f.now()
	}
	if receivedDate.After(f.now().Add(receivedDateSkew)) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
			"received date cannot be in the future")
	}
	if input.ManufacturingDate != nil && input.ManufacturingDate.After(f.now().Add(receivedDateSkew)) {
		return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
			"manufacturing date cannot be in the future")
	}
	if input.ExpiryDate != nil {
		if !input.ExpiryDate.After(f.now()) {
			return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
				"expiry date must be in the future")
		}
		if !input.ExpiryDate.After(receivedDate) {
			return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
				"expiry date must be after the received date")
		}
		if input.ManufacturingDate != nil && !input.ExpiryDate.After(*input.ManufacturingDate) {
			return nil, shared.NewDomainError(shared.ErrCodeInvalidDateRange,
				"expiry date must be after the manufacturing date")
		}
	}

	sellingPrice := input.SellingPrice
	if sellingPrice.LessThanOrEqual(decimal.Zero) {
		sellingPrice = input.UnitCost
	}

	return &Batch{
		BaseEntity:          shared.NewBaseEntity(),
		BatchNumber:         strings.TrimSpace(input.BatchNumber),
		ProductID:           input.ProductID,
		PurchaseOrderLineID: input.PurchaseOrderLineID,
		Quantity:            input.Quantity,
		UnitCost:            input.UnitCost,
		SellingPrice:        sellingPrice,
		Status:              BatchStatusActive,
		ReceivedDate:        receivedDate,
		ManufacturingDate:   input.ManufacturingDate,
		ExpiryDate:          input.ExpiryDate,
		Notes:               strings.TrimSpace(input.Notes),
	}, nil
}
