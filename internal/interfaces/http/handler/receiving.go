package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apppurchasing "github.com/storeops/backoffice/internal/application/purchasing"
	"github.com/storeops/backoffice/internal/application/receiving"
	"github.com/storeops/backoffice/internal/infrastructure/idempotency"
	"github.com/storeops/backoffice/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader lets clients retry receive requests safely
const IdempotencyKeyHeader = "Idempotency-Key"

// ReceivingHandler exposes goods receipt over HTTP
type ReceivingHandler struct {
	BaseHandler
	coordinator *receiving.Coordinator
	idempotency idempotency.Store
	logger      *zap.Logger
}

// NewReceivingHandler creates a ReceivingHandler
func NewReceivingHandler(coordinator *receiving.Coordinator, store idempotency.Store, logger *zap.Logger) *ReceivingHandler {
	if store == nil {
		store = idempotency.NoOpStore{}
	}
	return &ReceivingHandler{coordinator: coordinator, idempotency: store, logger: logger}
}

// ReceiveLineRequest is the receive payload for one line
type ReceiveLineRequest struct {
	Quantity          float64    `json:"quantity" binding:"required,gt=0"`
	BatchNumber       string     `json:"batch_number" binding:"max=100"`
	ReceivedDate      *time.Time `json:"received_date"`
	ManufacturingDate *time.Time `json:"manufacturing_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	Location          string     `json:"location" binding:"max=100"`
	Notes             string     `json:"notes" binding:"max=1000"`
}

// ReceiveLineResponse reports the receipt outcome
type ReceiveLineResponse struct {
	Order          *apppurchasing.PurchaseOrderResponse `json:"order"`
	Batch          BatchInfo                            `json:"batch"`
	OrderCompleted bool                                 `json:"order_completed"`
}

// BatchInfo is the batch summary returned after a receipt
type BatchInfo struct {
	ID                uuid.UUID       `json:"id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	SellingPrice      decimal.Decimal `json:"selling_price"`
	ReceivedDate      time.Time       `json:"received_date"`
	ManufacturingDate *time.Time      `json:"manufacturing_date,omitempty"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Location          string          `json:"location,omitempty"`
}

// ReceiveLine handles POST /purchase-orders/:id/lines/:lineId/receive
func (h *ReceivingHandler) ReceiveLine(c *gin.Context) {
	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "invalid line id")
		return
	}
	var req ReceiveLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if key != "" {
		claimed, err := h.idempotency.Claim(c.Request.Context(), key)
		if err != nil {
			h.logger.Warn("idempotency claim failed, proceeding without protection",
				zap.String("key", key), zap.Error(err))
		} else if !claimed {
			h.Conflict(c, dto.ErrCodeDuplicate, "a request with this idempotency key was already processed")
			return
		}
	}

	input := receiving.ReceiveLineInput{
		OrderID:           orderID,
		LineID:            lineID,
		Quantity:          decimal.NewFromFloat(req.Quantity),
		BatchNumber:       req.BatchNumber,
		ManufacturingDate: req.ManufacturingDate,
		ExpiryDate:        req.ExpiryDate,
		Location:          req.Location,
		Notes:             req.Notes,
		OperatorID:        getOperatorID(c),
	}
	if req.ReceivedDate != nil {
		input.ReceivedDate = *req.ReceivedDate
	}

	result, err := h.coordinator.ReceiveLine(c.Request.Context(), input)
	if err != nil {
		// Nothing committed, so the key is freed for a retry.
		if key != "" {
			if releaseErr := h.idempotency.Release(c.Request.Context(), key); releaseErr != nil {
				h.logger.Warn("failed to release idempotency key",
					zap.String("key", key), zap.Error(releaseErr))
			}
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, ReceiveLineResponse{
		Order: apppurchasing.ToPurchaseOrderResponse(result.Order),
		Batch: BatchInfo{
			ID:                result.Batch.ID,
			BatchNumber:       result.Batch.BatchNumber,
			Quantity:          result.Batch.Quantity,
			UnitCost:          result.Batch.UnitCost,
			SellingPrice:      result.Batch.SellingPrice,
			ReceivedDate:      result.Batch.ReceivedDate,
			ManufacturingDate: result.Batch.ManufacturingDate,
			ExpiryDate:        result.Batch.ExpiryDate,
			Location:          result.Record.Location,
		},
		OrderCompleted: result.OrderCompleted,
	})
}
