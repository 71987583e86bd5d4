package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/storeops/backoffice/internal/application/inventory"
	"github.com/storeops/backoffice/internal/domain/inventory"
)

// InventoryHandler exposes the stock projection and the movement ledger
type InventoryHandler struct {
	BaseHandler
	service *appinventory.LedgerService
}

// NewInventoryHandler creates an InventoryHandler
func NewInventoryHandler(service *appinventory.LedgerService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func parseProductIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRecord handles GET /inventory/:productId
func (h *InventoryHandler) GetRecord(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product id")
		return
	}
	stock, err := h.service.GetProductStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// ListRecords handles GET /inventory
func (h *InventoryHandler) ListRecords(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	page, err := h.service.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.Limit())
}

// ListMovements handles GET /inventory/:productId/movements
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product id")
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	page, err := h.service.ListMovements(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.Limit())
}

// ListBatches handles GET /inventory/:productId/batches
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product id")
		return
	}
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	batches, err := h.service.ListBatches(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// MovementsByReferenceRequest filters ledger entries by originating document
type MovementsByReferenceRequest struct {
	ReferenceType string `form:"reference_type" binding:"required,oneof=PURCHASE_ORDER STOCK_TAKE MANUAL"`
	ReferenceID   string `form:"reference_id" binding:"required,uuid"`
}

// ListMovementsByReference handles GET /movements
func (h *InventoryHandler) ListMovementsByReference(c *gin.Context) {
	var req MovementsByReferenceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	refID, _ := uuid.Parse(req.ReferenceID)

	entries, err := h.service.ListMovementsByReference(c.Request.Context(),
		inventory.ReferenceType(req.ReferenceType), refID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// CheckConsistency handles GET /inventory/:productId/consistency
func (h *InventoryHandler) CheckConsistency(c *gin.Context) {
	productID, ok := parseProductIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product id")
		return
	}
	report, err := h.service.CheckConsistency(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
