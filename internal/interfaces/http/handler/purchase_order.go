package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppurchasing "github.com/storeops/backoffice/internal/application/purchasing"
)

// PurchaseOrderHandler exposes the purchase order workflow over HTTP
type PurchaseOrderHandler struct {
	BaseHandler
	service *apppurchasing.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a PurchaseOrderHandler
func NewPurchaseOrderHandler(service *apppurchasing.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{service: service}
}

// CreatePurchaseOrderRequest is the create payload
type CreatePurchaseOrderRequest struct {
	SupplierID           string                           `json:"supplier_id" binding:"required,uuid"`
	SupplierName         string                           `json:"supplier_name" binding:"required,max=255"`
	ExpectedDeliveryDate *time.Time                       `json:"expected_delivery_date"`
	Notes                string                           `json:"notes" binding:"max=1000"`
	ShippingFee          float64                          `json:"shipping_fee" binding:"gte=0"`
	DiscountPercent      float64                          `json:"discount_percent" binding:"gte=0,lte=100"`
	Lines                []CreatePurchaseOrderLineRequest `json:"lines" binding:"dive"`
}

// CreatePurchaseOrderLineRequest is one line in the create payload
type CreatePurchaseOrderLineRequest struct {
	ProductID       string  `json:"product_id" binding:"required,uuid"`
	ProductName     string  `json:"product_name" binding:"required,max=255"`
	SKU             string  `json:"sku" binding:"max=100"`
	OrderedQuantity float64 `json:"ordered_quantity" binding:"required,gt=0"`
	UnitCost        float64 `json:"unit_cost" binding:"gte=0"`
}

// UpdatePurchaseOrderRequest is the header update payload
type UpdatePurchaseOrderRequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	Notes                *string    `json:"notes" binding:"omitempty,max=1000"`
	ShippingFee          *float64   `json:"shipping_fee" binding:"omitempty,gte=0"`
	DiscountPercent      *float64   `json:"discount_percent" binding:"omitempty,gte=0,lte=100"`
}

// UpdateLineRequest is the line update payload
type UpdateLineRequest struct {
	OrderedQuantity float64 `json:"ordered_quantity" binding:"required,gt=0"`
	UnitCost        float64 `json:"unit_cost" binding:"gte=0"`
}

// CancelRequest carries a cancellation reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Create handles POST /purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplierID, _ := uuid.Parse(req.SupplierID)
	input := apppurchasing.CreatePurchaseOrderInput{
		SupplierID:           supplierID,
		SupplierName:         req.SupplierName,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		ShippingFee:          decimal.NewFromFloat(req.ShippingFee),
		DiscountPercent:      decimal.NewFromFloat(req.DiscountPercent),
	}
	for _, line := range req.Lines {
		productID, _ := uuid.Parse(line.ProductID)
		input.Lines = append(input.Lines, apppurchasing.CreateLineInput{
			ProductID:       productID,
			ProductName:     line.ProductName,
			SKU:             line.SKU,
			OrderedQuantity: decimal.NewFromFloat(line.OrderedQuantity),
			UnitCost:        decimal.NewFromFloat(line.UnitCost),
		})
	}

	resp, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	page, err := h.service.List(c.Request.Context(), c.Query("status"), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.Limit())
}

// Update handles PATCH /purchase-orders/:id
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	var req UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	input := apppurchasing.UpdatePurchaseOrderInput{
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	}
	if req.ShippingFee != nil {
		fee := decimal.NewFromFloat(*req.ShippingFee)
		input.ShippingFee = &fee
	}
	if req.DiscountPercent != nil {
		discount := decimal.NewFromFloat(*req.DiscountPercent)
		input.DiscountPercent = &discount
	}
	resp, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddLine handles POST /purchase-orders/:id/lines
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	var req CreatePurchaseOrderLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	productID, _ := uuid.Parse(req.ProductID)
	resp, err := h.service.AddLine(c.Request.Context(), id, apppurchasing.CreateLineInput{
		ProductID:       productID,
		ProductName:     req.ProductName,
		SKU:             req.SKU,
		OrderedQuantity: decimal.NewFromFloat(req.OrderedQuantity),
		UnitCost:        decimal.NewFromFloat(req.UnitCost),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLine handles PUT /purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "invalid line id")
		return
	}
	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.service.UpdateLine(c.Request.Context(), id, lineID,
		decimal.NewFromFloat(req.OrderedQuantity), decimal.NewFromFloat(req.UnitCost))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveLine handles DELETE /purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		h.BadRequest(c, "invalid line id")
		return
	}
	resp, err := h.service.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Approve handles POST /purchase-orders/:id/approve
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	resp, err := h.service.Approve(c.Request.Context(), id, getOperatorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
