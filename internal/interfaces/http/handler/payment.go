package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apppayment "github.com/storeops/backoffice/internal/application/payment"
	"github.com/storeops/backoffice/internal/domain/payment"
)

// PaymentHandler exposes payment recording and reconciliation over HTTP
type PaymentHandler struct {
	BaseHandler
	reconciler *apppayment.Reconciler
}

// NewPaymentHandler creates a PaymentHandler
func NewPaymentHandler(reconciler *apppayment.Reconciler) *PaymentHandler {
	return &PaymentHandler{reconciler: reconciler}
}

// RecordPaymentRequest is the create payload
type RecordPaymentRequest struct {
	DocumentType string  `json:"document_type" binding:"required,oneof=ORDER PURCHASE_ORDER"`
	DocumentID   string  `json:"document_id" binding:"required,uuid"`
	Amount       float64 `json:"amount" binding:"required,gt=0"`
	Method       string  `json:"method" binding:"required,oneof=BANK_TRANSFER CASH CHECK"`
	Note         string  `json:"note" binding:"max=500"`

	// Defaults to the time of recording when omitted.
	PaymentDate *time.Time `json:"payment_date"`
}

// UpdatePaymentRequest is the pending payment edit payload
type UpdatePaymentRequest struct {
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	Method      string     `json:"method" binding:"required,oneof=BANK_TRANSFER CASH CHECK"`
	Note        string     `json:"note" binding:"max=500"`
	PaymentDate *time.Time `json:"payment_date"`
}

// PaymentReasonRequest carries a cancellation or refund reason
type PaymentReasonRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// Record handles POST /payments
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	documentID, _ := uuid.Parse(req.DocumentID)

	resp, err := h.reconciler.RecordPayment(c.Request.Context(), apppayment.RecordPaymentInput{
		DocumentType: req.DocumentType,
		DocumentID:   documentID,
		Amount:       decimal.NewFromFloat(req.Amount),
		Method:       req.Method,
		Note:         req.Note,
		PaymentDate:  req.PaymentDate,
		CreatedBy:    getOperatorID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	resp, err := h.reconciler.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}
	page, err := h.reconciler.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, filter.Page, filter.Limit())
}

// Update handles PATCH /payments/:id
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.reconciler.Update(c.Request.Context(), id, apppayment.UpdatePaymentInput{
		Amount:      decimal.NewFromFloat(req.Amount),
		Method:      req.Method,
		Note:        req.Note,
		PaymentDate: req.PaymentDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	if err := h.reconciler.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Complete handles POST /payments/:id/complete
func (h *PaymentHandler) Complete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	resp, err := h.reconciler.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /payments/:id/cancel
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	var req PaymentReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.reconciler.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refund handles POST /payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid payment id")
		return
	}
	var req PaymentReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	resp, err := h.reconciler.Refund(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Reconcile handles GET /purchase-orders/:id/reconciliation
func (h *PaymentHandler) Reconcile(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid purchase order id")
		return
	}
	result, err := h.reconciler.Reconcile(c.Request.Context(),
		payment.DocumentRef{Type: payment.DocumentTypePurchaseOrder, ID: id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// BalanceRequest identifies the document to reconcile
type BalanceRequest struct {
	DocumentType string `form:"document_type" binding:"required,oneof=ORDER PURCHASE_ORDER"`
	DocumentID   string `form:"document_id" binding:"required,uuid"`
}

// Balance handles GET /payments/balance
func (h *PaymentHandler) Balance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	documentID, _ := uuid.Parse(req.DocumentID)

	result, err := h.reconciler.Reconcile(c.Request.Context(),
		payment.DocumentRef{Type: payment.DocumentType(req.DocumentType), ID: documentID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
