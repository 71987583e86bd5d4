package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backoffice/internal/infrastructure/config"
	"github.com/storeops/backoffice/internal/interfaces/http/handler"
	"github.com/storeops/backoffice/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Health        *handler.HealthHandler
	PurchaseOrder *handler.PurchaseOrderHandler
	Receiving     *handler.ReceivingHandler
	Inventory     *handler.InventoryHandler
	Payment       *handler.PaymentHandler
}

// New builds the gin engine with all middleware and routes mounted
func New(cfg *config.Config, logger *zap.Logger, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)

	engine.GET("/health", h.Health.Check)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(cfg.JWT.Secret))

	orders := api.Group("/purchase-orders")
	{
		orders.POST("", h.PurchaseOrder.Create)
		orders.GET("", h.PurchaseOrder.List)
		orders.GET("/:id", h.PurchaseOrder.Get)
		orders.PATCH("/:id", h.PurchaseOrder.Update)
		orders.DELETE("/:id", h.PurchaseOrder.Delete)
		orders.POST("/:id/approve", h.PurchaseOrder.Approve)
		orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)
		orders.POST("/:id/lines", h.PurchaseOrder.AddLine)
		orders.PUT("/:id/lines/:lineId", h.PurchaseOrder.UpdateLine)
		orders.DELETE("/:id/lines/:lineId", h.PurchaseOrder.RemoveLine)
		orders.POST("/:id/lines/:lineId/receive", h.Receiving.ReceiveLine)
		orders.GET("/:id/reconciliation", h.Payment.Reconcile)
	}

	inventory := api.Group("/inventory")
	{
		inventory.GET("", h.Inventory.ListRecords)
		inventory.GET("/:productId", h.Inventory.GetRecord)
		inventory.GET("/:productId/movements", h.Inventory.ListMovements)
		inventory.GET("/:productId/batches", h.Inventory.ListBatches)
		inventory.GET("/:productId/consistency", h.Inventory.CheckConsistency)
	}

	api.GET("/movements", h.Inventory.ListMovementsByReference)

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payment.Record)
		payments.GET("", h.Payment.List)
		payments.GET("/balance", h.Payment.Balance)
		payments.GET("/:id", h.Payment.Get)
		payments.PATCH("/:id", h.Payment.Update)
		payments.DELETE("/:id", h.Payment.Delete)
		payments.POST("/:id/complete", h.Payment.Complete)
		payments.POST("/:id/cancel", h.Payment.Cancel)
		payments.POST("/:id/refund", h.Payment.Refund)
	}

	return engine
}
