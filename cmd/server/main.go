package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appinventory "github.com/storeops/backoffice/internal/application/inventory"
	apppayment "github.com/storeops/backoffice/internal/application/payment"
	apppurchasing "github.com/storeops/backoffice/internal/application/purchasing"
	"github.com/storeops/backoffice/internal/application/receiving"
	"github.com/storeops/backoffice/internal/domain/inventory"
	"github.com/storeops/backoffice/internal/infrastructure/config"
	"github.com/storeops/backoffice/internal/infrastructure/event"
	"github.com/storeops/backoffice/internal/infrastructure/idempotency"
	"github.com/storeops/backoffice/internal/infrastructure/logger"
	"github.com/storeops/backoffice/internal/infrastructure/persistence"
	"github.com/storeops/backoffice/internal/interfaces/http/handler"
	"github.com/storeops/backoffice/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	var idemStore idempotency.Store
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("redis unreachable, idempotency protection disabled", zap.Error(err))
		idemStore = idempotency.NoOpStore{}
	} else {
		idemStore = idempotency.NewRedisStore(redisClient, 0)
	}

	bus := event.NewInMemoryEventBus(log)

	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	recordRepo := persistence.NewGormInventoryRecordRepository(db.DB)
	movementRepo := persistence.NewGormMovementEntryRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	orderService := apppurchasing.NewPurchaseOrderService(orderRepo, log)
	orderService.SetEventPublisher(bus)

	coordinator := receiving.NewCoordinator(
		persistence.NewGormTransactionScope(db.DB),
		inventory.NewBatchFactory(),
		log,
	)
	coordinator.SetEventPublisher(bus)

	ledgerService := appinventory.NewLedgerService(recordRepo, movementRepo, batchRepo, log)

	reconciler := apppayment.NewReconciler(paymentRepo, orderRepo, log)
	reconciler.SetEventPublisher(bus)

	bus.Subscribe(apppurchasing.NewPaymentRefundedHandler(orderRepo, log))

	engine := router.New(cfg, log, router.Handlers{
		Health:        handler.NewHealthHandler(db, version),
		PurchaseOrder: handler.NewPurchaseOrderHandler(orderService),
		Receiving:     handler.NewReceivingHandler(coordinator, idemStore, log),
		Inventory:     handler.NewInventoryHandler(ledgerService),
		Payment:       handler.NewPaymentHandler(reconciler),
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", cfg.Server.Addr()),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", version))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}
