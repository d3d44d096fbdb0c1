package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strayline/casevault/internal/bootstrap"
	"github.com/strayline/casevault/internal/catalog"
	"github.com/strayline/casevault/internal/config"
	"github.com/strayline/casevault/internal/database"
	"github.com/strayline/casevault/internal/discount"
	"github.com/strayline/casevault/internal/eventlog"
	"github.com/strayline/casevault/internal/handler"
	"github.com/strayline/casevault/internal/inventory"
	"github.com/strayline/casevault/internal/ledger"
	"github.com/strayline/casevault/internal/opening"
	"github.com/strayline/casevault/internal/referral"
	"github.com/strayline/casevault/internal/scheduler"
	"github.com/strayline/casevault/internal/server"
	"github.com/strayline/casevault/internal/session"
	"github.com/strayline/casevault/internal/stats"
	"github.com/strayline/casevault/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	handler.InitValidator()

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), config.DefaultDBMaxConns, config.DefaultDBMaxIdleTime, config.DefaultDBMaxLifetime)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := bootstrap.InitializeRepositories(dbPool)

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}

	// Commission collection is optional; without a referral endpoint spends
	// simply carry no commission
	var commission ledger.CommissionApplier = referral.Noop{}
	if cfg.CommissionServiceURL != "" {
		commission = referral.NewClient(cfg.CommissionServiceURL)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load case catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}

	ledgerSvc := ledger.NewService(repos.Ledger, commission)
	inventorySvc := inventory.NewService(repos.Inventory, cfg.InventoryCapacity)
	statsSvc := stats.NewService(repos.Stats)
	openingSvc := opening.NewService(cat, repos.Users, ledgerSvc, inventorySvc, statsSvc, eventBus)
	discountSvc := discount.NewService(repos.Users, ledgerSvc)

	// Audit trail: business events land in the event_log table; a scheduled
	// job purges rows past retention
	auditSvc := eventlog.NewService(repos.EventLog)
	auditSvc.Subscribe(eventBus)

	workerPool := worker.NewPool(2, 16)
	workerPool.Start()
	sched := scheduler.New(workerPool)
	sched.Schedule(cfg.EventLogCleanupEvery, eventlog.NewCleanupJob(auditSvc, cfg.EventLogRetentionDays))

	// Without an external session service the API key doubles as the static
	// session token
	var sessions session.Validator = session.NewStaticValidator(cfg.APIKey)
	if cfg.SessionServiceURL != "" {
		sessions = session.NewHTTPValidator(cfg.SessionServiceURL)
	}
	csrf := session.NewCSRFValidator(cfg.CSRFSecret)

	actions := handler.NewActionHandler(openingSvc, discountSvc, sessions, csrf)

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RateLimiter:    server.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax, cfg.RateLimitSweepEvery),
		DBPool:         dbPool,
		Actions:        actions,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server exited unexpectedly", "error", err)
		os.Exit(1)
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		OpeningService:     openingSvc,
		Scheduler:          sched,
		WorkerPool:         workerPool,
		ResilientPublisher: publisher,
	})
}
