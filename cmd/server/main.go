package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbona24/firstgiwa-erp-sub006/internal/application/approval"
	auditapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/audit"
	identityapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/identity"
	partnerapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/partner"
	apppolicy "github.com/agbona24/firstgiwa-erp-sub006/internal/application/policy"
	tradeapp "github.com/agbona24/firstgiwa-erp-sub006/internal/application/trade"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/domain/audit"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/auth"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/cache"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/config"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/event"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/logger"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/migration"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/persistence"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/infrastructure/telemetry"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/handler"
	"github.com/agbona24/firstgiwa-erp-sub006/internal/interfaces/http/router"
	"github.com/agbona24/firstgiwa-erp-sub006/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Environment:       cfg.App.Env,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		ProfileSpans:      cfg.Telemetry.Profiling.Enabled && cfg.Telemetry.Profiling.SpanProfiles,
	}

	// The OTLP log bridge needs a logger to report its own failures, so the
	// console logger is rebuilt once the bridge exists.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	if logProvider.IsEnabled() {
		if log, err = logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting credit and approval service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Telemetry.Profiling.Enabled,
		ServerAddress:        cfg.Telemetry.Profiling.ServerAddress,
		ApplicationName:      cfg.Telemetry.ServiceName,
		Environment:          cfg.App.Env,
		BasicAuthUser:        cfg.Telemetry.Profiling.BasicAuthUser,
		BasicAuthPassword:    cfg.Telemetry.Profiling.BasicAuthPassword,
		ProfileTypes:         cfg.Telemetry.Profiling.ProfileTypes,
		MutexProfileFraction: cfg.Telemetry.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Telemetry.Profiling.BlockProfileRate,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	ruleMetrics, err := telemetry.NewRuleMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		log.Fatal("Failed to register rule metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormLevel), 200*time.Millisecond)),
		persistence.WithTracing(cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if sqlDB, err := db.DB.DB(); err == nil {
		if err := telemetry.RegisterDBPoolMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName), sqlDB); err != nil {
			log.Warn("Failed to register pool metrics", zap.Error(err))
		}
		if cfg.Database.AutoMigrate {
			runMigrations(sqlDB, cfg, log)
		}
	}

	policyCache, err := cache.NewPolicyCacheFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to create policy cache", zap.Error(err))
	}
	policies := apppolicy.NewProvider(cfg.Policy, apppolicy.WithCache(policyCache, cfg.Policy.CacheTTL))

	trail := persistence.NewAuditTrail(audit.NewMirror(), persistence.WithAuditRecorder(ruleMetrics))
	customerRepo := persistence.NewGormCustomerRepository(db.DB, trail)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB, trail)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB, trail)
	approvalRepo := persistence.NewGormApprovalRequestRepository(db.DB, trail)
	userRepo := persistence.NewGormUserRepository(db.DB, trail)
	roleRepo := persistence.NewGormRoleRepository(db.DB, trail)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB, trail)

	eventBus := event.NewInMemoryEventBus(log)
	creditWarnings := partnerapp.NewCreditWarningHandler(policies, ruleMetrics)
	eventBus.Subscribe(creditWarnings, creditWarnings.EventTypes()...)

	customerService := partnerapp.NewCustomerService(customerRepo, scope, policies)
	customerService.SetEventPublisher(eventBus)
	customerService.SetRuleRecorder(ruleMetrics)

	salesOrderService := tradeapp.NewSalesOrderService(salesOrderRepo, scope, policies)
	salesOrderService.SetEventPublisher(eventBus)
	salesOrderService.SetRuleRecorder(ruleMetrics)

	purchaseOrderService := tradeapp.NewPurchaseOrderService(purchaseOrderRepo, scope, policies)
	purchaseOrderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetRuleRecorder(ruleMetrics)

	approvalService := approval.NewApprovalService(approvalRepo, approval.NewOrderCreators(salesOrderRepo, purchaseOrderRepo), policies)
	approvalService.SetEventPublisher(eventBus)
	approvalService.SetRuleRecorder(ruleMetrics)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, policies)
	userService.SetRuleRecorder(ruleMetrics)

	auditService := auditapp.NewLogService(auditRepo)

	healthChecks := map[string]handler.HealthCheck{"database": db.Ping}
	if pinger, ok := policyCache.(interface{ Ping(context.Context) error }); ok {
		healthChecks["redis"] = pinger.Ping
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.New(router.Config{
		ServiceName:      cfg.Telemetry.ServiceName,
		Logger:           log,
		Tokens:           jwtService,
		TracingEnabled:   tracerProvider.IsEnabled(),
		ProfilingEnabled: profiler.IsEnabled(),
		TrustedProxies:   cfg.HTTP.TrustedProxies,
		Health:           handler.NewHealthHandler(healthChecks),
		Auth:             handler.NewAuthHandler(authService),
		Users:            handler.NewUserHandler(userService),
		Customers:        handler.NewCustomerHandler(customerService),
		SalesOrders:      handler.NewSalesOrderHandler(salesOrderService),
		PurchaseOrders:   handler.NewPurchaseOrderHandler(purchaseOrderService),
		Approvals:        handler.NewApprovalHandler(approvalService),
		AuditLogs:        handler.NewAuditLogHandler(auditService),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	_ = eventBus.Stop(shutdownCtx)
	if closer, ok := policyCache.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Warn("Error closing policy cache", zap.Error(err))
		}
	}
	_ = meterProvider.Shutdown(shutdownCtx)
	_ = tracerProvider.Shutdown(shutdownCtx)
	_ = logProvider.Shutdown(shutdownCtx)
	_ = profiler.Stop()

	log.Info("Server exited gracefully")
}

// runMigrations applies pending migrations before the server accepts traffic.
// A configured migrations path wins over the embedded files.
func runMigrations(sqlDB *sql.DB, cfg *config.Config, log *zap.Logger) {
	var (
		m   *migration.Migrator
		err error
	)
	if cfg.Database.MigrationsPath != "" {
		m, err = migration.NewFromPath(cfg.Database.DSN(), cfg.Database.MigrationsPath, log)
	} else {
		m, err = migration.NewFromFS(sqlDB, migrations.FS, log)
	}
	if err != nil {
		log.Fatal("Failed to prepare migrations", zap.Error(err))
	}
	if err := m.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if cfg.Database.MigrationsPath != "" {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}
}
