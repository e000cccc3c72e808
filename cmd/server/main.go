package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clientapp "github.com/barberflow/backend/internal/application/client"
	ledgerapp "github.com/barberflow/backend/internal/application/ledger"
	salesapp "github.com/barberflow/backend/internal/application/sales"
	schedulingapp "github.com/barberflow/backend/internal/application/scheduling"
	"github.com/barberflow/backend/internal/infrastructure/config"
	"github.com/barberflow/backend/internal/infrastructure/logger"
	"github.com/barberflow/backend/internal/infrastructure/persistence"
	"github.com/barberflow/backend/internal/interfaces/http/handler"
	"github.com/barberflow/backend/internal/interfaces/http/middleware"
	"github.com/barberflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BarberFlow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	creditSaleRepo := persistence.NewGormCreditSaleRepository(db.DB)
	appointmentRepo := persistence.NewGormAppointmentRepository(db.DB)
	serviceSaleRepo := persistence.NewGormServiceSaleRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)

	// Initialize application services
	ledgerService := ledgerapp.NewLedgerService(creditSaleRepo, clientRepo)
	schedulingService := schedulingapp.NewSchedulingService(appointmentRepo, clientRepo)
	salesService := salesapp.NewSalesService(serviceSaleRepo, creditSaleRepo, clientRepo)
	clientService := clientapp.NewClientService(clientRepo)

	// Initialize HTTP handlers
	ledgerHandler := handler.NewLedgerHandler(ledgerService)
	appointmentHandler := handler.NewAppointmentHandler(schedulingService)
	saleHandler := handler.NewSaleHandler(salesService)
	clientHandler := handler.NewClientHandler(clientService)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Ledger domain (credit sales and installments)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")
	ledgerRoutes.POST("/sales", ledgerHandler.CreateSale)
	ledgerRoutes.GET("/sales", ledgerHandler.ListSales)
	ledgerRoutes.GET("/sales/:id", ledgerHandler.GetSale)
	ledgerRoutes.POST("/installments/:id/pay", ledgerHandler.PayInstallment)
	ledgerRoutes.POST("/refresh", ledgerHandler.RefreshStatuses)
	ledgerRoutes.GET("/summary", ledgerHandler.GetSummary)

	// Scheduling domain (appointments)
	appointmentRoutes := router.NewDomainGroup("scheduling", "/appointments")
	appointmentRoutes.POST("", appointmentHandler.Schedule)
	appointmentRoutes.GET("", appointmentHandler.List)
	appointmentRoutes.GET("/slots", appointmentHandler.AvailableSlots)
	appointmentRoutes.GET("/:id", appointmentHandler.GetByID)
	appointmentRoutes.POST("/:id/complete", appointmentHandler.Complete)
	appointmentRoutes.POST("/:id/cancel", appointmentHandler.Cancel)

	// Sales domain (settled service sales)
	saleRoutes := router.NewDomainGroup("sales", "/sales")
	saleRoutes.POST("", saleHandler.Register)
	saleRoutes.GET("", saleHandler.List)
	saleRoutes.GET("/summary", saleHandler.RevenueSummary)
	saleRoutes.GET("/:id", saleHandler.GetByID)

	// Client domain
	clientRoutes := router.NewDomainGroup("client", "/clients")
	clientRoutes.POST("", clientHandler.Create)
	clientRoutes.GET("", clientHandler.List)
	clientRoutes.GET("/:id", clientHandler.GetByID)
	clientRoutes.PUT("/:id", clientHandler.Update)
	clientRoutes.DELETE("/:id", clientHandler.Deactivate)

	// Register all domain groups
	r.Register(ledgerRoutes).
		Register(appointmentRoutes).
		Register(saleRoutes).
		Register(clientRoutes)

	// Setup routes
	r.Setup()

	// Background overdue sweep (if enabled)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	if cfg.Ledger.RefreshEnabled {
		go runOverdueSweep(sweepCtx, ledgerService, cfg.Ledger.RefreshInterval, log)
		log.Info("Overdue status sweep enabled",
			zap.Duration("interval", cfg.Ledger.RefreshInterval),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runOverdueSweep periodically re-derives credit sale statuses so pending
// installments roll over to overdue without waiting for a manual refresh.
func runOverdueSweep(ctx context.Context, ledgerService *ledgerapp.LedgerService, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := ledgerService.RefreshAllStatuses(ctx)
			if err != nil {
				log.Error("Overdue status sweep failed", zap.Error(err))
				continue
			}
			if result.Updated > 0 {
				log.Info("Overdue status sweep finished",
					zap.Int("scanned", result.Scanned),
					zap.Int("updated", result.Updated),
				)
			}
		}
	}
}
