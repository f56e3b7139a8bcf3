package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/invoicehub/backend/internal/application/billing"
	catalogapp "github.com/invoicehub/backend/internal/application/catalog"
	orgapp "github.com/invoicehub/backend/internal/application/organization"
	partnerapp "github.com/invoicehub/backend/internal/application/partner"
	reportapp "github.com/invoicehub/backend/internal/application/report"
	"github.com/invoicehub/backend/internal/domain/billing"
	"github.com/invoicehub/backend/internal/domain/catalog"
	"github.com/invoicehub/backend/internal/domain/organization"
	"github.com/invoicehub/backend/internal/domain/partner"
	"github.com/invoicehub/backend/internal/infrastructure/auth"
	"github.com/invoicehub/backend/internal/infrastructure/cache"
	"github.com/invoicehub/backend/internal/infrastructure/config"
	"github.com/invoicehub/backend/internal/infrastructure/event"
	"github.com/invoicehub/backend/internal/infrastructure/logger"
	"github.com/invoicehub/backend/internal/infrastructure/migration"
	"github.com/invoicehub/backend/internal/infrastructure/persistence"
	"github.com/invoicehub/backend/internal/infrastructure/scheduler"
	"github.com/invoicehub/backend/internal/interfaces/http/handler"
	"github.com/invoicehub/backend/internal/interfaces/http/middleware"
	"github.com/invoicehub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting InvoiceHub server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Initialize database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := prepareSchema(cfg, db, log); err != nil {
		log.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	// Repositories
	orgRepo := persistence.NewGormOrganizationRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	taxRepo := persistence.NewGormTaxRateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	orgService := orgapp.NewOrganizationService(orgRepo)
	clientService := partnerapp.NewClientService(clientRepo, invoiceRepo)
	productService := catalogapp.NewProductService(productRepo)
	taxService := catalogapp.NewTaxRateService(taxRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, orgRepo, clientRepo, productRepo)
	overdueService := billingapp.NewOverdueService(invoiceRepo, orgRepo, log)
	reportService := reportapp.NewReportService(invoiceRepo, clientRepo, orgRepo, log)

	// Dashboard stats cache: Redis when enabled, in-process otherwise
	statsCache, invalidator := newStatsCache(cfg, log)
	reportService.SetCache(statsCache)
	orgService.SetCacheInvalidator(invalidator)

	// Event bus: invoice lifecycle events invalidate the cached dashboard
	bus := event.NewInMemoryBus(log)
	bus.Subscribe(event.StatsInvalidationHandler(invalidator),
		billing.EventTypeInvoiceCreated,
		billing.EventTypeInvoiceSent,
		billing.EventTypeInvoicePaid,
		billing.EventTypeInvoiceOverdue,
		billing.EventTypeInvoiceCancelled,
	)
	invoiceService.SetEventPublisher(bus)
	overdueService.SetEventPublisher(bus)

	// Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, overdueService)
	clientHandler := handler.NewClientHandler(clientService)
	productHandler := handler.NewProductHandler(productService)
	taxHandler := handler.NewTaxRateHandler(taxService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Unauthenticated probes
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// API routes behind JWT auth
	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Logger:     log,
		}))

	// Billing domain
	billingRoutes := router.NewDomainGroup("billing", "/invoices")
	billingRoutes.POST("", invoiceHandler.Create)
	billingRoutes.GET("", invoiceHandler.List)
	billingRoutes.GET("/number/:number", invoiceHandler.GetByNumber)
	billingRoutes.GET("/:id", invoiceHandler.Get)
	billingRoutes.PUT("/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/:id", invoiceHandler.Delete)
	billingRoutes.POST("/:id/items", invoiceHandler.AddItem)
	billingRoutes.PUT("/:id/items/:itemId", invoiceHandler.UpdateItem)
	billingRoutes.DELETE("/:id/items/:itemId", invoiceHandler.RemoveItem)
	billingRoutes.POST("/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/:id/pay", invoiceHandler.MarkPaid)
	billingRoutes.POST("/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.POST("/reconcile-overdue", invoiceHandler.ReconcileOverdue)

	// Partner domain
	partnerRoutes := router.NewDomainGroup("partner", "/clients")
	partnerRoutes.POST("", clientHandler.Create)
	partnerRoutes.GET("", clientHandler.List)
	partnerRoutes.GET("/:id", clientHandler.Get)
	partnerRoutes.PUT("/:id", clientHandler.Update)
	partnerRoutes.DELETE("/:id", clientHandler.Delete)
	partnerRoutes.POST("/:id/deactivate", clientHandler.Deactivate)
	partnerRoutes.GET("/:id/invoices", invoiceHandler.ListByClient)

	// Catalog domain
	productRoutes := router.NewDomainGroup("catalog", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/active", productHandler.ListActive)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.DELETE("/:id", productHandler.Delete)
	productRoutes.POST("/:id/deactivate", productHandler.Deactivate)

	taxRoutes := router.NewDomainGroup("tax", "/tax-rates")
	taxRoutes.POST("", taxHandler.Create)
	taxRoutes.GET("", taxHandler.List)
	taxRoutes.GET("/:id", taxHandler.Get)
	taxRoutes.PUT("/:id", taxHandler.Update)
	taxRoutes.DELETE("/:id", taxHandler.Delete)
	taxRoutes.POST("/:id/set-default", taxHandler.SetDefault)
	taxRoutes.POST("/:id/deactivate", taxHandler.Deactivate)

	// Organization domain: every route acts on the caller's own organization
	orgRoutes := router.NewDomainGroup("organization", "/organization")
	orgRoutes.GET("", orgHandler.Get)
	orgRoutes.PUT("/profile", orgHandler.UpdateProfile)
	orgRoutes.PUT("/settings", orgHandler.UpdateSettings)

	// Report domain
	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/dashboard", reportHandler.Dashboard)
	reportRoutes.GET("/revenue", reportHandler.Revenue)
	reportRoutes.GET("/outstanding", reportHandler.Outstanding)
	reportRoutes.GET("/activity", reportHandler.RecentActivity)
	reportRoutes.GET("/export/csv", reportHandler.ExportCSV)

	r.Register(billingRoutes).
		Register(partnerRoutes).
		Register(productRoutes).
		Register(taxRoutes).
		Register(orgRoutes).
		Register(reportRoutes)

	r.Setup()

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

	// Background overdue reconciliation sweep
	overdueScheduler := scheduler.NewOverdueScheduler(overdueService, log, cfg.Scheduler)
	if err := overdueScheduler.Start(context.Background()); err != nil {
		log.Error("Failed to start overdue scheduler", zap.Error(err))
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := overdueScheduler.Stop(ctx); err != nil {
		log.Warn("Overdue scheduler did not stop cleanly", zap.Error(err))
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// prepareSchema brings the database schema up to date. Postgres runs the
// versioned SQL migrations; sqlite builds its schema through GORM so local
// development needs no migration tooling.
func prepareSchema(cfg *config.Config, db *persistence.Database, log *zap.Logger) error {
	if cfg.Database.Driver == "postgres" {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return err
		}
		migrator, err := migration.New(sqlDB, "migrations", log)
		if err != nil {
			return err
		}
		return migrator.Up()
	}

	return db.DB.AutoMigrate(
		&organization.Organization{},
		&partner.Client{},
		&catalog.Product{},
		&catalog.TaxRate{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
	)
}

// newStatsCache picks the dashboard stats cache backend. A Redis connection
// failure falls back to the in-memory cache rather than blocking startup.
func newStatsCache(cfg *config.Config, log *zap.Logger) (reportapp.StatsCache, event.StatsInvalidator) {
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisStatsCache(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Cache.StatsTTL)
		if err == nil {
			log.Info("Using Redis stats cache",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
			return redisCache, redisCache
		}
		log.Warn("Redis unavailable, falling back to in-memory stats cache", zap.Error(err))
	}

	memCache := cache.NewInMemoryStatsCache(cfg.Cache.StatsTTL)
	return memCache, memCache
}
