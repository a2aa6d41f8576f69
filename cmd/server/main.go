package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/shop/storefront/internal/application/cart"
	catalogapp "github.com/shop/storefront/internal/application/catalog"
	contentapp "github.com/shop/storefront/internal/application/content"
	dashboardapp "github.com/shop/storefront/internal/application/dashboard"
	identityapp "github.com/shop/storefront/internal/application/identity"
	inventoryapp "github.com/shop/storefront/internal/application/inventory"
	orderapp "github.com/shop/storefront/internal/application/order"
	appshared "github.com/shop/storefront/internal/application/shared"
	"github.com/shop/storefront/internal/infrastructure/auth"
	"github.com/shop/storefront/internal/infrastructure/cache"
	"github.com/shop/storefront/internal/infrastructure/config"
	"github.com/shop/storefront/internal/infrastructure/event"
	"github.com/shop/storefront/internal/infrastructure/logger"
	"github.com/shop/storefront/internal/infrastructure/mail"
	"github.com/shop/storefront/internal/infrastructure/persistence"
	"github.com/shop/storefront/internal/infrastructure/storage"
	"github.com/shop/storefront/internal/infrastructure/telemetry"
	"github.com/shop/storefront/internal/interfaces/http/handler"
	"github.com/shop/storefront/internal/interfaces/http/middleware"
	"github.com/shop/storefront/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/shop/storefront/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Storefront API
//	@version		1.0
//	@description	Online shop with a session cart, checkout and an admin back office
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/shop/storefront
//	@contact.email	support@shop.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

const (
	serviceVersion  = telemetry.ServiceVersion
	shutdownTimeout = 30 * time.Second
	requestTimeout  = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.FromConfig(cfg.Log, cfg.App)
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, telemetry.FromConfig(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	log = providers.BridgeLogger(log, logger.Level(logCfg))

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.PyroscopeAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", zap.Error(err))
	}
	profiling := profiler != nil && profiler.IsEnabled()
	if profiling {
		providers.EnableSpanProfiles()
	}

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	poolStats, err := telemetry.InstrumentDB(db.DB, providers, telemetry.DBConfig{
		Tracing:         cfg.Telemetry.DBTraceEnabled,
		Metrics:         providers.MetricsEnabled(),
		DBSystem:        db.Driver,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		PoolInterval:    cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		log.Warn("Database instrumentation disabled", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", db.Driver))

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	newsRepo := persistence.NewGormNewsRepository(db.DB)
	sliderRepo := persistence.NewGormSliderRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Sessions: carts and token revocations share the Redis backend
	sessions, err := cache.NewFactory(cfg.Redis, cfg.Cart.TTL, cache.WithLogger(log)).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create session backend", zap.Error(err))
	}
	defer func() {
		if err := sessions.Close(); err != nil {
			log.Error("Error closing session backend", zap.Error(err))
		}
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if sessions.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(sessions.Client)
	}

	images, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	var notifier contentapp.ContactNotifier
	if cfg.Mail.Enabled {
		smtp, err := mail.NewSMTPNotifier(cfg.Mail, log)
		if err != nil {
			log.Fatal("Invalid mail configuration", zap.Error(err))
		}
		notifier = smtp
	}

	// Domain events
	bus := event.NewBus(event.BusConfig{Workers: 4, Buffer: 256}, log)
	limits := limitsFrom(cfg.Catalog)

	bus.Subscribe(inventoryapp.NewLowStockHandler(productRepo, limits.LowStockThreshold, log).
		WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log)))

	storeMetrics, err := telemetry.NewStoreMetrics(telemetry.StoreMetricsConfig{
		Meter:             providers.Meter("storefront"),
		Logger:            log,
		Products:          productRepo,
		LowStockThreshold: limits.LowStockThreshold,
	})
	if err != nil {
		log.Fatal("Failed to create store metrics", zap.Error(err))
	}
	bus.Subscribe(storeMetrics)

	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	storefrontService := catalogapp.NewStorefrontService(productRepo, categoryRepo, sliderRepo, limits)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, images, limits, log)
	supplierService := catalogapp.NewSupplierService(supplierRepo, productRepo, limits, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, images, bus, limits, log)
	ledgerService := inventoryapp.NewLedgerService(txScope, receiptRepo, supplierRepo, bus, limits, log)
	cartService := cartapp.NewService(sessions.Carts, productRepo, cfg.Cart.MaxLineQuantity, log)
	checkoutService := orderapp.NewCheckoutService(txScope, sessions.Carts, productRepo, userRepo, bus, log).
		WithObserver(storeMetrics)
	orderService := orderapp.NewOrderService(txScope, orderRepo, bus, limits, log)
	newsService := contentapp.NewNewsService(newsRepo, images, limits, log)
	sliderService := contentapp.NewSliderService(sliderRepo, images, log)
	contactService := contentapp.NewContactService(contactRepo, notifier, limits, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, bus, log)
	userService := identityapp.NewUserService(userRepo, limits, log)
	dashboardService := dashboardapp.NewService(productRepo, categoryRepo, orderRepo, userRepo, contactRepo, limits, log)

	if err := identityapp.NewSeeder(userRepo, log).EnsureAdmin(ctx, identityapp.SeedAdmin{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}); err != nil {
		log.Fatal("Failed to seed administrator", zap.Error(err))
	}

	metricsCtx, stopMetrics := context.WithCancel(ctx)
	defer stopMetrics()
	if poolStats != nil {
		poolStats.Start(metricsCtx)
	}
	storeMetrics.StartPeriodicCollection(metricsCtx, cfg.Telemetry.MetricsInterval)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     providers.TracingEnabled(),
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(providers))
	if profiling {
		engine.Use(middleware.Profiling())
	}
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize, cfg.HTTP.MaxUploadSize))

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
	}
	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if sessions.Client != nil {
		checks["redis"] = func(ctx context.Context) error { return sessions.Client.Ping(ctx).Err() }
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, serviceVersion, checks)
	engine.GET("/health", systemHandler.Health)

	requireAuth := middleware.JWTAuth(jwtService, blacklist, log)
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger, requireAuth),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	engine.GET("/images/*path", handler.NewImageHandler(images).Serve)

	handlers := router.Handlers{
		System:     systemHandler,
		Storefront: handler.NewStorefrontHandler(storefrontService, newsService, contactService),
		Category:   handler.NewCategoryHandler(categoryService),
		Cart:       handler.NewCartHandler(cartService),
		Order:      handler.NewOrderHandler(checkoutService, orderService),
		Auth:       handler.NewAuthHandler(authService, cfg.Cookie),
		Product:    handler.NewProductHandler(productService),
		Supplier:   handler.NewSupplierHandler(supplierService),
		Inventory:  handler.NewInventoryHandler(ledgerService),
		Content:    handler.NewContentHandler(newsService, sliderService, contactService),
		User:       handler.NewUserHandler(userService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
	}
	guards := router.Guards{
		CartSession:   middleware.CartSession(cfg.Cookie, int(cfg.Cart.TTL.Seconds())),
		OptionalAuth:  middleware.OptionalJWTAuth(jwtService, blacklist, log),
		RequireAuth:   requireAuth,
		AuthRateLimit: middleware.AuthRateLimit(authLimiter),
		StoreManager:  middleware.RequireStoreManager(),
		Admin:         middleware.RequireAdmin(),
		Annotate:      middleware.TracingAttributeInjector(),
	}

	router.NewRouter(engine).
		Use(middleware.Timeout(requestTimeout)).
		RegisterGroups(router.API(handlers, guards)...).
		Setup()

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

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopMetrics()
	storeMetrics.Stop()
	if poolStats != nil {
		poolStats.Stop()
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if profiler != nil {
		_ = profiler.Stop()
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// limitsFrom overlays configured sizes on the defaults
func limitsFrom(cfg config.CatalogConfig) appshared.Limits {
	limits := appshared.DefaultLimits()
	set := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	set(&limits.AdminPageSize, cfg.AdminPageSize)
	set(&limits.StorefrontPageSize, cfg.StorefrontPageSize)
	set(&limits.NewsPageSize, cfg.NewsPageSize)
	set(&limits.HomeSectionSize, cfg.HomeSectionSize)
	set(&limits.RelatedProducts, cfg.RelatedProducts)
	set(&limits.RelatedNews, cfg.RelatedNews)
	set(&limits.LowStockThreshold, cfg.LowStockThreshold)
	set(&limits.DashboardRecent, cfg.DashboardListSize)
	return limits
}
