package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/agrisupply/backend/internal/application/catalog"
	identityapp "github.com/agrisupply/backend/internal/application/identity"
	partnerapp "github.com/agrisupply/backend/internal/application/partner"
	processapp "github.com/agrisupply/backend/internal/application/process"
	supplyapp "github.com/agrisupply/backend/internal/application/supply"
	"github.com/agrisupply/backend/internal/infrastructure/auth"
	"github.com/agrisupply/backend/internal/infrastructure/cache"
	"github.com/agrisupply/backend/internal/infrastructure/config"
	"github.com/agrisupply/backend/internal/infrastructure/logger"
	"github.com/agrisupply/backend/internal/infrastructure/persistence"
	"github.com/agrisupply/backend/internal/infrastructure/storage"
	"github.com/agrisupply/backend/internal/infrastructure/telemetry"
	"github.com/agrisupply/backend/internal/interfaces/http/handler"
	"github.com/agrisupply/backend/internal/interfaces/http/middleware"
	"github.com/agrisupply/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

//	@title			AgriSupply Backend API
//	@version		1.0
//	@description	Agricultural supply chain backend - supply intake, quality inspection, and production pipeline tracking

//	@contact.name	API Support
//	@contact.url	https://github.com/agrisupply/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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

	log.Info("Starting AgriSupply Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Register database query tracing when enabled
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracingCfg := telemetry.DefaultDBTracingConfig()
		dbTracingCfg.Enabled = true
		dbTracing := telemetry.NewDBTracingPlugin(dbTracingCfg, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Token blacklist backed by Redis; logout and password changes need it
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	idempotencyStore := cache.NewRedisIdempotencyStore(redisClient, "")

	// Object storage for supply documents and signatures. Falls back to a
	// stub when no bucket is configured so local development works without
	// an S3 endpoint.
	var objectStorage supplyapp.ObjectStorageService
	if cfg.Storage.Bucket != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Warn("No storage bucket configured, using stub object storage")
	}

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	qualityParamRepo := persistence.NewGormQualityParameterRepository(db.DB)
	packagingParamRepo := persistence.NewGormPackagingParameterRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	coaRepo := persistence.NewGormCOARepository(db.DB)
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	paymentRepo := persistence.NewGormSupplyPaymentRepository(db.DB)
	lotRunRepo := persistence.NewGormLotRunRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	referenceService := catalogapp.NewReferenceService(productRepo, warehouseRepo, unitRepo, qualityParamRepo, packagingParamRepo, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	coaService := partnerapp.NewCOAService(supplierRepo, coaRepo, objectStorage, log)
	lotRunService := processapp.NewLotRunService(lotRunRepo, log)
	paymentService := supplyapp.NewSupplyPaymentService(paymentRepo, log)
	intakeService := supplyapp.NewSupplyIntakeService(
		supplyRepo,
		paymentRepo,
		lotRunRepo,
		productRepo,
		unitRepo,
		qualityParamRepo,
		packagingParamRepo,
		supplierRepo,
		userRepo,
		objectStorage,
		log,
	)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(referenceService)
	warehouseHandler := handler.NewWarehouseHandler(referenceService)
	unitHandler := handler.NewUnitHandler(referenceService)
	parameterHandler := handler.NewParameterHandler(referenceService)
	supplierHandler := handler.NewSupplierHandler(supplierService, coaService)
	supplyHandler := handler.NewSupplyHandler(intakeService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	lotRunHandler := handler.NewLotRunHandler(lotRunService)

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
	// 4. Tracing - Record request spans (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	// Configure skip paths for public endpoints
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth domain (login, token refresh, logout)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)

	// Identity domain (users)
	identityRoutes := router.NewDomainGroup("identity", "/identity")
	identityRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "identity service ready"})
	})
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/me", userHandler.Me)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id/password", userHandler.ChangePassword)
	identityRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)

	// Catalog domain (products, warehouses, units, inspection parameters)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "catalog service ready"})
	})
	// Product routes
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)
	// Warehouse routes
	catalogRoutes.POST("/warehouses", warehouseHandler.Create)
	catalogRoutes.GET("/warehouses", warehouseHandler.List)
	catalogRoutes.PUT("/warehouses/:id", warehouseHandler.Update)
	// Unit routes
	catalogRoutes.POST("/units", unitHandler.Create)
	catalogRoutes.GET("/units", unitHandler.List)
	// Quality inspection parameter routes
	catalogRoutes.POST("/quality-parameters", parameterHandler.CreateQuality)
	catalogRoutes.GET("/quality-parameters", parameterHandler.ListQuality)
	catalogRoutes.POST("/quality-parameters/:id/deactivate", parameterHandler.DeactivateQuality)
	// Packaging parameter routes
	catalogRoutes.POST("/packaging-parameters", parameterHandler.CreatePackaging)
	catalogRoutes.GET("/packaging-parameters", parameterHandler.ListPackaging)

	// Partner domain (suppliers and their certificates of analysis)
	partnerRoutes := router.NewDomainGroup("partner", "/partner")
	partnerRoutes.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "partner service ready"})
	})
	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	partnerRoutes.DELETE("/suppliers/:id", supplierHandler.Delete)
	partnerRoutes.POST("/suppliers/:id/coas", supplierHandler.CreateCOA)
	partnerRoutes.POST("/suppliers/:id/coas/upload-url", supplierHandler.COAUploadURL)
	partnerRoutes.GET("/suppliers/:id/coas", supplierHandler.ListCOAs)
	partnerRoutes.GET("/suppliers/:id/coas/status", supplierHandler.COAStatus)
	partnerRoutes.DELETE("/suppliers/:id/coas/:coa_id", supplierHandler.DeleteCOA)

	// Supply domain (intake records and attachments)
	supplyRoutes := router.NewDomainGroup("supply", "/supplies")
	supplyRoutes.POST("", middleware.Idempotency(idempotencyStore, time.Hour), supplyHandler.Submit)
	supplyRoutes.GET("", supplyHandler.List)
	supplyRoutes.GET("/number/:document_number", supplyHandler.GetByDocumentNumber)
	supplyRoutes.GET("/attachments/download-url", supplyHandler.DownloadURL)
	supplyRoutes.GET("/:id", supplyHandler.GetByID)
	supplyRoutes.PUT("/:id", supplyHandler.Update)
	supplyRoutes.DELETE("/:id", supplyHandler.Delete)
	supplyRoutes.POST("/:id/documents/upload-url", supplyHandler.DocumentUploadURL)
	supplyRoutes.POST("/:id/signature/upload-url", supplyHandler.SignatureUploadURL)

	// Payment domain (supply payment tracking)
	paymentRoutes := router.NewDomainGroup("payment", "/payments")
	paymentRoutes.GET("", paymentHandler.List)
	paymentRoutes.GET("/supply/:supply_id", paymentHandler.GetBySupply)
	paymentRoutes.GET("/:id", paymentHandler.GetByID)
	paymentRoutes.POST("/:id/mark-paid", paymentHandler.MarkPaid)

	// Process domain (production pipeline lot runs)
	processRoutes := router.NewDomainGroup("process", "/process")
	processRoutes.GET("/pipeline", lotRunHandler.Pipeline)
	processRoutes.GET("/runs", lotRunHandler.List)
	processRoutes.GET("/runs/batch/:batch_id", lotRunHandler.GetByBatch)
	processRoutes.GET("/runs/:id", lotRunHandler.GetByID)
	processRoutes.POST("/runs/:id/advance", lotRunHandler.Advance)
	processRoutes.POST("/runs/:id/hold", lotRunHandler.Hold)
	processRoutes.POST("/runs/:id/resume", lotRunHandler.Resume)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(catalogRoutes).
		Register(partnerRoutes).
		Register(supplyRoutes).
		Register(paymentRoutes).
		Register(processRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(c.Request.Context()); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
