package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbilling "github.com/signly/backend/internal/application/billing"
	appsigning "github.com/signly/backend/internal/application/signing"
	"github.com/signly/backend/internal/infrastructure/auth"
	infrabilling "github.com/signly/backend/internal/infrastructure/billing"
	"github.com/signly/backend/internal/infrastructure/cache"
	"github.com/signly/backend/internal/infrastructure/config"
	"github.com/signly/backend/internal/infrastructure/logger"
	"github.com/signly/backend/internal/infrastructure/persistence"
	"github.com/signly/backend/internal/infrastructure/storage"
	"github.com/signly/backend/internal/interfaces/http/handler"
	"github.com/signly/backend/internal/interfaces/http/middleware"
	"github.com/signly/backend/internal/interfaces/http/router"
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

	log.Info("Starting Signly Backend",
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
	planRepo := persistence.NewGormPlanRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	usageRepo := persistence.NewGormMonthlyUsageRepository(db.DB)
	creditRepo := persistence.NewGormCreditRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	areaRepo := persistence.NewGormSignatureAreaRepository(db.DB)
	publicationRepo := persistence.NewGormPublicationRepository(db.DB)

	// Object storage: S3-compatible backend when credentials are configured,
	// in-memory store otherwise so local development needs no MinIO
	var objectStorage appsigning.ObjectStorageService
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage initialized",
			zap.String("bucket", cfg.Storage.Bucket),
			zap.String("endpoint", cfg.Storage.Endpoint),
		)
	} else {
		objectStorage = storage.NewMemoryObjectStorage()
		log.Warn("No storage credentials configured, using in-memory object storage")
	}

	// Initialize application services
	entitlementService := appbilling.NewEntitlementService(planRepo, subscriptionRepo, usageRepo, creditRepo, log)
	creditService := appbilling.NewCreditService(creditRepo, log)
	usageService := appbilling.NewUsageService(usageRepo, log)

	documentService := appsigning.NewDocumentService(
		documentRepo, areaRepo, publicationRepo,
		entitlementService, creditService, usageService,
		objectStorage, log,
	)
	publicationService := appsigning.NewPublicationService(
		publicationRepo, documentRepo, areaRepo,
		entitlementService, creditService, usageService,
		log,
	)
	documentService.SetPublicationCompleter(publicationService)

	// Short URL cache: Redis when reachable, in-process fallback otherwise
	if shortURLCache, err := cache.NewRedisShortURLCache(cfg.Redis); err == nil {
		publicationService.SetCache(shortURLCache)
		log.Info("Short URL cache backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		publicationService.SetCache(cache.NewInMemoryShortURLCache(0))
		log.Warn("Redis unavailable, using in-memory short URL cache", zap.Error(err))
	}

	// JWT auth with Redis-backed token revocation when available
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err == nil {
		tokenBlacklist = redisBlacklist
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
	}

	// Initialize HTTP handlers
	systemHandler := handler.NewSystemHandler()
	documentHandler := handler.NewDocumentHandler(documentService)
	publicationHandler := handler.NewPublicationHandler(publicationService)
	signHandler := handler.NewSignHandler(publicationService, documentService)
	billingHandler := handler.NewBillingHandler(entitlementService, creditService)

	// Stripe integration is optional outside production; without keys the
	// checkout and webhook endpoints are simply not registered
	var webhookHandler *handler.WebhookHandler
	if cfg.Stripe.SecretKey != "" {
		checkout, err := infrabilling.NewStripeCheckout(&cfg.Stripe, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe checkout", zap.Error(err))
		}
		billingHandler.SetCheckout(checkout)

		if cfg.Stripe.WebhookSecret != "" {
			webhookService := appbilling.NewStripeWebhookService(&cfg.Stripe, creditService, log)
			webhookHandler = handler.NewWebhookHandler(webhookService, log)
		} else {
			log.Warn("Stripe webhook secret not configured, webhook endpoint disabled")
		}
		log.Info("Stripe integration enabled",
			zap.Bool("test_mode", cfg.Stripe.IsTestMode),
			zap.Int("credit_packs", len(cfg.Stripe.CreditPacks)),
		)
	} else {
		log.Warn("Stripe not configured, credit purchases disabled")
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

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
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(rateLimiter.Middleware())
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// JWT authentication guards everything except the public signing surface,
	// the Stripe webhook and health probes
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Health check endpoints (outside API versioning)
	engine.GET("/health", healthHandler(db, log))
	engine.GET("/healthz", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(documentHandler).
		Register(publicationHandler).
		Register(signHandler).
		Register(billingHandler)
	if webhookHandler != nil {
		r.Register(webhookHandler)
	}
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
		if err := db.Ping(); err != nil {
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
