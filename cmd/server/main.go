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

	commissionapp "github.com/primtakip/backend/internal/application/commission"
	identityapp "github.com/primtakip/backend/internal/application/identity"
	periodapp "github.com/primtakip/backend/internal/application/period"
	reportapp "github.com/primtakip/backend/internal/application/report"
	salesapp "github.com/primtakip/backend/internal/application/sales"
	"github.com/primtakip/backend/internal/infrastructure/auth"
	"github.com/primtakip/backend/internal/infrastructure/cache"
	"github.com/primtakip/backend/internal/infrastructure/config"
	"github.com/primtakip/backend/internal/infrastructure/logger"
	"github.com/primtakip/backend/internal/infrastructure/persistence"
	"github.com/primtakip/backend/internal/interfaces/http/handler"
	"github.com/primtakip/backend/internal/interfaces/http/middleware"
	"github.com/primtakip/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting PrimTakip backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis backs the token blacklist and report cache; both fall back to
	// in-memory implementations when Redis is unavailable.
	var (
		tokenBlacklist auth.TokenBlacklist
		reportCache    cache.ReportCache
	)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, using in-memory fallbacks", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
		reportCache = cache.NewInMemoryReportCache()
	} else {
		defer func() {
			_ = redisClient.Close()
		}()
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		reportCache = cache.NewRedisReportCache(redisClient)
		log.Info("Redis connected successfully")
	}
	if !cfg.Report.CacheEnabled {
		reportCache = nil
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	rateRepo := persistence.NewGormRateRepository(db.DB)
	paymentTypeRepo := persistence.NewGormPaymentTypeRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	periodRepo := persistence.NewGormPeriodRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, log)
	rateService := commissionapp.NewRateService(rateRepo)
	saleService := salesapp.NewSaleService(saleRepo, paymentTypeRepo, rateRepo)
	paymentTypeService := salesapp.NewPaymentTypeService(paymentTypeRepo)
	periodService := periodapp.NewPeriodService(periodRepo, saleRepo, log)
	reportService := reportapp.NewReportService(reportRepo, reportCache, cfg.Report.CacheTTL, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	rateHandler := handler.NewRateHandler(rateService)
	saleHandler := handler.NewSaleHandler(saleService, reportService)
	paymentTypeHandler := handler.NewPaymentTypeHandler(paymentTypeService)
	periodHandler := handler.NewPeriodHandler(periodService, reportService)
	reportHandler := handler.NewReportHandler(reportService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", healthHandler(db))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Logger:         log,
	}

	// Login and refresh get a stricter limiter keyed per client IP.
	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authLimit = middleware.RateLimit(authLimiter)
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(middleware.JWTAuthMiddleware(jwtConfig)),
	)

	r.RegisterPublic(router.RegistrarFunc(func(rg *gin.RouterGroup) {
		if authLimit != nil {
			rg = rg.Group("")
			rg.Use(authLimit)
		}
		authHandler.RegisterPublicRoutes(rg, middleware.OptionalJWTAuthMiddleware(jwtConfig))
	}))

	r.Register(router.RegistrarFunc(authHandler.RegisterProtectedRoutes))
	r.Register(userHandler)
	r.Register(rateHandler)
	r.Register(saleHandler)
	r.Register(paymentTypeHandler)
	r.Register(periodHandler)
	r.Register(reportHandler)

	r.Setup()

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

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

// healthHandler reports liveness plus database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
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
