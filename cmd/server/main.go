package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cashcloseapp "github.com/shipguide/backend/internal/application/cashclose"
	guideapp "github.com/shipguide/backend/internal/application/guide"
	"github.com/shipguide/backend/internal/application/rates"
	"github.com/shipguide/backend/internal/infrastructure/auth"
	"github.com/shipguide/backend/internal/infrastructure/cache"
	"github.com/shipguide/backend/internal/infrastructure/config"
	"github.com/shipguide/backend/internal/infrastructure/logger"
	"github.com/shipguide/backend/internal/infrastructure/persistence"
	"github.com/shipguide/backend/internal/infrastructure/printing"
	"github.com/shipguide/backend/internal/infrastructure/storage"
	"github.com/shipguide/backend/internal/infrastructure/telemetry"
	"github.com/shipguide/backend/internal/interfaces/http/handler"
	"github.com/shipguide/backend/internal/interfaces/http/middleware"
	"github.com/shipguide/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting guides backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
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
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	// Token revocation store. The server keeps running without it; revoked
	// tokens then stay valid until expiry.
	var blacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, token revocation disabled", zap.Error(err))
	} else {
		blacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
	}

	// Object storage
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := objectStorage.EnsureBucket(ctx); err != nil {
		cancel()
		log.Fatal("Failed to ensure storage bucket", zap.Error(err))
	}
	cancel()

	// PDF renderer
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		DefaultTimeout: cfg.Printing.RenderTimeout,
		RemoteURL:      cfg.Printing.ChromeURL,
		NoSandbox:      cfg.Printing.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing renderer", zap.Error(err))
		}
	}()

	// Repositories
	guideRepo := persistence.NewGormGuideRepository(db.DB)
	rateRepo := persistence.NewGormRateRepository(db.DB)
	closeRepo := persistence.NewGormCashCloseRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// The city catalog is static between migrations, so every consumer
	// reads it through the cache.
	cityRepo := cache.NewCachingCityRepository(persistence.NewGormCityRepository(db.DB), cache.DefaultCityTTL, log)
	defer cityRepo.Close()

	// Application services
	priceEngine := guideapp.NewPriceEngine(rateRepo, log)
	overrideGuard := guideapp.NewOverrideGuard(log)
	publisher := guideapp.NewPublisher(renderer, objectStorage, guideRepo, log)
	createService := guideapp.NewCreateService(priceEngine, overrideGuard, txScope, publisher, cityRepo, log)
	queryService := guideapp.NewQueryService(guideRepo, txScope, publisher, log)

	// Quotes are advisory and may serve a rate that is a few minutes
	// stale. Guide creation keeps reading the rate table directly.
	cachedRates := cache.NewCachingRateRepository(rateRepo, cache.DefaultRateTTL, log)
	defer cachedRates.Close()
	quoteService := rates.NewQuoteService(guideapp.NewPriceEngine(cachedRates, log), log)
	closeService := cashcloseapp.NewService(closeRepo, renderer, objectStorage, log)

	// JWT verification
	verifier := auth.NewTokenVerifier(cfg.JWT)
	jwtConfig := middleware.DefaultJWTConfig(verifier)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg)))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewGuideHandler(createService, queryService, log)).
		Register(handler.NewRateHandler(quoteService)).
		Register(handler.NewCityHandler(cityRepo)).
		Register(handler.NewCashCloseHandler(closeService)).
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
