package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/kids-academy-api/api/swagger"
	"github.com/noah-isme/kids-academy-api/internal/gateway"
	"github.com/noah-isme/kids-academy-api/internal/handler"
	internalmiddleware "github.com/noah-isme/kids-academy-api/internal/middleware"
	"github.com/noah-isme/kids-academy-api/internal/repository"
	"github.com/noah-isme/kids-academy-api/internal/service"
	"github.com/noah-isme/kids-academy-api/pkg/cache"
	"github.com/noah-isme/kids-academy-api/pkg/config"
	"github.com/noah-isme/kids-academy-api/pkg/database"
	"github.com/noah-isme/kids-academy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/kids-academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/kids-academy-api/pkg/middleware/requestid"
)

// @title Kids Academy API
// @version 1.0.0
// @description Class enrollment backend: catalog, selections, payments
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	// Redis is optional: catalog caching degrades to direct reads without it.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	stripeGateway := gateway.NewStripeGateway(cfg.Stripe.SecretKey, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, cacheRepo, validate, logr, cfg.Catalog.PopularCacheTTL)
	selectionSvc := service.NewSelectionService(selectionRepo, classRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, stripeGateway, cacheRepo, metricsSvc, validate, logr, cfg.Stripe.Currency)

	handlers := handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Users:      handler.NewUserHandler(userSvc),
		Classes:    handler.NewClassHandler(classSvc),
		Selections: handler.NewSelectionHandler(selectionSvc),
		Payments:   handler.NewPaymentHandler(paymentSvc),
		Metrics:    handler.NewMetricsHandler(metricsSvc, db),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	handler.RegisterRoutes(r, handlers, authSvc, userRepo)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
