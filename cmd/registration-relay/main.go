package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/noah-isme/registration-relay/api/swagger"
	"github.com/noah-isme/registration-relay/internal/handler"
	"github.com/noah-isme/registration-relay/internal/middleware"
	"github.com/noah-isme/registration-relay/internal/service"
	"github.com/noah-isme/registration-relay/pkg/config"
	"github.com/noah-isme/registration-relay/pkg/logger"
	corsmiddleware "github.com/noah-isme/registration-relay/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/registration-relay/pkg/middleware/requestid"
)

// @title Registration Relay API
// @version 0.1.0
// @description Validates registration form submissions and relays them to the workflow webhook
// @BasePath /
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metricsSvc := service.NewMetricsService()
	relaySvc := service.NewRelayService(service.RelayConfig{
		WebhookURL: cfg.Webhook.URL,
		Timeout:    cfg.Webhook.Timeout,
	}, validator.New(), logr, metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handler.RegisterRoutes(r, handler.RouteConfig{
		RelayPath:          cfg.RelayPath(),
		WebhookTestPath:    cfg.WebhookTestPath(),
		WebhookTestEnabled: cfg.Webhook.TestEnabled,
		MetricsPath:        cfg.Metrics.Path,
		MetricsEnabled:     cfg.Metrics.Enabled,
	}, handler.NewRegistrationHandler(relaySvc), handler.NewMetricsHandler(metricsSvc))

	if cfg.Docs.Enabled && cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"relay_path", cfg.RelayPath(),
			"webhook_timeout", cfg.Webhook.Timeout,
			"webhook_test", cfg.Webhook.TestEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logr.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
