// cmd/order-gateway/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"voice-order-gateway/internal/common/config"
	"voice-order-gateway/internal/common/logger"
	"voice-order-gateway/internal/common/observability"
	"voice-order-gateway/internal/common/resilience"
	"voice-order-gateway/internal/server"
	"voice-order-gateway/internal/shopify"
	"voice-order-gateway/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger config may itself be broken; report on a bare logger.
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting order gateway",
		zap.String("environment", cfg.App.Environment),
		zap.String("shopDomain", cfg.Shopify.ShopDomain),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	breaker := resilience.NewCircuitBreaker("shopify", log)
	commerce := shopify.NewClient(cfg.Shopify, breaker)
	notifier := webhook.NewNotifier(cfg.Webhook, log)

	srv := server.New(cfg, commerce, notifier, obs, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("stopped")
}
