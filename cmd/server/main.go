package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/server"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting checkout calculator server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
	)

	catalog := coupon.NewCatalog()
	log.Info("coupon catalog ready", "coupons", catalog.Codes())

	m := metrics.New()
	checkoutService := service.NewCheckoutService(checkout.NewCalculator(catalog), m, log, cfg.Batch.Concurrency)

	router := server.NewRouter(cfg, log, server.Handlers{
		Health:   handlers.NewHealthHandler(log),
		Checkout: handlers.NewCheckoutHandler(checkoutService, log, cfg.Batch.MaxRequests),
		Coupon:   handlers.NewCouponHandler(catalog, log),
		Metrics:  m,
	})

	addr := cfg.Server.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
