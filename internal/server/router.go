package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/middleware"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health   *handlers.HealthHandler
	Checkout *handlers.CheckoutHandler
	Coupon   *handlers.CouponHandler
	Metrics  *metrics.Metrics
}

// NewRouter builds the HTTP routes and middleware chain
func NewRouter(cfg *config.Config, log *slog.Logger, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.APIKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.ServeHTTP)
	r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		// Coupon endpoints
		r.Get("/coupon", h.Coupon.ListCoupons)
		r.Get("/coupon/stats", h.Coupon.GetStats)
		r.Get("/coupon/{couponCode}", h.Coupon.ValidateCoupon)

		// Checkout endpoints require an API key
		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(cfg.Auth, log))
			r.Post("/checkout", h.Checkout.Checkout)
			r.Post("/checkout/batch", h.Checkout.CheckoutBatch)
		})
	})

	return r
}
