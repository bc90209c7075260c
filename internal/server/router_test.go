package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/metrics"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Auth:     config.AuthConfig{APIKeys: []string{"apitest"}},
		Batch:    config.BatchConfig{MaxRequests: 10, Concurrency: 2},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
		LogLevel: "info",
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	catalog := coupon.NewCatalog()
	svc := service.NewCheckoutService(checkout.NewCalculator(catalog), m, log, cfg.Batch.Concurrency)

	return NewRouter(cfg, log, Handlers{
		Health:   handlers.NewHealthHandler(log),
		Checkout: handlers.NewCheckoutHandler(svc, log, cfg.Batch.MaxRequests),
		Coupon:   handlers.NewCouponHandler(catalog, log),
		Metrics:  m,
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter(t)

	checkoutBody := `{"user_id":"u1","items":[{"price":100,"qty":2}],"coupon":"SAVE10"}`

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		apiKey         string
		expectedStatus int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"coupon list", http.MethodGet, "/api/coupon", "", "", http.StatusOK},
		{"coupon stats", http.MethodGet, "/api/coupon/stats", "", "", http.StatusOK},
		{"known coupon", http.MethodGet, "/api/coupon/VIP", "", "", http.StatusOK},
		{"unknown coupon", http.MethodGet, "/api/coupon/NOPE", "", "", http.StatusNotFound},
		{"checkout without key", http.MethodPost, "/api/checkout", checkoutBody, "", http.StatusUnauthorized},
		{"checkout with wrong key", http.MethodPost, "/api/checkout", checkoutBody, "nope", http.StatusForbidden},
		{"checkout", http.MethodPost, "/api/checkout", checkoutBody, "apitest", http.StatusOK},
		{"batch", http.MethodPost, "/api/checkout/batch", `{"requests":[` + checkoutBody + `]}`, "apitest", http.StatusOK},
		{"checkout wrong method", http.MethodGet, "/api/checkout", "", "apitest", http.StatusMethodNotAllowed},
		{"unknown route", http.MethodGet, "/api/orders", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.apiKey != "" {
				req.Header.Set(middleware.APIKeyHeader, tt.apiKey)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
			if w.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestRouter_CheckoutAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(`{"user_id":"u2","items":[{"price":50,"qty":1}],"coupon":"VIP"}`))
	req.Header.Set(middleware.APIKeyHeader, "apitest")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var summary map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if summary["total"] != float64(48) || summary["discount"] != float64(10) || summary["tax"] != float64(8) {
		t.Errorf("unexpected summary: %v", summary)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(w.Body.String(), `checkout_requests_total{outcome="ok"} 1`) {
		t.Errorf("metrics output missing checkout counter:\n%s", w.Body.String())
	}
}
