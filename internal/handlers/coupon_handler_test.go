package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/coupon"
	"github.com/go-chi/chi/v5"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCouponHandler_ValidateCoupon(t *testing.T) {
	h := NewCouponHandler(coupon.NewCatalog(), discardLogger())

	tests := []struct {
		name           string
		couponCode     string
		expectedStatus int
		expectedValid  bool
	}{
		{
			name:           "SAVE10",
			couponCode:     "SAVE10",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
		},
		{
			name:           "VIP",
			couponCode:     "VIP",
			expectedStatus: http.StatusOK,
			expectedValid:  true,
		},
		{
			name:           "wrong case",
			couponCode:     "save20",
			expectedStatus: http.StatusNotFound,
			expectedValid:  false,
		},
		{
			name:           "does not exist",
			couponCode:     "BOGUS",
			expectedStatus: http.StatusNotFound,
			expectedValid:  false,
		},
		{
			name:           "empty coupon code",
			couponCode:     "",
			expectedStatus: http.StatusNotFound,
			expectedValid:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/coupon/"+tt.couponCode, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("couponCode", tt.couponCode)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			h.ValidateCoupon(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			var response map[string]interface{}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			valid, ok := response["valid"].(bool)
			if !ok {
				t.Fatalf("valid field is not a boolean")
			}
			if valid != tt.expectedValid {
				t.Errorf("expected valid=%v, got valid=%v", tt.expectedValid, valid)
			}

			responseCoupon, ok := response["coupon"].(string)
			if !ok {
				t.Fatalf("coupon field is not a string")
			}
			if responseCoupon != tt.couponCode {
				t.Errorf("expected coupon=%q, got coupon=%q", tt.couponCode, responseCoupon)
			}
		})
	}
}

func TestCouponHandler_ListCoupons(t *testing.T) {
	h := NewCouponHandler(coupon.NewCatalog(), discardLogger())

	rr := httptest.NewRecorder()
	h.ListCoupons(rr, httptest.NewRequest(http.MethodGet, "/api/coupon", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response struct {
		Coupons []string               `json:"coupons"`
		Stats   map[string]interface{} `json:"stats"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := []string{"SAVE10", "SAVE20", "VIP"}
	if len(response.Coupons) != len(want) {
		t.Fatalf("expected %d coupons, got %v", len(want), response.Coupons)
	}
	for i := range want {
		if response.Coupons[i] != want[i] {
			t.Errorf("coupons[%d] = %s, want %s", i, response.Coupons[i], want[i])
		}
	}

	// JSON numbers decode as float64
	if response.Stats["total_coupons"] != float64(3) {
		t.Errorf("expected total_coupons=3, got %v", response.Stats["total_coupons"])
	}
}

func TestCouponHandler_GetStats(t *testing.T) {
	h := NewCouponHandler(coupon.NewCatalog(), discardLogger())

	rr := httptest.NewRecorder()
	h.GetStats(rr, httptest.NewRequest(http.MethodGet, "/api/coupon/stats", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var stats map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	for _, key := range []string{"total_coupons", "filter_bits", "filter_hashes"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("missing stats key %s", key)
		}
	}
}
