package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/models"
	"github.com/go-chi/chi/v5"
)

// couponCatalog is the interface for coupon lookup
type couponCatalog interface {
	IsValid(ctx context.Context, code string) bool
	Codes() []string
	GetStats() map[string]interface{}
}

// CouponHandler handles HTTP requests for coupon lookup
type CouponHandler struct {
	catalog couponCatalog
	log     *slog.Logger
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(catalog couponCatalog, log *slog.Logger) *CouponHandler {
	return &CouponHandler{
		catalog: catalog,
		log:     log,
	}
}

// ValidateCoupon handles GET /api/coupon/{couponCode}
// Reports whether the code selects a discount rule
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	couponCode := chi.URLParam(r, "couponCode")

	if h.catalog.IsValid(r.Context(), couponCode) {
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"valid":  true,
			"coupon": couponCode,
		}, h.log)
		return
	}

	WriteJSON(w, http.StatusNotFound, map[string]interface{}{
		"valid":   false,
		"coupon":  couponCode,
		"message": "Coupon not found or invalid",
	}, h.log)
}

// ListCoupons handles GET /api/coupon
func (h *CouponHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, models.CouponList{
		Coupons: h.catalog.Codes(),
		Stats:   h.catalog.GetStats(),
	}, h.log)
}

// GetStats handles GET /api/coupon/stats (for debugging/monitoring)
func (h *CouponHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.catalog.GetStats(), h.log)
}
