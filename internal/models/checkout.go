package models

import (
	"encoding/json"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/checkout"
)

// OrderSummary is the JSON form of a priced order.
// Monetary fields are exact decimal numbers.
type OrderSummary struct {
	OrderID    string          `json:"order_id"`
	UserID     json.RawMessage `json:"user_id"`
	Currency   string          `json:"currency"`
	Subtotal   json.Number     `json:"subtotal"`
	Discount   json.Number     `json:"discount"`
	Tax        json.Number     `json:"tax"`
	Total      json.Number     `json:"total"`
	ItemsCount int             `json:"items_count"`
}

// NewOrderSummary converts a checkout summary to its wire form
func NewOrderSummary(s checkout.Summary) OrderSummary {
	userID, _ := s.UserID.MarshalJSON()

	return OrderSummary{
		OrderID:    s.OrderID,
		UserID:     userID,
		Currency:   s.Currency,
		Subtotal:   json.Number(s.Subtotal.String()),
		Discount:   json.Number(s.Discount.String()),
		Tax:        json.Number(s.Tax.String()),
		Total:      json.Number(s.Total.String()),
		ItemsCount: s.ItemsCount,
	}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// BatchCheckoutRequest carries independent order requests.
// Each element is parsed on its own so one bad entry cannot fail the rest.
type BatchCheckoutRequest struct {
	Requests []json.RawMessage `json:"requests"`
}

// BatchCheckoutResult is the outcome for the request at Index
type BatchCheckoutResult struct {
	Index   int            `json:"index"`
	Summary *OrderSummary  `json:"summary,omitempty"`
	Error   *ErrorResponse `json:"error,omitempty"`
}

// BatchCheckoutResponse lists results in request order
type BatchCheckoutResponse struct {
	Results   []BatchCheckoutResult `json:"results"`
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
}

// CouponList is the body of GET /api/coupon
type CouponList struct {
	Coupons []string               `json:"coupons"`
	Stats   map[string]interface{} `json:"stats"`
}
