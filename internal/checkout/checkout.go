// Package checkout prices an order request: it validates the request, sums
// the line items, applies the coupon discount and tax, and builds the order
// summary. Every step is a pure function of its inputs.
package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/coupon"
	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/money"
)

// DefaultCurrency is used when the request names none
const DefaultCurrency = "USD"

// TaxRate applies to the amount left after the discount
var TaxRate = decimal.RequireFromString("0.21")

// Summary is the priced order. Discount and Tax are whole numbers.
type Summary struct {
	OrderID    string
	UserID     UserID
	Currency   string
	Subtotal   decimal.Decimal
	Discount   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	ItemsCount int
}

// DiscountSource resolves a coupon code into a discount
type DiscountSource interface {
	Discount(code string, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// Calculator runs the checkout pipeline against a set of coupon rules
type Calculator struct {
	coupons DiscountSource
}

// NewCalculator creates a calculator. A nil source uses the built-in catalog.
func NewCalculator(coupons DiscountSource) *Calculator {
	if coupons == nil {
		coupons = coupon.NewCatalog()
	}
	return &Calculator{coupons: coupons}
}

var defaultCalculator = NewCalculator(nil)

// Process prices req with the built-in coupon catalog
func Process(req Request) (Summary, error) {
	return defaultCalculator.Process(req)
}

// ProcessJSON parses a JSON request and prices it
func ProcessJSON(data []byte) (Summary, error) {
	req, err := Parse(data)
	if err != nil {
		return Summary{}, err
	}
	return defaultCalculator.Process(req)
}

// Validate checks req and returns the resolved currency. It stops at the
// first violation: user_id, items presence, items type, emptiness, then
// each item in order.
func Validate(req Request) (string, error) {
	if req.UserID == nil {
		return "", newError(ErrMissingField, "user_id is required")
	}
	if !req.Items.Present() {
		return "", newError(ErrMissingField, "items is required")
	}
	if !req.Items.IsList() {
		return "", newError(ErrInvalidType, "items must be a list")
	}
	if req.Items.Len() == 0 {
		return "", newError(ErrEmptyInput, "items must not be empty")
	}

	for _, it := range req.Items.Items() {
		if it.Price == nil || it.Qty == nil {
			return "", newError(ErrInvalidItem, "item must have price and qty")
		}
		if it.priceNotNumber {
			return "", newError(ErrInvalidValue, "price must be a number")
		}
		if !it.Price.IsPositive() {
			return "", newError(ErrInvalidValue, "price must be positive")
		}
		if it.qtyNotNumber {
			return "", newError(ErrInvalidValue, "qty must be a number")
		}
		if !it.Qty.IsPositive() {
			return "", newError(ErrInvalidValue, "qty must be positive")
		}
	}

	if req.Currency == nil {
		return DefaultCurrency, nil
	}
	return *req.Currency, nil
}

// CalculateSubtotal sums price*qty over validated items
func CalculateSubtotal(items []Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Mul(*it.Qty))
	}
	return subtotal
}

// CalculateDiscount applies the coupon rule to subtotal. A nil or empty
// code means no discount.
func (c *Calculator) CalculateDiscount(code *string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if code == nil || *code == "" {
		return decimal.Zero, nil
	}

	discount, err := c.coupons.Discount(*code, subtotal)
	if err != nil {
		return decimal.Zero, newError(err, err.Error())
	}
	return discount, nil
}

// ApplyDiscount returns subtotal-discount, never below zero
func ApplyDiscount(subtotal, discount decimal.Decimal) decimal.Decimal {
	return money.ClampZero(subtotal.Sub(discount))
}

// CalculateTax returns the truncated tax on amount
func CalculateTax(amount decimal.Decimal) decimal.Decimal {
	return money.ApplyRate(amount, TaxRate)
}

// GenerateOrderID formats "<user_id>-<items_count>-X". Identical inputs give
// identical ids; it is not a unique identifier.
func GenerateOrderID(userID UserID, itemsCount int) string {
	return fmt.Sprintf("%s-%d-X", userID, itemsCount)
}

// Process runs validate, subtotal, discount, clamp, tax, total and order id
// in that order. No summary is produced on error.
func (c *Calculator) Process(req Request) (Summary, error) {
	currency, err := Validate(req)
	if err != nil {
		return Summary{}, err
	}

	items := req.Items.Items()
	subtotal := CalculateSubtotal(items)

	discount, err := c.CalculateDiscount(req.Coupon, subtotal)
	if err != nil {
		return Summary{}, err
	}

	afterDiscount := ApplyDiscount(subtotal, discount)
	tax := CalculateTax(afterDiscount)
	total := afterDiscount.Add(tax)

	return Summary{
		OrderID:    GenerateOrderID(*req.UserID, len(items)),
		UserID:     *req.UserID,
		Currency:   currency,
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		Total:      total,
		ItemsCount: len(items),
	}, nil
}
