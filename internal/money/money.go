// Package money holds the exact-decimal helpers shared by the pricing code.
package money

import "github.com/shopspring/decimal"

// Truncate drops the fractional part of d, moving toward zero.
// Discounts and tax are always truncated this way, never rounded.
func Truncate(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(0)
}

// ApplyRate returns Truncate(amount * rate).
func ApplyRate(amount, rate decimal.Decimal) decimal.Decimal {
	return Truncate(amount.Mul(rate))
}

// ClampZero returns d, or zero when d is negative.
func ClampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
