package coupon

import (
	"context"
	"errors"
	"sort"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/shopspring/decimal"

	"github.com/Lixing-Zhang/kart-challenge/checkout-calculator/internal/money"
)

// Recognized coupon codes
const (
	CodeSave10 = "SAVE10"
	CodeSave20 = "SAVE20"
	CodeVIP    = "VIP"
)

// ErrUnknownCoupon is returned for any non-empty code outside the catalog
var ErrUnknownCoupon = errors.New("unknown coupon")

var (
	save10Rate       = decimal.RequireFromString("0.10")
	save20HighRate   = decimal.RequireFromString("0.20")
	save20LowRate    = decimal.RequireFromString("0.05")
	save20Threshold  = decimal.NewFromInt(200)
	vipThreshold     = decimal.NewFromInt(100)
	vipDiscount      = decimal.NewFromInt(50)
	vipSmallDiscount = decimal.NewFromInt(10)
)

// filterFalsePositiveRate sizes the bloom filter in front of the rule map
const filterFalsePositiveRate = 0.001

// Rule computes the discount for a subtotal
type Rule func(subtotal decimal.Decimal) decimal.Decimal

// Catalog is the fixed set of coupon rules. It is immutable after
// construction and safe for concurrent use.
type Catalog struct {
	rules  map[string]Rule
	filter *bloom.BloomFilter
}

// NewCatalog creates the catalog with the built-in rules
func NewCatalog() *Catalog {
	rules := map[string]Rule{
		CodeSave10: save10,
		CodeSave20: save20,
		CodeVIP:    vip,
	}

	filter := bloom.NewWithEstimates(uint(len(rules)), filterFalsePositiveRate)
	for code := range rules {
		filter.AddString(code)
	}

	return &Catalog{
		rules:  rules,
		filter: filter,
	}
}

func save10(subtotal decimal.Decimal) decimal.Decimal {
	return money.ApplyRate(subtotal, save10Rate)
}

func save20(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(save20Threshold) {
		return money.ApplyRate(subtotal, save20HighRate)
	}
	return money.ApplyRate(subtotal, save20LowRate)
}

func vip(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(vipThreshold) {
		return vipDiscount
	}
	return vipSmallDiscount
}

// lookup returns the rule for code. The map is authoritative; the filter
// only skips it for codes that were never added.
func (c *Catalog) lookup(code string) (Rule, bool) {
	if !c.filter.TestString(code) {
		return nil, false
	}
	rule, ok := c.rules[code]
	return rule, ok
}

// Discount returns the discount code grants on subtotal.
// An empty code means no coupon and yields zero.
func (c *Catalog) Discount(code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if code == "" {
		return decimal.Zero, nil
	}

	rule, ok := c.lookup(code)
	if !ok {
		return decimal.Zero, ErrUnknownCoupon
	}

	return rule(subtotal), nil
}

// IsValid reports whether code is a recognized coupon
func (c *Catalog) IsValid(ctx context.Context, code string) bool {
	_, ok := c.lookup(code)
	return ok
}

// Codes returns the recognized coupon codes in sorted order
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.rules))
	for code := range c.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetStats returns statistics about the catalog
func (c *Catalog) GetStats() map[string]interface{} {
	return map[string]interface{}{
		"total_coupons":  len(c.rules),
		"filter_bits":    c.filter.Cap(),
		"filter_hashes":  c.filter.K(),
		"filter_fp_rate": filterFalsePositiveRate,
	}
}
