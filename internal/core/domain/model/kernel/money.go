package kernel

import (
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNegative indicates an amount below zero where only non-negative
// amounts are allowed (prices, totals, stock valuations).
var ErrMoneyIsNegative = errs.NewValueIsInvalidError("amount must not be negative")

// Money is the fixed-point amount value object used for every price and total
// in the core. It wraps shopspring/decimal so that repeated recomputation of
// the same order yields byte-identical results; float arithmetic is never used
// for pricing.
//
// The zero value is a valid amount of 0 and, for optional catalog prices
// (promotion, liquidation, upsell tiers), doubles as "unset"; see IsZero.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal amount.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses a decimal string such as "1290.00".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return Money{amount: d}, nil
}

// NewMoneyFromInt creates a Money from a whole number of currency units.
func NewMoneyFromInt(v int64) Money {
	return Money{amount: decimal.NewFromInt(v)}
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// MulInt returns m multiplied by an integer quantity.
func (m Money) MulInt(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// IsZero reports whether the amount is exactly zero. For optional catalog
// prices a zero amount means the price is unset and a fallback applies.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsEqual reports whether both amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal exposes the underlying decimal for persistence adapters.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String returns the plain decimal representation, e.g. "1290.5".
func (m Money) String() string {
	return m.amount.String()
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m.amount.IsNegative() {
		return ErrMoneyIsNegative
	}
	return nil
}
