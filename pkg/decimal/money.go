// Package decimal renders exact decimal amounts as money for the reporting
// surfaces. Simulation arithmetic stays on shopspring/decimal directly; this
// wrapper only owns cent rounding and display.
package decimal

import (
	"github.com/shopspring/decimal"
)

// Money is a monetary amount rendered at cent precision.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a Money instance from a float64.
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal wraps an exact decimal amount.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewMoneyFromString creates a Money instance from a string.
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds the amount to cents.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(2)}
}

// String returns the amount fixed to two decimal places.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format formats the amount with a currency prefix.
func (m Money) Format() string {
	return "$" + m.String()
}
