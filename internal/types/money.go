// README: Common money value object used across modules (integer cents, single currency).
package types

import (
	"fmt"
	"math"
)

// CurrencyUSD is the only currency the planner prices in.
const CurrencyUSD = "USD"

// Money is an amount in minor units (cents).
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// USD converts a dollar amount to Money, rounding to the nearest cent.
func USD(dollars float64) Money {
	return Money{Amount: int64(math.Round(dollars * 100)), Currency: CurrencyUSD}
}

// Cents builds Money directly from minor units.
func Cents(c int64) Money {
	return Money{Amount: c, Currency: CurrencyUSD}
}

func (m Money) Add(o Money) Money {
	return Money{Amount: m.Amount + o.Amount, Currency: m.currency()}
}

func (m Money) Sub(o Money) Money {
	return Money{Amount: m.Amount - o.Amount, Currency: m.currency()}
}

// Mul scales the amount by a whole quantity, e.g. a nightly rate by the number of nights.
func (m Money) Mul(n int) Money {
	return Money{Amount: m.Amount * int64(n), Currency: m.currency()}
}

func (m Money) LessOrEqual(o Money) bool { return m.Amount <= o.Amount }

// Float returns the amount in dollars.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Float(), m.currency())
}

func (m Money) currency() string {
	if m.Currency == "" {
		return CurrencyUSD
	}
	return m.Currency
}
