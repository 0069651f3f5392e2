// Package core holds the domain types shared by every other package: money,
// transactions, budgets and savings goals, plus their validation rules.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal monetary amount. Amounts coming from the backend are
// positive by convention; comparisons in filters and sorts use Abs so a
// stray sign never changes the result.
type Money struct {
	d decimal.Decimal
}

func MoneyFromDecimal(d decimal.Decimal) Money { return Money{d: d} }

func MoneyFromInt(v int64) Money { return Money{d: decimal.NewFromInt(v)} }

func MoneyFromFloat(v float64) Money { return Money{d: decimal.NewFromFloat(v)} }

// ParseAmount converts user input to Money. It accepts both dot and comma
// decimal separators and rejects empty or non-numeric input.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{d: d}, nil
}

func (m Money) Decimal() decimal.Decimal { return m.d }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

func (m Money) Mul(o Money) Money { return Money{d: m.d.Mul(o.d)} }

func (m Money) Div(o Money) Money { return Money{d: m.d.Div(o.d)} }

func (m Money) Abs() Money { return Money{d: m.d.Abs()} }

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

// Float64 is for display and chart scaling only; calculations stay decimal.
func (m Money) Float64() float64 {
	f, _ := m.d.Float64()
	return f
}

// String renders the amount with two decimal places.
func (m Money) String() string { return m.d.StringFixed(2) }

func (m Money) MarshalJSON() ([]byte, error) { return m.d.MarshalJSON() }

func (m *Money) UnmarshalJSON(b []byte) error { return m.d.UnmarshalJSON(b) }
