package gains

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount in a currency, fiat or not, used for display.
type Money struct {
	value decimal.Decimal
	cur   string
}

// M returns the Money value of amount in currency cur.
func M(amount decimal.Decimal, cur string) Money {
	return Money{value: amount, cur: strings.ToUpper(cur)}
}

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }

// String returns the string representation of the money value.
//
// ISO currencies are formatted by go-money with their own number of digits,
// other currencies (crypto assets) keep up to 8 digits.
func (m Money) String() string {
	if c := money.GetCurrency(m.cur); c != nil {
		dec := m.value.Shift(int32(c.Fraction))
		return c.Formatter().Format(dec.Round(0).IntPart())
	}
	return m.value.Round(DefaultPrecision).String() + " " + m.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
