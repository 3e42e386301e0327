// Package money provides exact minor-unit currency arithmetic.
//
// Amounts are held as an integer count of minor units (cents for USD) so the
// ledger never does binary floating point math. Parsing and formatting of
// decimal strings happens only at the system boundary.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a signed count of minor currency units (e.g. cents).
type Money int64

// Zero is the additive identity.
const Zero Money = 0

// minorUnitExponent is the number of decimal places a minor unit represents.
// Fixed at 2 (cent-level) until fractional-currency sources exist.
const minorUnitExponent = 2

// Parse converts a boundary decimal string (e.g. "1250.00", "-187.45") into
// minor units. Inputs with more precision than the minor unit are rejected
// rather than rounded.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal amount into minor units, rejecting
// fractional-cent values.
func FromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(minorUnitExponent)
	if !shifted.IsInteger() {
		return Zero, fmt.Errorf("amount %s has sub-minor-unit precision", d.String())
	}
	if !shifted.BigInt().IsInt64() {
		return Zero, fmt.Errorf("amount %s overflows minor units", d.String())
	}
	return Money(shifted.IntPart()), nil
}

// MustParse is a fixture helper; it panics on malformed input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the major-unit decimal representation.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExponent)
}

// String formats the amount with exactly the minor-unit precision, e.g. "12.30".
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}

// Add returns m + o.
func (m Money) Add(o Money) Money { return m + o }

// Sub returns m - o.
func (m Money) Sub(o Money) Money { return m - o }

// Neg returns -m.
func (m Money) Neg() Money { return -m }

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m < 0 {
		return -m
	}
	return m
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool { return m == 0 }

// IsPositive reports whether m is strictly greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// MarshalJSON emits the amount as a decimal string, keeping minor units an
// internal representation.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
