// Package money converts between user-facing decimal amounts and the
// int64 minor units (cents) that every stored amount uses. Amounts are
// magnitudes: direction is carried by the transaction kind, never by sign.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that cannot be stored as minor units.
var ErrInvalidAmount = errors.New("invalid amount")

// maxMinor keeps amounts comfortably inside int64 when summed.
const maxMinor = int64(1) << 50

var hundred = decimal.NewFromInt(100)

// Parse converts a decimal string such as "123.45" into minor units.
// Negative amounts are rejected; more than two decimal places are rejected
// rather than silently rounded.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: must not be negative", ErrInvalidAmount)
	}
	minor := d.Mul(hundred)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: more than two decimal places", ErrInvalidAmount)
	}
	v := minor.IntPart()
	if v > maxMinor {
		return 0, fmt.Errorf("%w: too large", ErrInvalidAmount)
	}
	return v, nil
}

// Format renders minor units as a fixed two-decimal string, e.g. 123456 -> "1234.56".
func Format(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// Percent returns the rounded integer share of part in whole, as a
// percentage. Whole values of zero yield zero. Independently rounded
// shares of a partition may not sum to exactly 100.
func Percent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	pct := decimal.New(part, 0).Mul(hundred).DivRound(decimal.New(whole, 0), 0)
	return int(pct.IntPart())
}

// Abbreviate renders minor units in the compact calendar-cell form:
// zero is "0", a thousand major units or more is "1.5K", anything else
// is the rounded major amount.
func Abbreviate(minor int64) string {
	major := decimal.New(minor, -2)
	if major.IsZero() {
		return "0"
	}
	if major.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return major.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return major.Round(0).String()
}
