package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in integer cents. Keeping cents out of floating
// point means income minus expense is exact, which the dashboard
// balance relies on.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal form field to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted, with
// half-up rounding on the third decimal. Negative and unparseable
// values fail with ErrInvalidAmount; zero is allowed.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}

	s = strings.ReplaceAll(s, ",", ".")

	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}

	intPart := parts[0]
	fracPart := ""

	if len(parts) == 2 {
		fracPart = parts[1]
	}

	if intPart == "" {
		intPart = "0"
	}

	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// a lone "." is not a number
		return Money{}, ErrInvalidAmount
	}

	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)

	if err != nil {
		return Money{}, ErrInvalidAmount
	}

	// guard the *100 below
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidAmount
	}

	var fracCents int64

	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10

		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')

			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	return Money{Cents: iv*100 + fracCents}, nil
}

// Float returns the unit value for chart rendering. Calculations stay
// in cents.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount with two decimals for views.
func (m Money) String() string {
	sign := ""
	c := m.Cents

	if c < 0 {
		sign = "-"
		c = -c
	}

	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// Sub returns m minus other.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Add returns m plus other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}
