package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidMoney indicates a monetary string that cannot be parsed.
var ErrInvalidMoney = errors.New("invalid monetary amount")

// Money is a fixed-point monetary value in cents. All balance
// arithmetic happens on int64 cents so repeated adjustments never
// accumulate floating-point drift.
type Money struct {
	Cents int64
}

// ParseMoney converts a decimal string to Money with half-up rounding
// on the third decimal place. Both dot and comma separators are
// accepted. Negative and signed values are rejected; transaction
// amounts carry their sign through the transaction type instead.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidMoney
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, fmt.Errorf("%w: signed amounts are not allowed", ErrInvalidMoney)
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidMoney
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidMoney
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount too large", ErrInvalidMoney)
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

	// iv*100+fracCents must not pass MaxInt64, including the boundary
	// where iv equals MaxInt64/100 and only a few cents of headroom
	// remain.
	const maxCents = int64(1<<63 - 1)
	if iv > maxCents/100 || (iv == maxCents/100 && fracCents > maxCents%100) {
		return Money{}, fmt.Errorf("%w: amount too large", ErrInvalidMoney)
	}

	return Money{Cents: iv*100 + fracCents}, nil
}

// Cents wraps a raw cent count as Money.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Cents: -m.Cents}
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.Cents > 0
}

// String renders the amount with two decimal places, e.g. "12.34" or
// "-0.05".
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
