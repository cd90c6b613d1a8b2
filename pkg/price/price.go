// Package price parses raw price-bearing strings scraped from product
// pages into exact decimal values.
package price

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when a raw string does not contain a usable
// positive price. Callers probing an ordered selector list treat this as
// "try the next candidate", not as a hard failure.
var ErrInvalidPrice = errors.New("invalid price")

// Parse converts a raw price string into a positive decimal value.
//
// Raw text scraped from markup arrives in many shapes: "₹1,299.00",
// "$29.99", "1,299", " 1299. ". Parse strips currency glyphs, thousands
// separators, and whitespace, keeping only digits and a single decimal
// point. A trailing bare "." is dropped and a leading "." gets a "0"
// prefix. Anything that does not reduce to a positive decimal returns
// ErrInvalidPrice.
//
// Parse is deterministic and side-effect free; it runs many times per
// document during selector fallback.
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := clean(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q reduces to empty", ErrInvalidPrice, raw)
	}

	if strings.HasSuffix(cleaned, ".") {
		cleaned = cleaned[:len(cleaned)-1]
	}
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, raw, err)
	}

	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not positive", ErrInvalidPrice, raw)
	}

	return d, nil
}

// clean keeps only digits and decimal points. Currency symbols, separators,
// and any other glyphs are discarded wholesale rather than enumerated, so
// unseen locale symbols do not break parsing.
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
