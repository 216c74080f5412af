package intent

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidPrice marks a price that cannot be resolved to a finite,
// non-negative amount. Listing drafts carrying one are blocked from
// submission rather than posted at zero.
var ErrInvalidPrice = errors.New("invalid price")

// NormalizePrice resolves a model-emitted price to a numeric amount.
// Currency symbols, commas and other decoration are stripped before
// parsing: "$1,200.50" -> 1200.50.
func NormalizePrice(p Price) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, string(p))

	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, string(p))
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, string(p))
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, string(p))
	}
	return amount, nil
}

// Amount is a convenience wrapper around NormalizePrice.
func (p Price) Amount() (float64, error) {
	return NormalizePrice(p)
}
