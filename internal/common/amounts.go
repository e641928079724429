package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PriceDecimals is the number of decimals of the ledger's base unit.
// Listing prices travel as integer base units on the wire.
const PriceDecimals = 9

// PriceToBase converts a decimal price string to base units without float
// precision loss
func PriceToBase(price string) (uint64, error) {
	return parseWithDecimals(price, PriceDecimals)
}

// BaseToPrice converts base units to a decimal price string without float
// precision loss
func BaseToPrice(base uint64) string {
	return formatWithDecimals(base, PriceDecimals)
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(1500000000, 9) = "1.500000000"
func formatWithDecimals(value uint64, decimals int) string {
	s := fmt.Sprintf("%d", value)

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// parseWithDecimals converts decimal string to integer by removing decimal point
// Example: parseWithDecimals("1.5", 9) = 1500000000
func parseWithDecimals(s string, decimals int) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")

	if len(parts) == 1 {
		// No decimal point - multiply by 10^decimals
		n, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return 0, err
		}
		for i := 0; i < decimals; i++ {
			if n > math.MaxUint64/10 {
				return 0, fmt.Errorf("value too large")
			}
			n *= 10
		}
		return n, nil
	}

	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid decimal format")
	}

	whole := parts[0]
	frac := parts[1]

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	// Combine and parse
	combined := whole + frac
	return strconv.ParseUint(combined, 10, 64)
}

// ComparePrices compares two decimal price strings without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func ComparePrices(a, b string) (int, error) {
	aVal, err := parseWithDecimals(a, PriceDecimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price '%s': %w", a, err)
	}

	bVal, err := parseWithDecimals(b, PriceDecimals)
	if err != nil {
		return 0, fmt.Errorf("failed to parse price '%s': %w", b, err)
	}

	if aVal < bVal {
		return -1, nil
	}
	if aVal > bVal {
		return 1, nil
	}
	return 0, nil
}

// ValidatePrice checks that a price string parses, is strictly positive and
// carries no more precision than the base unit can represent.
func ValidatePrice(price string) error {
	v, err := PriceToBase(price)
	if err != nil {
		return fmt.Errorf("invalid price '%s': %w", price, err)
	}
	if v == 0 {
		return fmt.Errorf("price must be greater than zero")
	}
	if parts := strings.Split(strings.TrimSpace(price), "."); len(parts) == 2 && len(parts[1]) > PriceDecimals {
		return fmt.Errorf("price '%s' has more than %d decimal places", price, PriceDecimals)
	}
	return nil
}
