// Package common holds base-unit arithmetic shared across the daemon. All
// amounts travel as integer base units (wei, lamports, satoshi) in decimal
// strings; conversion to display units never goes through floats.
package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/sentinelwallet/sentinel/internal/derive"
)

// Decimals returns the display precision of a network family's native coin.
func Decimals(family string) int {
	switch family {
	case derive.FamilyEVM:
		return 18
	case derive.FamilyBitcoin:
		return 8
	case derive.FamilySolana, derive.FamilyTON:
		return 9
	case derive.FamilyTron, derive.FamilyXRP:
		return 6
	default:
		return 0
	}
}

// FormatBaseUnits converts integer base units to a display string by
// inserting the decimal point. Example: FormatBaseUnits(24981836, 9) =
// "0.024981836".
func FormatBaseUnits(value *big.Int, decimals int) string {
	neg := value.Sign() < 0
	s := new(big.Int).Abs(value).String()

	for len(s) <= decimals {
		s = "0" + s
	}
	pos := len(s) - decimals
	out := s[:pos]
	if decimals > 0 {
		out += "." + s[pos:]
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParseDisplayAmount converts a display string to integer base units.
// Fractional digits past the precision are rejected rather than silently
// truncated. Example: ParseDisplayAmount("0.024981836", 9) = 24981836.
func ParseDisplayAmount(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		if strings.Contains(frac, ".") {
			return nil, fmt.Errorf("invalid decimal format")
		}
		if len(frac) > decimals {
			return nil, fmt.Errorf("too many decimal places: max %d", decimals)
		}
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", decimals-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return n, nil
}
