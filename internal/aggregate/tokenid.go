package aggregate

import (
	"math/big"
	"strings"
)

// NormalizeTokenID renders a token identifier in base 10. Hex input must
// carry a 0x prefix. Unparseable input is returned unchanged.
func NormalizeTokenID(id string) string {
	if id == "" {
		return ""
	}
	s := strings.TrimSpace(id)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return id
	}
	return v.String()
}

// parseQuantity parses a balance as the provider writes it: 0x-prefixed
// hex or decimal.
func parseQuantity(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), true
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return new(big.Int).SetString(s[2:], 16)
	}
	return new(big.Int).SetString(s, 10)
}
