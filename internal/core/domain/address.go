package domain

import (
	"strings"
)

// ZeroAddress is returned by resolvers for names without a target.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// NormalizeAddress lower-cases a caller supplied address. Only emptiness is
// checked; the provider rejects malformed values itself.
func NormalizeAddress(s string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(s))
	if a == "" {
		return "", ErrInvalidAddress
	}
	return a, nil
}

// IsZeroAddress reports whether a is empty or the all-zero address.
func IsZeroAddress(a string) bool {
	return a == "" || strings.EqualFold(a, ZeroAddress)
}
