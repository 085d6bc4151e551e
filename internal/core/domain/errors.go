package domain

import "errors"

// Validation errors. These are raised before any network call and map to 400.
var (
	ErrInvalidAddress = errors.New("missing address")
	ErrInvalidName    = errors.New("invalid .rsk name")
	ErrInvalidNetwork = errors.New("invalid network")
)

var (
	// ErrNotConfigured means no data-provider endpoint exists for a network.
	ErrNotConfigured = errors.New("data provider not configured")

	// ErrNotRegistered means the registry has no resolver for the name.
	ErrNotRegistered = errors.New("name not registered")

	// ErrNoAddressSet means the resolver answered with the zero address.
	ErrNoAddressSet = errors.New("no address set for name")

	// ErrUpstream wraps a failed provider or contract call after fallback.
	ErrUpstream = errors.New("upstream call failed")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidName) ||
		errors.Is(err, ErrInvalidNetwork)
}
