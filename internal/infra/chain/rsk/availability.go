package rsk

import (
	"context"
	"errors"

	"github.com/vietddude/rnsdash/internal/core/domain"
)

// Availability reports whether name can be registered. A name is available
// when it has no resolver or resolves to the zero address. Transport
// failures of every path are returned as errors.
func (r *Resolver) Availability(ctx context.Context, name domain.Name) (domain.Availability, error) {
	out := domain.Availability{
		Name:            name.String(),
		Network:         r.network,
		RIFPricePerYear: domain.RIFPricePerYear,
	}

	_, err := r.Resolve(ctx, name)
	switch {
	case err == nil:
		out.Available = false
	case errors.Is(err, domain.ErrNotRegistered), errors.Is(err, domain.ErrNoAddressSet):
		out.Available = true
	default:
		return domain.Availability{}, err
	}
	return out, nil
}
