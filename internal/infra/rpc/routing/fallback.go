package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vietddude/rnsdash/internal/metrics"
)

// ErrNoStrategies is returned when Fallback is called with nothing to run.
var ErrNoStrategies = errors.New("no strategies configured")

// finalError marks an authoritative answer.
type finalError struct{ err error }

func (e *finalError) Error() string { return e.err.Error() }
func (e *finalError) Unwrap() error { return e.err }

// Final marks err as an authoritative answer: Fallback returns it at once
// instead of trying the next strategy.
func Final(err error) error {
	if err == nil {
		return nil
	}
	return &finalError{err: err}
}

// Strategy is one way of producing a result for an operation.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// Fallback runs strategies in order and returns the first success.
// Every strategy is attempted once; there is no backoff. When all of
// them fail the returned error joins each failure. An error wrapped with
// Final ends the chain early.
func Fallback[T any](ctx context.Context, operation string, strategies ...Strategy[T]) (T, error) {
	var zero T
	if len(strategies) == 0 {
		return zero, fmt.Errorf("%s: %w", operation, ErrNoStrategies)
	}

	var errs []error
	for i, s := range strategies {
		if i > 0 {
			metrics.FallbacksTotal.WithLabelValues(operation, s.Name).Inc()
			slog.Warn("Falling back",
				"operation", operation,
				"strategy", s.Name,
				"previous", strategies[i-1].Name,
				"error", errs[len(errs)-1],
			)
		}

		result, err := s.Run(ctx)
		if err == nil {
			return result, nil
		}
		var final *finalError
		if errors.As(err, &final) {
			return zero, fmt.Errorf("%s via %s: %w", operation, s.Name, final.err)
		}
		errs = append(errs, fmt.Errorf("%s via %s (%s): %w", operation, s.Name, ClassifyError(err), err))

		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = append(errs, ctxErr)
			break
		}
	}

	return zero, errors.Join(errs...)
}
