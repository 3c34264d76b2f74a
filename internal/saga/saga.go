// Package saga runs ordered steps across stores that share no transaction.
// A failing step triggers the compensations of every step that already
// succeeded, in reverse order. Compensation failures are logged and collected,
// never retried here and never allowed to replace the original error.
package saga

import (
	"context"
	"errors"
	"fmt"

	pkglog "github.com/odonto-agenda/auth-api/pkg/log"
)

type Step struct {
	Name       string
	Do         func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Error reports the step that failed and any compensation that failed after it.
type Error struct {
	Step             string
	Err              error
	CompensationErrs []error
}

func (e *Error) Error() string {
	if len(e.CompensationErrs) == 0 {
		return fmt.Sprintf("saga step %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("saga step %s: %v (compensation failed: %v)", e.Step, e.Err, errors.Join(e.CompensationErrs...))
}

func (e *Error) Unwrap() error { return e.Err }

// Compensated reports whether every compensation ran without error.
func (e *Error) Compensated() bool { return len(e.CompensationErrs) == 0 }

func Run(ctx context.Context, logger pkglog.Logger, steps ...Step) error {
	for i, step := range steps {
		if err := step.Do(ctx); err != nil {
			logger.Warn().Err(err).Str("step", step.Name).Msg("saga step failed, compensating")
			sagaErr := &Error{Step: step.Name, Err: err}
			for j := i - 1; j >= 0; j-- {
				prev := steps[j]
				if prev.Compensate == nil {
					continue
				}
				if cerr := prev.Compensate(ctx); cerr != nil {
					logger.Error().Err(cerr).Str("step", prev.Name).Msg("saga compensation failed")
					sagaErr.CompensationErrs = append(sagaErr.CompensationErrs, fmt.Errorf("%s: %w", prev.Name, cerr))
					continue
				}
				logger.Info().Str("step", prev.Name).Msg("saga step compensated")
			}
			return sagaErr
		}
	}
	return nil
}
