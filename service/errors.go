package service

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidInput is the root of every rejected numeric or structural input.
	ErrInvalidInput = errors.New("invalid input")

	ErrInvalidStrategy   = fmt.Errorf("%w: unknown strategy", ErrInvalidInput)
	ErrInvalidPreference = fmt.Errorf("%w: unknown preference", ErrInvalidInput)
	ErrNoObligations     = fmt.Errorf("%w: no obligations provided", ErrInvalidInput)
	ErrTooManyDebts      = fmt.Errorf("%w: too many obligations", ErrInvalidInput)
	ErrNoViableTerm      = errors.New("no term satisfies the maximum monthly payment")
)

// ValidationError names the offending field. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNoViableTerm)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// checkAmount validates a money or rate figure against [min, max]. Open lower
// bounds are expressed with strictMin.
func checkAmount(field string, v, min, max float64, strictMin bool) error {
	if !finite(v) {
		return invalid(field, "must be a finite number")
	}
	if strictMin && v <= min {
		return invalid(field, "must be greater than %v", min)
	}
	if v < min {
		return invalid(field, "must be at least %v", min)
	}
	if v > max {
		return invalid(field, "exceeds the maximum of %v", max)
	}
	return nil
}
