package ransac

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned for parameters outside their valid range.
	// Detected before a run starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInsufficientData means the point set cannot form a single hypothesis.
	ErrInsufficientData = errors.New("insufficient data: need at least 2 points")

	// ErrDegenerateModel is returned when a line is built from coincident points.
	ErrDegenerateModel = errors.New("degenerate model: support points coincide")

	// ErrDegenerateSample is returned by the sampler when it could not draw a
	// usable pair within its attempt budget. It wraps ErrDegenerateModel.
	ErrDegenerateSample = fmt.Errorf("no non-degenerate sample found: %w", ErrDegenerateModel)

	// ErrRunFailure means no trial in the whole run produced a valid model.
	ErrRunFailure = errors.New("run failed: no trial produced a model")
)

// ConfigError describes a single rejected parameter.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v: %s=%v: %s", ErrConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}
