package domain

import "fmt"

// ConfigurationError indicates invalid simulation input. It aborts the
// entire batch before any trial runs.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration: %s", e.Reason)
	}
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// NewConfigurationError creates a ConfigurationError for a named field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// SamplingError indicates the historical observation set cannot satisfy a
// draw request, such as a no-replacement variant exhausting the set. The
// with-replacement sampler never produces it; invalid draw lengths are
// ConfigurationErrors.
type SamplingError struct {
	Reason string
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("sampling: %s", e.Reason)
}

// ComputationError indicates a per-trial calculation failure. It is recorded
// and excluded from aggregation rather than aborting the batch.
type ComputationError struct {
	Op  string
	Err error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation: %s: %v", e.Op, e.Err)
}

func (e *ComputationError) Unwrap() error { return e.Err }
