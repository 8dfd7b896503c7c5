package stdbscan

import "fmt"

// ValidationError reports malformed input data or parameters: shape
// mismatches, ragged series, non-positive thresholds, or NaN/Inf values.
// All validation failures are detected before any heavy computation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "stdbscan: invalid input: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a warping-band configuration that cannot
// admit any alignment path for the given series length.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "stdbscan: invalid configuration: " + e.Reason
}

func configurationErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
