package fec

import (
	"errors"
	"fmt"
)

// ErrUncorrectable is the error form of the Uncorrectable outcome. Decoders
// never return it; see Outcome.Err.
var ErrUncorrectable = errors.New("uncorrectable codeword")

// LengthError reports a sequence whose length does not match the configured
// block geometry. It is returned before any computation happens.
type LengthError struct {
	Kind     string // "message", "codeword" or "length mismatch"
	Expected int
	Actual   int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%v length == %v required but found %v", e.Kind, e.Expected, e.Actual)
}

// ConfigurationError reports an invalid parameter found while constructing a
// codec, channel or configuration.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %v: %v", e.Field, e.Reason)
}

// Configf builds a *ConfigurationError.
func Configf(field, format string, args ...interface{}) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// CheckProbability verifies p lies in [0,1].
func CheckProbability(field string, p float64) error {
	// written so NaN fails too
	if !(p >= 0 && p <= 1) {
		return Configf(field, "probability must be in [0,1] but found %v", p)
	}
	return nil
}
