package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two fatal failure classes. Heuristic "nothing
// found" outcomes are empty results, never errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConfig       = errors.New("invalid configuration")
)

// InputErrorf wraps ErrInvalidInput with enough context to fix the input.
func InputErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ConfigErrorf wraps ErrConfig with the offending field and reason.
func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// ValidateNotes rejects malformed note sequences before any stage runs.
// An empty sequence is not malformed; stages treat it as a degenerate
// input and produce empty outputs.
func ValidateNotes(notes []Note) error {
	for i, n := range notes {
		if n.Pitch > 127 {
			return InputErrorf("note %d: pitch %d out of range [0,127]", i, n.Pitch)
		}
		if n.Velocity > 127 {
			return InputErrorf("note %d: velocity %d out of range [0,127]", i, n.Velocity)
		}
		if n.Duration <= 0 {
			return InputErrorf("note %d: duration %d must be positive", i, n.Duration)
		}
		if n.Start < 0 {
			return InputErrorf("note %d: start %d must not be negative", i, n.Start)
		}
	}
	return nil
}
