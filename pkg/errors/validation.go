package errors

import (
	"math"
)

// ValidatePositive checks that v is a finite number strictly greater than zero.
// name is the option key reported in the error message.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidOption, "%s must be a finite number, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeInvalidOption, "%s must be positive, got %v", name, v)
	}
	return nil
}

// ValidateFraction checks that v lies in the closed interval [0, 1].
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidOption, "%s must be within [0, 1], got %v", name, v)
	}
	return nil
}

// ValidateZoomRange checks a scale extent: both bounds positive and finite,
// and min not greater than max.
func ValidateZoomRange(min, max float64) error {
	if err := ValidatePositive("min_zoom", min); err != nil {
		return err
	}
	if err := ValidatePositive("max_zoom", max); err != nil {
		return err
	}
	if min > max {
		return New(ErrCodeInvalidOption, "min_zoom (%v) must not exceed max_zoom (%v)", min, max)
	}
	return nil
}

// ValidateCount checks that n is at least min.
func ValidateCount(name string, n, min int) error {
	if n < min {
		return New(ErrCodeInvalidOption, "%s must be at least %d, got %d", name, min, n)
	}
	return nil
}
