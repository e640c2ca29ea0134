package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Limits for user-supplied values.
const (
	MaxPresetNameLength = 64

	// MaxDimension is the largest paper or ratio dimension accepted (inches).
	MaxDimension = 100.0
)

// ValidatePresetName validates a preset name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of 64 characters
func ValidatePresetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}

	if utf8.RuneCountInString(name) > MaxPresetNameLength {
		return New(ErrCodeInvalidPreset, "preset name too long (max %d characters)", MaxPresetNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPreset, "preset name contains invalid control characters")
		}
	}

	return nil
}

// ValidateDimension checks that a paper or ratio dimension is a finite,
// positive number no larger than MaxDimension.
func ValidateDimension(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidDimension, "%s must be a finite number", field)
	}
	if v <= 0 {
		return New(ErrCodeInvalidDimension, "%s must be positive, got %g", field, v)
	}
	if v > MaxDimension {
		return New(ErrCodeInvalidDimension, "%s too large (max %g), got %g", field, MaxDimension, v)
	}
	return nil
}

// ValidateBorder checks that a border or offset is finite and, for borders,
// not negative.
func ValidateBorder(field string, v float64, allowNegative bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number", field)
	}
	if !allowNegative && v < 0 {
		return New(ErrCodeInvalidInput, "%s cannot be negative, got %g", field, v)
	}
	if math.Abs(v) > MaxDimension {
		return New(ErrCodeInvalidInput, "%s too large (max %g), got %g", field, MaxDimension, v)
	}
	return nil
}

// presetIDRegex matches stored preset IDs (UUIDs or short slugs).
var presetIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidatePresetID validates a stored preset ID. IDs end up in file names
// and database keys, so path separators and traversal are rejected.
func ValidatePresetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "preset id cannot be empty")
	}
	if !presetIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid preset id: %q", id)
	}
	return nil
}
