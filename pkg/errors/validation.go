package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxIDLength bounds station identifiers used as store keys and file names.
const maxIDLength = 128

// ValidateStationID validates a station identifier before it is used as a
// store key or file name. It rejects identifiers that could be used for
// path traversal or key injection.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateStationID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "station id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "station id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "station id contains invalid characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidID, "station id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateRatio checks that a divider ratio is a finite number in [0,1].
func ValidateRatio(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return New(ErrCodeInvalidInput, "ratio must be a finite number")
	}
	if r < 0 || r > 1 {
		return New(ErrCodeInvalidInput, "ratio %.3f out of range [0,1]", r)
	}
	return nil
}

// ValidateGap checks a divider gap width in pixels.
func ValidateGap(gap int) error {
	if gap < 0 {
		return New(ErrCodeInvalidConfig, "gap must not be negative (got %d)", gap)
	}
	if gap > 64 {
		return New(ErrCodeInvalidConfig, "gap too large (max 64, got %d)", gap)
	}
	return nil
}
