package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a user-supplied node id.
//
// The validation rules:
//   - No empty ids
//   - No control characters (this also rejects the reserved root id "\x00")
//   - Maximum length of 512 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > 512 {
		return New(ErrCodeInvalidInput, "node id too long (max 512 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node id %q contains control characters", id)
		}
	}

	return nil
}

// ValidateDirection validates a layout direction hint.
// Empty means the default (horizontal) direction.
func ValidateDirection(direction string) error {
	switch direction {
	case "", "vertical", "horizontal":
		return nil
	default:
		return New(ErrCodeInvalidInput, "invalid direction %q (must be 'vertical' or 'horizontal')", direction)
	}
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
