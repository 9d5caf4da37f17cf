package errors

import (
	"strings"
	"unicode"
)

// ValidateBoardName validates a board name for safety and correctness.
// Board names become file names in the file-backed board store, so names
// that could be used for path traversal or injection are rejected.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateBoardName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidBoard, "board name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidBoard, "board name too long (max 128 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidBoard, "board name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidBoard, "board name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateRatioLabel validates an aspect-ratio label such as "16:9" or "1:1".
// The label is display-only but travels through the HTTP API and board files,
// so it must be a short width:height pair of positive integers.
func ValidateRatioLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidRatio, "ratio label cannot be empty")
	}

	parts := strings.Split(label, ":")
	if len(parts) != 2 {
		return New(ErrCodeInvalidRatio, "ratio label must have the form W:H, got %q", label)
	}

	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return New(ErrCodeInvalidRatio, "ratio label must have the form W:H, got %q", label)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return New(ErrCodeInvalidRatio, "ratio label must have the form W:H, got %q", label)
			}
		}
		if strings.TrimLeft(part, "0") == "" {
			return New(ErrCodeInvalidRatio, "ratio label sides must be positive, got %q", label)
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	// Check for control characters
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "URL contains invalid characters")
		}
	}

	return nil
}
