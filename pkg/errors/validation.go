package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Resolution bounds accepted for a canvas. The upper bound covers 8K
// displays; anything larger is almost certainly a typo.
const (
	MinCanvasDimension = 100
	MaxCanvasDimension = 8192
)

// ValidateDocumentName validates a stored dashboard name for safety.
// Names become file names and database keys, so the rules are conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - No control characters or null bytes
//   - No path separators or traversal sequences
func ValidateDocumentName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidName, "dashboard name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidName, "dashboard name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "dashboard name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidName, "dashboard name contains invalid characters: %q", pattern)
		}
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidName, "dashboard name cannot start with a dot")
	}

	return nil
}

// ValidateResolution checks that a canvas size is within supported bounds.
func ValidateResolution(width, height float64) error {
	if width < MinCanvasDimension || height < MinCanvasDimension {
		return New(ErrCodeInvalidResolution, "canvas resolution %gx%g is below the minimum of %d", width, height, MinCanvasDimension)
	}
	if width > MaxCanvasDimension || height > MaxCanvasDimension {
		return New(ErrCodeInvalidResolution, "canvas resolution %gx%g exceeds the maximum of %d", width, height, MaxCanvasDimension)
	}
	return nil
}

// hexColorRegex matches #rgb, #rrggbb and #rrggbbaa colors.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateColor validates a CSS hex color string.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color %q (want #rgb or #rrggbb)", color)
	}
	return nil
}
