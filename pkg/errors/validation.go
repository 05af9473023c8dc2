package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// hexColorRegex matches 3-, 6- and 8-digit hex color strings with a leading #.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a hex color string such as "#1A9850".
// An empty string is accepted and means "no color" (transparent / no border).
func ValidateHexColor(s string) error {
	if s == "" {
		return nil
	}
	if !hexColorRegex.MatchString(s) {
		return New(ErrCodeInvalidColors, "invalid hex color: %q", s)
	}
	return nil
}

// variableNameRegex matches valid NetCDF variable names. CDL identifiers
// start with a letter or underscore and continue with word characters.
var variableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.@+-]*$`)

// ValidateVariableName validates a NetCDF variable name.
func ValidateVariableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGrid, "variable name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidGrid, "variable name too long (max 256 characters)")
	}
	if !variableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidGrid, "invalid variable name: %q", name)
	}
	return nil
}

// regionNameRegex matches region identifiers used in plot specs and URLs.
var regionNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateRegionName validates a named region identifier.
func ValidateRegionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRegion, "region name cannot be empty")
	}
	if !regionNameRegex.MatchString(name) {
		return New(ErrCodeInvalidRegion, "invalid region name: %q", name)
	}
	return nil
}

// ValidateOutputPath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
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

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
