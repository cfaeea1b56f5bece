package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Output formats accepted by the render stage.
var validFormats = map[string]bool{"svg": true, "png": true, "pdf": true, "json": true}

// Themes accepted by the SVG sink.
var validThemes = map[string]bool{"light": true, "dark": true}

// Layout strategies that may be forced by callers.
var validStrategies = map[string]bool{"": true, "auto": true, "semantic": true, "rank": true, "fixed": true}

// ValidateFormat checks that an output format is supported.
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a render theme is supported.
func ValidateTheme(theme string) error {
	if !validThemes[theme] {
		return New(ErrCodeInvalidTheme, "invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// ValidateStrategy checks that a forced layout strategy name is known.
// The empty string and "auto" both select the strategy from the input shape.
func ValidateStrategy(name string) error {
	if !validStrategies[name] {
		return New(ErrCodeInvalidStrategy, "invalid strategy: %q (must be one of: auto, semantic, rank, fixed)", name)
	}
	return nil
}

// ValidatePath checks a user-supplied output path before anything is
// written to it.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator, not "." or "..")
//
// Relative paths, including ones that climb with "..", are accepted: the
// CLI writes wherever its user points it.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "path %q names a directory, not a file", path)
	}
	if base := filepath.Base(path); base == "." || base == ".." {
		return New(ErrCodeInvalidPath, "path %q names a directory, not a file", path)
	}

	return nil
}
