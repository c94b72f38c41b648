package errors

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength bounds node, edge and container identifiers.
const MaxIdentifierLength = 256

// ValidateIdentifier validates a node or container identifier.
// kind names the element in the error message ("node", "container").
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - Maximum length of [MaxIdentifierLength] bytes
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "%s id cannot be empty", kind)
	}

	if len(id) > MaxIdentifierLength {
		return New(ErrCodeInvalidGraph, "%s id too long (max %d characters)", kind, MaxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "%s id %q contains control characters", kind, id)
		}
	}

	return nil
}

// ValidateOutputPath validates a path the CLI is about to write.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path %q names a directory", path)
	}

	return nil
}
