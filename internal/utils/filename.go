package utils

import (
	"path/filepath"
	"strings"
)

// NormalizeExtension returns the lowercased filename extension without the
// leading dot, or "" when the filename has no extension.
func NormalizeExtension(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExtension reports whether the filename carries one of the allowed
// extensions (case-insensitive).
func AllowedExtension(filename string, allowed []string) bool {
	ext := NormalizeExtension(filename)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}
