// Package utils provides helpers for C and C++ qualified names
package utils

import (
	"strings"
)

// SplitPath splits a C++ qualified name into parts
func SplitPath(path string) []string {
	// Handle global scope
	if path == "" || path == "::" {
		return []string{}
	}

	// Remove leading/trailing ::
	path = strings.Trim(path, ":")
	if path == "" {
		return []string{}
	}

	return strings.Split(path, "::")
}

// JoinPath joins path parts into a C++ qualified name
func JoinPath(parts []string) string {
	if len(parts) == 0 {
		return "::"
	}
	return strings.Join(parts, "::")
}

// IsValidCppIdentifier checks if a string is a valid C++ identifier
func IsValidCppIdentifier(name string) bool {
	if name == "" {
		return false
	}

	// Must start with letter or underscore
	if !isLetter(rune(name[0])) && name[0] != '_' {
		return false
	}

	// Rest must be letters, digits, or underscores
	for _, char := range name[1:] {
		if !isLetter(char) && !isDigit(char) && char != '_' {
			return false
		}
	}

	return true
}

// IsQualifiedName reports whether name is an identifier or a sequence of
// identifiers joined by "::", optionally starting with "::". A destructor
// segment (~Name) is accepted last.
func IsQualifiedName(name string) bool {
	parts := SplitPath(RemoveTemplateParams(strings.TrimSpace(name)))
	if len(parts) == 0 {
		return false
	}
	for i, part := range parts {
		if i == len(parts)-1 {
			part = strings.TrimPrefix(part, "~")
		}
		if !IsValidCppIdentifier(part) {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// RemoveTemplateParams removes template parameters from a type name
func RemoveTemplateParams(typeName string) string {
	depth := 0
	var result strings.Builder

	for _, char := range typeName {
		if char == '<' {
			depth++
		} else if char == '>' {
			depth--
		} else if depth == 0 {
			result.WriteRune(char)
		}
	}

	return result.String()
}
