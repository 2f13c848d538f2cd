package utils

import (
	"unicode"
)

// IsIdentifierRune reports whether r may appear in a completion title prefix
func IsIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}

// IsOnlyNumbers checks if a string consists entirely of numeric digits
func IsOnlyNumbers(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidInput checks if a prefix should be looked up at all.
// Numbers typed as values and prefixes holding operators or spaces never
// name a function or constant.
func IsValidInput(s string) bool {
	if len(s) == 0 || IsOnlyNumbers(s) {
		return false
	}
	for _, r := range s {
		if !IsIdentifierRune(r) {
			return false
		}
	}
	return true
}
