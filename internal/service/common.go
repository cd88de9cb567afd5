package service

import "strings"

// MaxSelectionLength is the longest text a selection lookup will scan.
// Longer selections are treated as prose rather than a quantity.
const MaxSelectionLength = 100

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// SelectionTooLong reports whether text exceeds MaxSelectionLength runes.
func SelectionTooLong(text string) bool {
	return len([]rune(strings.TrimSpace(text))) > MaxSelectionLength
}
