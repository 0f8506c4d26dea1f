package textutil

import "strings"

// CountWords returns the number of whitespace-delimited non-empty tokens
// in text. Empty input counts as zero. Word counts stored on chapters and
// versions are always derived through this function.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
