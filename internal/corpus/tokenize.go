package corpus

import "strings"

// Tokenize normalizes a query string the same way the preprocessing step
// tokenizes documents: lowercase, split on whitespace, strip surrounding
// punctuation, and drop single-character tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()[]{}|-")
		if len([]rune(f)) > 1 {
			tokens = append(tokens, f)
		}
	}

	return tokens
}
