package buddy

import "strings"

// Sanitize trims leading and trailing whitespace, newlines included.
// Internal whitespace is left untouched.
func Sanitize(s string) string {
	return strings.TrimSpace(s)
}

// StripQuote removes a leading block-quote marker and at most one following
// space from a callout line. Lines without a marker are returned as-is.
func StripQuote(line string) string {
	if !strings.HasPrefix(line, ">") {
		return line
	}
	line = line[1:]
	return strings.TrimPrefix(line, " ")
}
