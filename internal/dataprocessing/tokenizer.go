package dataprocessing

import "strings"

// SplitLine splits one delimited line into trimmed fields.
//
// A double quote toggles quoted mode and is never copied into a field; sep
// only separates fields outside quotes. The final field is always emitted,
// so "a,b," yields three fields and an empty line yields one empty field.
// A doubled quote inside a quoted field toggles twice and disappears.
func SplitLine(line string, sep rune) []string {
	fields := make([]string, 0, 12)
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == sep && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(fields, strings.TrimSpace(current.String()))
}
