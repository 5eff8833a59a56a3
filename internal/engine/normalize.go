package engine

import "strings"

// Normalize canonicalizes raw message text: CRLF and bare CR become LF,
// trailing whitespace is stripped from every line, and the whole text is
// trimmed. The result is the baseline for all length and ratio
// calculations downstream.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
