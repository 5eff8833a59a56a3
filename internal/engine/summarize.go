package engine

import (
	"strings"
	"unicode/utf8"
)

const (
	// maxImportantLines caps the retained important-line set.
	maxImportantLines = 24
	// maxRenderedRequirements caps how many of those lines are rendered
	// in the "Key requirements" section.
	maxRenderedRequirements = 14
	// maxReferenceURLs caps the "References" section.
	maxReferenceURLs = 8
	// minTrimLines is the floor for the line-drop trim: below this the
	// trim switches to a hard slice.
	minTrimLines = 2
)

// Summarize condenses text to at most targetChars characters by
// extraction: the first paragraph is kept as the primary request,
// heading/bullet/URL/requirement lines are kept (deduplicated by
// NormalizeLineKey), and up to maxReferenceURLs distinct URLs are listed.
// Already-short input is returned unchanged, which makes repeated
// application idempotent. Deterministic: dedup order follows first
// occurrence, no randomness.
func Summarize(text string, targetChars int) string {
	text = strings.TrimSpace(text)
	if targetChars < 1 {
		targetChars = 1
	}
	if len(text) <= targetChars {
		return text
	}

	intro := firstParagraph(text)
	important := importantLines(text)
	urls := extractURLs(text, maxReferenceURLs)

	var lines []string
	if intro != "" {
		lines = append(lines, "Primary request:", intro)
	}
	if len(important) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "Key requirements:")
		n := len(important)
		if n > maxRenderedRequirements {
			n = maxRenderedRequirements
		}
		for _, l := range important[:n] {
			lines = append(lines, "- "+l)
		}
	}
	if len(urls) > 0 {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "References:")
		lines = append(lines, urls...)
	}

	assembled := trimToTarget(strings.Join(lines, "\n"), targetChars)
	if strings.TrimSpace(assembled) == "" {
		// Nothing survived extraction; fall back to the raw intro.
		return strings.TrimRight(sliceAtRune(intro, targetChars), " \t\n")
	}
	return assembled
}

// NormalizeLineKey reduces a line to its dedup key: lowercased, markdown
// punctuation (` * _ > # -) stripped, whitespace collapsed. Two
// paraphrased repeats that differ only in case or markdown decoration
// collapse to the same key.
func NormalizeLineKey(line string) string {
	s := strings.ToLower(line)
	s = lineKeyStripper.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

var lineKeyStripper = strings.NewReplacer(
	"`", "", "*", "", "_", "", ">", "", "#", "", "-", "",
)

// firstParagraph returns the text up to the first blank-line break.
func firstParagraph(text string) string {
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return strings.TrimSpace(text)
}

// importantLines scans all lines and keeps headings, bullets, URL lines
// and requirement-keyword lines, deduplicated by NormalizeLineKey, capped
// at maxImportantLines. Leading bullet markers are stripped so the
// summarizer can re-bullet uniformly.
func importantLines(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !isImportantLine(trimmed) {
			continue
		}
		key := NormalizeLineKey(trimmed)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(bulletRe.ReplaceAllString(trimmed, "")))
		if len(out) == maxImportantLines {
			break
		}
	}
	return out
}

func isImportantLine(trimmed string) bool {
	if strings.HasSuffix(trimmed, ":") {
		return true
	}
	if bulletRe.MatchString(trimmed) {
		return true
	}
	if urlRe.MatchString(trimmed) {
		return true
	}
	return containsRequirementKeyword(trimmed)
}

// extractURLs returns up to max distinct URLs in first-occurrence order.
func extractURLs(text string, max int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, u := range urlRe.FindAllString(text, -1) {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
		if len(out) == max {
			break
		}
	}
	return out
}

// trimToTarget drops trailing lines while the text exceeds targetChars
// and more than minTrimLines lines remain, then hard-slices as a last
// resort. Monotonically non-increasing in length.
func trimToTarget(text string, targetChars int) string {
	lines := strings.Split(text, "\n")
	for len(text) > targetChars && len(lines) > minTrimLines {
		lines = lines[:len(lines)-1]
		text = strings.TrimRight(strings.Join(lines, "\n"), " \t\n")
		lines = strings.Split(text, "\n")
	}
	if len(text) > targetChars {
		text = strings.TrimRight(sliceAtRune(text, targetChars), " \t\n")
	}
	return text
}

// sliceAtRune slices s to at most n bytes without splitting a UTF-8
// sequence.
func sliceAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
