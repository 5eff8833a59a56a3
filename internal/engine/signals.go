package engine

import (
	"regexp"
	"strings"
)

var (
	// bulletRe matches leading bullet or enumerated-list markers:
	// "-", "*", "•", "1." or "1)".
	bulletRe = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)

	// headingCapsRe matches lines consisting entirely of uppercase
	// letters, digits, spaces and underscores — the ALL-CAPS section
	// header convention.
	headingCapsRe = regexp.MustCompile(`^[A-Z0-9 _]+$`)

	urlRe = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
)

// sectionMarkers are domain section keywords whose distinct presence
// indicates a structured, multi-part request. The Swedish entries mirror
// what real traffic contains.
var sectionMarkers = []string{
	"goal", "goals", "constraint", "constraints",
	"requirement", "requirements", "scope", "problem",
	"improvement", "improvements", "audit", "finding", "findings",
	"background", "objective", "deliverable", "deliverables",
	"mål", "krav",
}

// requirementKeywords are requirement-style words whose distinct presence
// indicates demands beyond plain prose.
var requirementKeywords = []string{
	"must", "need", "needs", "required", "require", "avoid",
	"accessibility", "seo", "performance", "responsive", "wcag",
	"security", "gdpr", "mobile", "contrast",
}

const minCapsHeadingLen = 8

// AnalyzeSignals extracts structural signals from normalized text. Each
// extractor is independent and operates over the line array; no signal
// depends on another.
func AnalyzeSignals(normalized string) ComplexitySignals {
	var s ComplexitySignals
	if normalized == "" {
		return s
	}

	for _, line := range strings.Split(normalized, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		s.LineCount++
		if bulletRe.MatchString(trimmed) {
			s.BulletCount++
		}
		if isHeadingLike(trimmed) {
			s.HeadingLikeCount++
		}
	}

	s.URLCount = len(urlRe.FindAllString(normalized, -1))

	words := wordSet(normalized)
	s.SectionMarkerCount = countPresent(words, sectionMarkers)
	s.RequirementKeywordCount = countPresent(words, requirementKeywords)

	return s
}

// ScoreComplexity reduces the signals and attachment count to a bounded
// integer score via an additive point system. Maximum achievable score is
// 8; callers interpret the raw value (>= 4 means high complexity).
func ScoreComplexity(s ComplexitySignals, attachmentsCount int) int {
	score := 0
	if s.LineCount > 40 {
		score++
	}
	if s.LineCount > 80 {
		score++
	}
	if s.BulletCount > 10 {
		score++
	}
	if s.HeadingLikeCount > 6 {
		score++
	}
	if s.SectionMarkerCount > 3 {
		score++
	}
	if s.RequirementKeywordCount > 5 {
		score++
	}
	if s.URLCount > 3 {
		score++
	}
	if attachmentsCount > 4 {
		score++
	}
	return score
}

// HighComplexityThreshold is the score at or above which a prompt is
// considered structurally demanding enough for phased execution.
const HighComplexityThreshold = 4

// isHeadingLike reports whether a trimmed line looks like a section
// header: it ends with a colon, or is an ALL-CAPS line of at least
// minCapsHeadingLen characters.
func isHeadingLike(line string) bool {
	if strings.HasSuffix(line, ":") {
		return true
	}
	return len(line) >= minCapsHeadingLen && headingCapsRe.MatchString(line)
}

var wordSplitRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// wordSet tokenizes text into a lowercased word set for exact keyword
// presence checks (no substring false positives).
func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range wordSplitRe.Split(strings.ToLower(text), -1) {
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func countPresent(words map[string]struct{}, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if _, ok := words[kw]; ok {
			n++
		}
	}
	return n
}

// containsRequirementKeyword reports whether a single line carries any
// requirement-style keyword. Used by the summarizer's important-line scan.
func containsRequirementKeyword(line string) bool {
	return countPresent(wordSet(line), requirementKeywords) > 0
}
