package engine

import "strings"

// phaseHints are the fixed phase labels, independent of prompt content.
var phaseHints = [...]string{"Plan", "Build core", "Polish and validate"}

const (
	// phaseSummaryShare is how much of the soft budget the condensed
	// source inside a phased message may use.
	phaseSummaryShare = 0.85
	// minPhaseSummaryTarget keeps the condensed source from collapsing
	// below a useful size.
	minPhaseSummaryTarget = 1200
)

// PhaseHintLabels returns a copy of the three-phase label list.
func PhaseHintLabels() []string {
	return append([]string(nil), phaseHints[:]...)
}

// PhaseSummaryTarget returns the summarization target used inside a
// phased message: 85% of the budget, but at least minPhaseSummaryTarget.
func PhaseSummaryTarget(budgetTarget int) int {
	target := int(float64(budgetTarget) * phaseSummaryShare)
	if target < minPhaseSummaryTarget {
		target = minPhaseSummaryTarget
	}
	return target
}

// BuildPhasedMessage wraps an already-condensed request in the fixed
// Plan/Build/Polish scaffold. The preamble wording is tailored for audit
// reports; the condensed source is appended verbatim.
func BuildPhasedMessage(summary string, promptType PromptType) string {
	var b strings.Builder
	if promptType == PromptAudit {
		b.WriteString("This audit report is too large to act on in a single pass. Work through it in three phases:\n\n")
	} else {
		b.WriteString("This request is too large to execute in a single pass. Work through it in three phases:\n\n")
	}
	b.WriteString("Phase 1 - Plan: outline the structure and the key decisions before building.\n")
	b.WriteString("Phase 2 - Build core: implement the primary layout and functionality.\n")
	b.WriteString("Phase 3 - Polish and validate: refine details and verify every stated requirement.\n\n")
	b.WriteString("If any instructions conflict, prioritize explicit user requirements.\n\n")
	b.WriteString(summary)
	return b.String()
}
