package engine

import "math"

// System-wide hard-cap bounds, in characters. The caller-supplied hard
// cap is clamped into [HardCapMin, SystemMaxChars]; an absent cap means
// SystemMaxChars.
const (
	HardCapMin     = 2000
	SystemMaxChars = 50000
)

// emergencyHeadroom is subtracted from the hard cap when the safety net
// re-summarizes, so the result lands comfortably under the cap.
const emergencyHeadroom = 200

// ratioPrecision rounds reduction ratios to 4 decimals.
const ratioPrecision = 10000

// Optimize runs the full pipeline over one input and returns the final
// message plus decision metadata. It never fails: undefined or empty
// messages pass through, and the hard-cap safety net guarantees the
// final message never exceeds the clamped cap.
func Optimize(in OptimizeInput) OptimizeResult {
	normalized := Normalize(in.Message)
	originalLength := len(normalized)

	promptType := ClassifyPromptType(in.BuildMethod, in.BuildIntent, in.IsFirstPrompt, normalized)
	budgetTarget := ResolveTarget(promptType, in.BuildIntent)

	signals := AnalyzeSignals(normalized)
	attachments := in.AttachmentsCount
	if attachments < 0 {
		attachments = 0
	}
	score := ScoreComplexity(signals, attachments)

	strategy, reason := SelectStrategy(SelectionInput{
		OriginalLength:    originalLength,
		BudgetTarget:      budgetTarget,
		ComplexityScore:   score,
		PromptType:        promptType,
		BuildIntent:       in.BuildIntent,
		IsFirstPrompt:     in.IsFirstPrompt,
		PlanModePreferred: in.PlanModeFirstPromptEnabled,
	})

	final := normalized
	var hints []string
	switch strategy {
	case StrategySummarize:
		final = Summarize(normalized, budgetTarget)
	case StrategyPhased:
		condensed := Summarize(normalized, PhaseSummaryTarget(budgetTarget))
		final = BuildPhasedMessage(condensed, promptType)
		hints = PhaseHintLabels()
	}

	reasonTag := string(reason)
	hardCap := ClampHardCap(in.HardCap)
	if len(final) > hardCap {
		final = enforceHardCap(final, hardCap, budgetTarget)
		reasonTag += HardCapSuffix
	}

	ratio := 0.0
	if strategy != StrategyDirect && originalLength > 0 {
		ratio = float64(originalLength-len(final)) / float64(originalLength)
		ratio = math.Round(clamp01(ratio)*ratioPrecision) / ratioPrecision
	}

	return OptimizeResult{
		FinalMessage: final,
		Meta: StrategyMeta{
			Strategy:        strategy,
			PromptType:      promptType,
			BudgetTarget:    budgetTarget,
			OriginalLength:  originalLength,
			OptimizedLength: len(final),
			ReductionRatio:  ratio,
			Reason:          reasonTag,
			PhaseHints:      hints,
			ComplexityScore: score,
			WasChanged:      final != normalized,
		},
	}
}

// ClampHardCap clamps a caller-supplied hard cap into the system bounds.
// Zero or negative means "no preference" and resolves to SystemMaxChars.
func ClampHardCap(hardCap int) int {
	switch {
	case hardCap <= 0:
		return SystemMaxChars
	case hardCap < HardCapMin:
		return HardCapMin
	case hardCap > SystemMaxChars:
		return SystemMaxChars
	default:
		return hardCap
	}
}

// enforceHardCap is the strategy-independent safety net: one bounded
// re-summarization of the candidate against an emergency target, then an
// unconditional line-drop trim against the cap itself. The emergency
// target is always strictly below the cap, so this terminates in at most
// two passes.
func enforceHardCap(candidate string, hardCap, budgetTarget int) string {
	emergency := hardCap - emergencyHeadroom
	if budgetTarget < emergency {
		emergency = budgetTarget
	}
	if emergency < minPhaseSummaryTarget {
		emergency = minPhaseSummaryTarget
	}

	out := Summarize(candidate, emergency)
	if len(out) > hardCap {
		out = trimToTarget(out, hardCap)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
