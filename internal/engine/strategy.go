package engine

// Force-phase ceilings: absolute lengths beyond which a prompt is always
// decomposed into phases regardless of complexity. Audit reports get a
// higher ceiling because their length is legitimate.
const (
	ForcePhaseAuditChars   = 30000
	ForcePhaseDefaultChars = 12000
)

// largePromptFactor is how far past the soft budget a prompt must be
// before the audit and plan-mode triggers consider it "large".
const largePromptFactor = 1.15

// SelectionInput carries everything the decision table looks at.
type SelectionInput struct {
	OriginalLength    int
	BudgetTarget      int
	ComplexityScore   int
	PromptType        PromptType
	BuildIntent       string
	IsFirstPrompt     bool
	PlanModePreferred bool
}

// SelectStrategy picks the transformation strategy. Decision order:
// empty text and within-budget text pass through; then three independent
// phasing triggers are evaluated (force-phase ceiling, high complexity,
// plan-mode preference), any one sufficient; anything else that is over
// budget gets a single summarization pass.
func SelectStrategy(in SelectionInput) (Strategy, Reason) {
	if in.OriginalLength == 0 {
		return StrategyDirect, ReasonEmptyPrompt
	}
	if in.OriginalLength <= in.BudgetTarget {
		return StrategyDirect, ReasonWithinBudget
	}

	if in.OriginalLength > forcePhaseCeiling(in.PromptType) {
		return StrategyPhased, ReasonForcePhaseThreshold
	}

	largePrompt := float64(in.OriginalLength) > float64(in.BudgetTarget)*largePromptFactor
	switch {
	case in.ComplexityScore >= HighComplexityThreshold:
		return StrategyPhased, ReasonHighComplexity
	case in.PromptType == PromptAudit && largePrompt:
		return StrategyPhased, ReasonHighComplexity
	case in.IsFirstPrompt && IsAppIntent(in.BuildIntent):
		// Already over budget at this point.
		return StrategyPhased, ReasonHighComplexity
	}

	if in.IsFirstPrompt && in.PlanModePreferred && largePrompt {
		return StrategyPhased, ReasonPlanModeLargePrompt
	}

	return StrategySummarize, ReasonOverBudgetSummarized
}

func forcePhaseCeiling(promptType PromptType) int {
	if promptType == PromptAudit {
		return ForcePhaseAuditChars
	}
	return ForcePhaseDefaultChars
}
