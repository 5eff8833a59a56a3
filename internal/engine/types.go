// Package engine decides how a user-authored prompt fits into the
// downstream completion service's input budget: forward it unchanged,
// condense it, or restructure it into a three-phase execution plan.
//
// DESIGN: Single-pass pipeline of pure functions:
//  1. Normalize:            canonicalize line endings and whitespace
//  2. ClassifyPromptType:   closed prompt categories from hints and shape
//  3. ResolveTarget:        category -> soft character budget
//  4. AnalyzeSignals + ScoreComplexity: structural complexity score 0-8
//  5. SelectStrategy:       direct | summarize | phase_plan_build_polish
//  6. Summarize / BuildPhasedMessage, then hard-cap enforcement
//
// The engine performs no I/O, holds no state across calls, and never
// raises an error: every input shape yields a valid result. Identical
// inputs always produce identical outputs. The engine prepares the
// message for the completion service but never calls it.
//
// FILES:
//   - types.go:     enums, StrategyMeta, input/output records
//   - normalize.go: line-ending and whitespace canonicalization
//   - classify.go:  prompt type classification
//   - budget.go:    per-category soft budget table
//   - signals.go:   structural signal extraction and scoring
//   - strategy.go:  strategy decision table
//   - summarize.go: extractive condensation
//   - phase.go:     plan/build/polish scaffold
//   - engine.go:    pipeline driver and hard-cap safety net
package engine

// PromptType is the closed set of prompt categories. Assigned once per
// invocation, immutable thereafter.
type PromptType string

const (
	PromptAudit             PromptType = "audit"
	PromptWizard            PromptType = "wizard"
	PromptFreeform          PromptType = "freeform"
	PromptTemplate          PromptType = "template"
	PromptFollowupGeneral   PromptType = "followup_general"
	PromptFollowupTechnical PromptType = "followup_technical"
	PromptUnknown           PromptType = "unknown"
)

// Strategy is the closed set of transformations the engine can apply.
type Strategy string

const (
	// StrategyDirect forwards the normalized message unchanged.
	StrategyDirect Strategy = "direct"
	// StrategySummarize applies a single extractive condensation pass.
	StrategySummarize Strategy = "summarize"
	// StrategyPhased wraps a condensed message in a fixed three-phase
	// execution scaffold.
	StrategyPhased Strategy = "phase_plan_build_polish"
)

// Reason is the diagnostic tag explaining why a strategy was selected.
// The hard-cap enforcer appends HardCapSuffix when the safety net fires.
type Reason string

const (
	ReasonEmptyPrompt          Reason = "empty_prompt"
	ReasonWithinBudget         Reason = "within_budget"
	ReasonForcePhaseThreshold  Reason = "force_phase_threshold"
	ReasonHighComplexity       Reason = "high_complexity"
	ReasonPlanModeLargePrompt  Reason = "plan_mode_large_prompt"
	ReasonOverBudgetSummarized Reason = "over_budget_summarized"
)

// HardCapSuffix marks reasons where the hard-cap safety net was invoked.
const HardCapSuffix = "_hard_cap"

// ComplexitySignals holds the structural signals extracted from the
// normalized text. Derived purely from the text, no external state.
type ComplexitySignals struct {
	LineCount               int `json:"lineCount"`
	BulletCount             int `json:"bulletCount"`
	HeadingLikeCount        int `json:"headingLikeCount"`
	SectionMarkerCount      int `json:"sectionMarkerCount"`
	URLCount                int `json:"urlCount"`
	RequirementKeywordCount int `json:"requirementKeywordCount"`
}

// StrategyMeta describes the decision the engine took for one invocation.
type StrategyMeta struct {
	Strategy        Strategy   `json:"strategy"`
	PromptType      PromptType `json:"promptType"`
	BudgetTarget    int        `json:"budgetTarget"`
	OriginalLength  int        `json:"originalLength"`
	OptimizedLength int        `json:"optimizedLength"`
	ReductionRatio  float64    `json:"reductionRatio"`
	Reason          string     `json:"reason"`
	PhaseHints      []string   `json:"phaseHints,omitempty"`
	ComplexityScore int        `json:"complexityScore"`
	WasChanged      bool       `json:"wasChanged"`
}

// OptimizeInput is the single structured argument to Optimize.
// Message may be empty; every optional field has a documented default
// (empty string, false, or zero).
type OptimizeInput struct {
	Message                    string
	BuildMethod                string
	BuildIntent                string
	IsFirstPrompt              bool
	PlanModeFirstPromptEnabled bool
	AttachmentsCount           int
	// HardCap is the absolute maximum length the caller accepts,
	// clamped to [HardCapMin, SystemMaxChars]. Zero or negative means
	// SystemMaxChars.
	HardCap int
}

// OptimizeResult pairs the final message with its decision metadata.
// FinalMessage never exceeds the clamped hard cap.
type OptimizeResult struct {
	FinalMessage string       `json:"finalMessage"`
	Meta         StrategyMeta `json:"strategyMeta"`
}
