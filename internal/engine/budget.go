package engine

import "strings"

// Soft budget targets per category, in characters. Audit prompts get the
// largest budget because they legitimately carry structured findings;
// technical follow-ups get the tightest one. Character counts are a proxy
// for the completion service's token limits, which the engine does not
// know.
const (
	BudgetAudit             = 9000
	BudgetWizard            = 3500
	BudgetFreeform          = 3000
	BudgetTemplate          = 2500
	BudgetFollowupGeneral   = 2000
	BudgetFollowupTechnical = 1800
	// BudgetAppIntent applies when an unknown prompt carries an
	// "app"-style build intent hint.
	BudgetAppIntent = 4500
)

// ResolveTarget maps a prompt category (and the auxiliary intent hint) to
// its soft target length. Pure table lookup.
func ResolveTarget(promptType PromptType, buildIntent string) int {
	switch promptType {
	case PromptAudit:
		return BudgetAudit
	case PromptWizard:
		return BudgetWizard
	case PromptFreeform:
		return BudgetFreeform
	case PromptTemplate:
		return BudgetTemplate
	case PromptFollowupGeneral:
		return BudgetFollowupGeneral
	case PromptFollowupTechnical:
		return BudgetFollowupTechnical
	default:
		if IsAppIntent(buildIntent) {
			return BudgetAppIntent
		}
		return BudgetFreeform
	}
}

// IsAppIntent reports whether the intent hint describes an "app"-style
// build, which earns a larger budget and an extra phasing trigger.
func IsAppIntent(buildIntent string) bool {
	switch strings.ToLower(strings.TrimSpace(buildIntent)) {
	case "app", "application", "webapp", "web-app":
		return true
	}
	return false
}
