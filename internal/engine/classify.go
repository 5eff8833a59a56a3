package engine

import (
	"regexp"
	"strings"
)

// technicalVocabulary marks follow-up prompts that talk about code-level
// fixes. Hard-coded English/Swedish mix matching real traffic; a brittle
// heuristic with no recall guarantee, kept deliberately simple.
var technicalVocabulary = []string{
	"react", "next.js", "nextjs", "typescript", "javascript", "tailwind",
	"shadcn", "supabase", "prisma", "vercel",
	"fix the issues", "stack trace", "console error",
	"fixa buggen", "fixa felen", "komponenten", "felmeddelande", "konsolen",
}

// fileExtensionRe matches mentions of source-file extensions.
var fileExtensionRe = regexp.MustCompile(`\.(tsx|ts|jsx|js|css|scss|html|json|mjs)\b`)

// ClassifyPromptType assigns a prompt category. Explicit hints win over
// everything; conversation position decides between follow-up flavors;
// first-turn prompts without hints stay unknown so that the complexity
// scorer, not the classifier, resolves the ambiguity.
func ClassifyPromptType(buildMethod, buildIntent string, isFirstPrompt bool, normalized string) PromptType {
	method := strings.ToLower(strings.TrimSpace(buildMethod))
	intent := strings.ToLower(strings.TrimSpace(buildIntent))

	switch method {
	case "audit":
		return PromptAudit
	case "wizard":
		return PromptWizard
	case "freeform", "free":
		return PromptFreeform
	case "category":
		return PromptTemplate
	}
	if intent == "template" {
		return PromptTemplate
	}

	if !isFirstPrompt {
		if looksTechnical(normalized) {
			return PromptFollowupTechnical
		}
		return PromptFollowupGeneral
	}

	return PromptUnknown
}

// looksTechnical reports whether a follow-up reads like a code-level fix
// request: a fenced code block, framework vocabulary, or file-extension
// mentions.
func looksTechnical(text string) bool {
	if strings.Contains(text, "```") {
		return true
	}
	lower := strings.ToLower(text)
	for _, term := range technicalVocabulary {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return fileExtensionRe.MatchString(lower)
}
