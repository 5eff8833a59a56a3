package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
)

func TestClassifyPromptType_ExplicitHints(t *testing.T) {
	tests := []struct {
		name        string
		buildMethod string
		buildIntent string
		want        engine.PromptType
	}{
		{"audit method", "audit", "", engine.PromptAudit},
		{"wizard method", "wizard", "", engine.PromptWizard},
		{"freeform method", "freeform", "", engine.PromptFreeform},
		{"freeform alias", "free", "", engine.PromptFreeform},
		{"category method", "category", "", engine.PromptTemplate},
		{"template intent", "", "template", engine.PromptTemplate},
		{"case insensitive", "AUDIT", "", engine.PromptAudit},
		{"hint beats followup position", "wizard", "", engine.PromptWizard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ClassifyPromptType(tt.buildMethod, tt.buildIntent, true, "some text")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPromptType_Followups(t *testing.T) {
	tests := []struct {
		name string
		text string
		want engine.PromptType
	}{
		{"fenced code block", "here is the error:\n```\nTypeError: x is undefined\n```", engine.PromptFollowupTechnical},
		{"framework name", "the react component does not re-render", engine.PromptFollowupTechnical},
		{"swedish fix phrasing", "kan du fixa buggen i komponenten?", engine.PromptFollowupTechnical},
		{"fix the issues phrase", "please fix the issues from the last run", engine.PromptFollowupTechnical},
		{"file extension mention", "the styles in globals.css are wrong", engine.PromptFollowupTechnical},
		{"plain wording", "make the hero section a bit warmer in tone", engine.PromptFollowupGeneral},
		{"empty followup", "", engine.PromptFollowupGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.ClassifyPromptType("", "", false, tt.text)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyPromptType_FirstTurnWithoutHintsIsUnknown(t *testing.T) {
	// Content-based classification is deliberately not applied on the
	// first turn; ambiguity is left to the complexity scorer.
	got := engine.ClassifyPromptType("", "", true, "build me a react app with tailwind")
	assert.Equal(t, engine.PromptUnknown, got)
}
