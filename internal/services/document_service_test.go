package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProposalFallbacksWithoutLLM(t *testing.T) {
	svc := NewDocumentService(nil)
	input := &DocumentInput{
		IdeaTitle:       "Invoice OCR",
		CompanyName:     "Acme",
		IdeaDescription: "Automate invoice data entry with OCR.",
		IdeaResearch: &IdeaResearch{
			Success: true,
			WhoIsImplementing: []Implementer{
				{Name: "BigCo", Description: "rolled out globally"},
			},
			ProsAndCons: ProsAndCons{
				Pros: []string{"saves manual effort"},
				Cons: []string{"OCR accuracy varies"},
			},
		},
		ResourceEstimation: &ResourceEstimate{
			Success:       true,
			TeamResources: []TeamResource{{Role: "Developer", Description: "Builds the pipeline"}},
			Timeline:      []TimelinePhase{{Phase: "Build", Duration: "6 weeks"}},
			SuccessMetrics: []SuccessMetric{
				{Metric: "Accuracy", TargetValue: "95%"},
			},
		},
	}

	doc := svc.GenerateProposal(context.Background(), input)

	assert.True(t, strings.HasPrefix(doc, "# Proof of Concept Proposal: Invoice OCR"))
	assert.Contains(t, doc, "*Prepared for: Acme*")

	// Every section heading is present even when the model is unavailable.
	for _, section := range proposalSections {
		assert.Contains(t, doc, "## "+section.title)
	}

	assert.Contains(t, doc, "Automate invoice data entry with OCR.")
	assert.Contains(t, doc, "- BigCo: rolled out globally")
	assert.Contains(t, doc, "- Build - Duration: 6 weeks")
	assert.Contains(t, doc, "- Accuracy: 95%")
}

func TestGenerateProposalUsesModelContent(t *testing.T) {
	reply := "This proof of concept delivers measurable value by automating a slow, error-prone manual process across the finance team."
	llm := (&fakeGenerator{}).on("expert business consultant", reply)
	svc := NewDocumentService(llm)

	doc := svc.GenerateProposal(context.Background(), &DocumentInput{IdeaTitle: "X", CompanyName: "Y"})
	assert.Contains(t, doc, reply)
	// One call per section.
	assert.Len(t, llm.calls, len(proposalSections))
}

func TestGenerateProposalShortReplyFallsBack(t *testing.T) {
	llm := (&fakeGenerator{}).on("expert business consultant", "ok")
	svc := NewDocumentService(llm)

	doc := svc.GenerateProposal(context.Background(), &DocumentInput{IdeaTitle: "X"})
	assert.NotContains(t, doc, "## Conclusion\n\nok")
	assert.Contains(t, doc, "viability and potential of the proposed business idea")
}

func TestBuildDocumentContextIncludesAnswers(t *testing.T) {
	input := &DocumentInput{
		IdeaTitle: "X",
		Questions: []DevQuestion{
			{Category: "Success Criteria", Question: "What proves it works?", Key: "q1"},
			{Category: "Data & Inputs", Question: "What data is needed?", Key: "q2"},
		},
		Answers: map[string]string{"q1": "Processing 100 invoices without errors."},
	}

	docContext := buildDocumentContext(input)
	assert.Contains(t, docContext, "Q (Success Criteria): What proves it works?")
	assert.Contains(t, docContext, "A: Processing 100 invoices without errors.")
	// Unanswered questions are skipped.
	require.NotContains(t, docContext, "What data is needed?")
}

func TestGenerateProposalBoundsOversizedContext(t *testing.T) {
	llm := (&fakeGenerator{}).on("expert business consultant", strings.Repeat("Detailed section content. ", 5))
	svc := NewDocumentService(llm)

	input := &DocumentInput{
		IdeaTitle:       "Wide net",
		IdeaDescription: strings.Repeat("véhicule télémétrie ", 4000),
	}
	svc.GenerateProposal(context.Background(), input)

	require.Len(t, llm.calls, len(proposalSections))
	for _, prompt := range llm.calls {
		assert.True(t, utf8.ValidString(prompt))
		assert.Less(t, len(prompt), maxDocumentContextChars+len(sectionPrompt)+200)
	}
}

func TestProposalTitleDefaults(t *testing.T) {
	doc := NewDocumentService(nil).GenerateProposal(context.Background(), &DocumentInput{})
	assert.Contains(t, doc, "# Proof of Concept Proposal: Untitled Idea")
	assert.Contains(t, doc, "*Prepared for: Unknown Company*")
}
