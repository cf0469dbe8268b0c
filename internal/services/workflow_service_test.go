package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(search Searcher, llm Generator) *WorkflowService {
	research := NewResearchService(search, llm)
	return NewWorkflowService(
		nil,
		NewCompanyService(nil, research, llm, 24*time.Hour),
		NewIdeaResearchService(research, llm),
		NewResourceService(llm),
		NewQuestionService(llm),
	)
}

func TestWorkflowStopsWhenCompanyResearchFails(t *testing.T) {
	svc := newTestWorkflow(&fakeSearcher{err: errors.New("search down")}, &fakeGenerator{})

	result := svc.Run(context.Background(), "sess-1", "Acme", "Invoice OCR", "Automate invoices")
	assert.False(t, result.Success)
	assert.Equal(t, StepCompanyResearch, result.CurrentStep)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Company Research Failed")
	assert.Nil(t, result.IdeaResearch)
	assert.Nil(t, result.ResourceEstimation)
}

func TestWorkflowRunsAllSteps(t *testing.T) {
	search := &fakeSearcher{resp: &SearchResponse{
		Answer:  "Acme is a logistics company with growing revenue.",
		Results: []SearchResult{{Title: "Acme profile", URL: "https://acme.example", Content: "about acme"}},
	}}
	llm := (&fakeGenerator{}).
		on("project manager and resource planner", `{
			"team_resources": [{"role": "Developer", "number_of_people": "2", "required_skills": "Go", "allocation": "Full-time for 3 months", "description": "Build the POC"}],
			"timeline": [{"phase": "Build", "duration": "6 weeks", "key_deliverables": "POC", "dependencies": "None"}],
			"technical_infrastructure": ["PostgreSQL"],
			"risks": [],
			"success_metrics": []
		}`).
		on("Proof of Concept", `[{"category": "Success Criteria", "question": "What proves it works?", "priority": "Must Answer", "key": "success_1", "follow_ups": []}]`)

	svc := newTestWorkflow(search, llm)
	result := svc.Run(context.Background(), "sess-2", "Acme", "Invoice OCR", "Automate invoices")

	require.True(t, result.Success)
	assert.Equal(t, StepCompleted, result.CurrentStep)
	assert.Empty(t, result.Errors)

	require.NotNil(t, result.CompanyResearch)
	assert.True(t, result.CompanyResearch.Success)
	require.NotNil(t, result.IdeaResearch)
	assert.True(t, result.IdeaResearch.Success)
	require.NotNil(t, result.ResourceEstimation)
	require.Len(t, result.ResourceEstimation.TeamResources, 1)
	require.Len(t, result.DevelopmentQuestions, 1)
	assert.Equal(t, "success_1", result.DevelopmentQuestions[0].Key)
}

func TestWorkflowStopsWhenQuestionsEmpty(t *testing.T) {
	search := &fakeSearcher{resp: &SearchResponse{
		Answer:  "answer",
		Results: []SearchResult{{Title: "page", URL: "https://p.example", Content: "body"}},
	}}
	// Resource estimation parses, question generation yields nothing.
	llm := (&fakeGenerator{}).
		on("project manager and resource planner", `{"team_resources": [], "timeline": [], "technical_infrastructure": [], "risks": [], "success_metrics": []}`)

	svc := newTestWorkflow(search, llm)
	result := svc.Run(context.Background(), "sess-3", "Acme", "Idea", "Description")

	assert.False(t, result.Success)
	assert.Equal(t, StepQuestionGeneration, result.CurrentStep)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "development questions")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
