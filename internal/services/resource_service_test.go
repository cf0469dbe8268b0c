package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateResourcesParsesReply(t *testing.T) {
	llm := (&fakeGenerator{}).on("project manager and resource planner", `{
		"team_resources": [{"role": "Backend Developer", "number_of_people": "2 developers", "allocation": "Full-time for 4 months"}],
		"timeline": [{"phase": "Build", "duration": "8 weeks", "key_deliverables": "Working POC"}],
		"technical_infrastructure": ["PostgreSQL 14+", "AWS EC2"],
		"risks": [{"risk": "Scope creep", "impact_level": "Medium", "mitigation_strategy": "Weekly reviews"}],
		"success_metrics": [{"metric": "Adoption", "target_value": "100 users"}]
	}`)
	svc := NewResourceService(llm)

	estimate := svc.EstimateResources(context.Background(), "Acme", "Invoice OCR", "Automate invoices", nil, nil)
	require.True(t, estimate.Success)
	require.Len(t, estimate.TeamResources, 1)
	assert.Equal(t, "Backend Developer", estimate.TeamResources[0].Role)
	assert.Len(t, estimate.Timeline, 1)
	assert.Len(t, estimate.TechnicalInfrastructure, 2)
	assert.Len(t, estimate.Risks, 1)
	assert.Len(t, estimate.SuccessMetrics, 1)
}

func TestEstimateResourcesPromptCarriesContext(t *testing.T) {
	llm := (&fakeGenerator{}).on("project manager and resource planner", `{"team_resources": []}`)
	svc := NewResourceService(llm)

	company := &CompanyResearch{
		Success:         true,
		WhatCompanyDoes: "Acme runs regional logistics.",
		Initiatives:     []string{"warehouse automation", "fleet electrification"},
	}
	idea := &IdeaResearch{
		Success:           true,
		WhoIsImplementing: []Implementer{{Name: "BigCo"}},
		ProsAndCons:       ProsAndCons{Pros: []string{"saves cost"}, Cons: []string{"needs training"}},
	}

	svc.EstimateResources(context.Background(), "Acme", "Invoice OCR", "Automate invoices", company, idea)
	require.Len(t, llm.calls, 1)
	assert.Contains(t, llm.calls[0], "Acme runs regional logistics.")
	assert.Contains(t, llm.calls[0], "warehouse automation")
	assert.Contains(t, llm.calls[0], "1 companies already implementing")
	assert.Contains(t, llm.calls[0], "saves cost")
}

func TestEstimateResourcesUnparseableReply(t *testing.T) {
	llm := (&fakeGenerator{}).on("project manager and resource planner", "no json here")
	svc := NewResourceService(llm)

	estimate := svc.EstimateResources(context.Background(), "Acme", "Idea", "Description", nil, nil)
	// Unparseable replies degrade to an empty but successful estimate.
	require.True(t, estimate.Success)
	assert.Empty(t, estimate.TeamResources)
	assert.NotNil(t, estimate.TeamResources)
	assert.Equal(t, "no json here", estimate.RawResponse)
}

func TestEstimateResourcesLLMError(t *testing.T) {
	svc := NewResourceService(&fakeGenerator{failAll: true})
	estimate := svc.EstimateResources(context.Background(), "Acme", "Idea", "Description", nil, nil)
	assert.False(t, estimate.Success)
	assert.NotEmpty(t, estimate.Error)
}

func TestEstimateResourcesNoLLM(t *testing.T) {
	estimate := NewResourceService(nil).EstimateResources(context.Background(), "Acme", "Idea", "Description", nil, nil)
	assert.False(t, estimate.Success)
	assert.Equal(t, "AI service not available", estimate.Error)
}

func TestFirstN(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a", "b"}, firstN(items, 2))
	assert.Equal(t, items, firstN(items, 10))
}
