package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/augentlabs/innovation-hub/internal/jsonutil"
	"github.com/augentlabs/innovation-hub/internal/textutil"
)

// Implementer is one company/organization already implementing the idea.
type Implementer struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// ProsAndCons lists observed benefits and drawbacks of implementations.
type ProsAndCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// Insight is a single market observation.
type Insight struct {
	Type    string `json:"type"`
	Insight string `json:"insight"`
	Details string `json:"details"`
}

// IdeaResearch is the fixed-shape output of the idea-market agent.
type IdeaResearch struct {
	Success               bool              `json:"success"`
	IdeaTitle             string            `json:"idea_title"`
	Answer                string            `json:"answer,omitempty"`
	WhoIsImplementing     []Implementer     `json:"who_is_implementing"`
	ProsAndCons           ProsAndCons       `json:"pros_and_cons"`
	UsefulInsights        []Insight         `json:"useful_insights"`
	ImplementationMetrics map[string]string `json:"implementation_metrics"`
	Sources               []Source          `json:"sources"`
	Timestamp             time.Time         `json:"research_timestamp"`
}

// IdeaResearchService researches how an idea is implemented in the market.
type IdeaResearchService struct {
	Research *ResearchService
	LLM      Generator
}

func NewIdeaResearchService(research *ResearchService, llm Generator) *IdeaResearchService {
	return &IdeaResearchService{Research: research, LLM: llm}
}

const ideaQueryTemplate = `Research market implementation of this idea: %s
Description: %s

Find comprehensive information about:

1. Companies/organizations implementing this idea
2. Pros and cons of implementations
3. Market insights and trends
4. Implementation metrics and timelines
5. Technology maturity and adoption
6. Success stories and case studies

Include ALL available data, numbers, case studies, and verified sources.`

// ResearchIdeaMarket runs a full market research pass for the idea.
func (s *IdeaResearchService) ResearchIdeaMarket(ctx context.Context, ideaTitle, ideaDescription string) *IdeaResearch {
	log.Printf("💼 Starting idea market research for: %s", ideaTitle)

	result := &IdeaResearch{
		IdeaTitle:             ideaTitle,
		WhoIsImplementing:     []Implementer{},
		ProsAndCons:           ProsAndCons{Pros: []string{}, Cons: []string{}},
		UsefulInsights:        []Insight{},
		ImplementationMetrics: map[string]string{},
		Sources:               []Source{},
		Timestamp:             time.Now().UTC(),
	}

	query := fmt.Sprintf(ideaQueryTemplate, ideaTitle, ideaDescription)
	findings := s.Research.ResearchIdea(ctx, query, "Idea Research: "+ideaTitle)
	if !findings.Success {
		result.Answer = findings.Answer
		return result
	}

	result.Success = true
	result.WhoIsImplementing = s.extractImplementers(ctx, findings, ideaTitle)
	result.ProsAndCons = s.extractProsCons(ctx, findings, ideaTitle)
	result.UsefulInsights = s.extractInsights(ctx, findings, ideaTitle)
	result.ImplementationMetrics = s.extractMetrics(ctx, findings, ideaTitle)
	result.Sources = rankSources(findings)

	log.Printf("✅ Idea research completed for: %s", ideaTitle)
	return result
}

const implementersPrompt = `Extract ALL companies and organizations implementing this idea from the research.

Idea: %s

Research Content:
%s

Extract EVERYTHING including:
- Company/organization names
- Detailed descriptions of their implementation approach
- Implementation timeline and scale
- Results and impact achieved
- URLs and sources

Return as JSON array:
[
  {
    "name": "Company Name",
    "description": "Detailed description of implementation",
    "url": "source URL if available"
  }
]

Include ALL implementers found.`

func (s *IdeaResearchService) extractImplementers(ctx context.Context, findings *ResearchFindings, ideaTitle string) []Implementer {
	content := researchContent(findings)
	if content == "" {
		return []Implementer{}
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(implementersPrompt, ideaTitle, content))
	if err != nil {
		log.Printf("⚠️ Implementer extraction failed: %v", err)
		return []Implementer{}
	}

	var implementers []Implementer
	if err := jsonutil.Extract(reply, &implementers); err != nil || len(implementers) == 0 {
		return []Implementer{{
			Name:        "None Found",
			Description: "No direct existing implementations found in the current market research.",
			URL:         "N/A",
		}}
	}
	log.Printf("💡 Extracted %d implementers", len(implementers))
	return implementers
}

const prosConsPrompt = `Extract ALL pros and cons of implementing this idea from the research.

Idea: %s

Research Content:
%s

Extract EVERYTHING including:
PROS: benefits, success stories, positive outcomes, cost savings, efficiency gains.
CONS: challenges, implementation difficulties, risks, cost concerns, technical hurdles, user resistance.

Return as JSON:
{
  "pros": ["detailed pro 1", "detailed pro 2"],
  "cons": ["detailed con 1", "detailed con 2"]
}

Include ALL pros and cons found.`

func (s *IdeaResearchService) extractProsCons(ctx context.Context, findings *ResearchFindings, ideaTitle string) ProsAndCons {
	empty := ProsAndCons{Pros: []string{}, Cons: []string{}}
	content := researchContent(findings)
	if content == "" {
		return empty
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(prosConsPrompt, ideaTitle, content))
	if err != nil {
		log.Printf("⚠️ Pros/cons extraction failed: %v", err)
		return empty
	}

	var out ProsAndCons
	if err := jsonutil.Extract(reply, &out); err != nil {
		return empty
	}
	if out.Pros == nil {
		out.Pros = []string{}
	}
	if out.Cons == nil {
		out.Cons = []string{}
	}
	log.Printf("💡 Extracted %d pros and %d cons", len(out.Pros), len(out.Cons))
	return out
}

const insightsPrompt = `Extract ALL useful market insights about this idea from the research.

Idea: %s

Research Content:
%s

Extract EVERYTHING including market trends, technology maturity, adoption
patterns, implementation lessons, market size, competitive landscape,
forecasts and statistical data.

Return as JSON array:
[
  {
    "type": "Market Trend",
    "insight": "Short insight headline",
    "details": "Supporting details and numbers"
  }
]

Valid type values: Market Trend, Technology, Adoption, Implementation, Financial.`

func (s *IdeaResearchService) extractInsights(ctx context.Context, findings *ResearchFindings, ideaTitle string) []Insight {
	content := researchContent(findings)
	if content == "" {
		return []Insight{}
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(insightsPrompt, ideaTitle, content))
	if err != nil {
		log.Printf("⚠️ Insight extraction failed: %v", err)
		return []Insight{}
	}

	var insights []Insight
	if err := jsonutil.Extract(reply, &insights); err != nil {
		return []Insight{}
	}
	return insights
}

const metricsPrompt = `Extract implementation metrics for this idea from the research.

Idea: %s

Research Content:
%s

Extract the typical implementation timeline, cost ranges, team sizes and
adoption/success rates observed in real deployments.

Return as a flat JSON object of string fields, for example:
{
  "typical_timeline": "3-6 months",
  "typical_cost": "$50k-$200k",
  "team_size": "4-8 people",
  "success_rate": "70%% of pilots reach production"
}

If a metric is not found, omit the field.`

func (s *IdeaResearchService) extractMetrics(ctx context.Context, findings *ResearchFindings, ideaTitle string) map[string]string {
	content := researchContent(findings)
	if content == "" {
		return map[string]string{}
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(metricsPrompt, ideaTitle, content))
	if err != nil {
		log.Printf("⚠️ Metrics extraction failed: %v", err)
		return map[string]string{}
	}
	return jsonutil.StringMap(reply, map[string]string{})
}
