package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/augentlabs/innovation-hub/internal/jsonutil"
)

// TeamResource is one role line in the estimate.
type TeamResource struct {
	Role           string `json:"role"`
	NumberOfPeople string `json:"number_of_people"`
	RequiredSkills string `json:"required_skills"`
	Allocation     string `json:"allocation"`
	Description    string `json:"description"`
}

// TimelinePhase is one phase of the implementation plan.
type TimelinePhase struct {
	Phase           string `json:"phase"`
	Duration        string `json:"duration"`
	KeyDeliverables string `json:"key_deliverables"`
	Dependencies    string `json:"dependencies"`
}

// Risk is one identified risk with its mitigation.
type Risk struct {
	Risk               string `json:"risk"`
	ImpactLevel        string `json:"impact_level"`
	MitigationStrategy string `json:"mitigation_strategy"`
}

// SuccessMetric is one measurable outcome target.
type SuccessMetric struct {
	Metric               string `json:"metric"`
	TargetValue          string `json:"target_value"`
	MeasurementFrequency string `json:"measurement_frequency"`
}

// ResourceEstimate is the fixed-shape output of the estimation step.
type ResourceEstimate struct {
	Success                 bool            `json:"success"`
	Error                   string          `json:"error,omitempty"`
	TeamResources           []TeamResource  `json:"team_resources"`
	Timeline                []TimelinePhase `json:"timeline"`
	TechnicalInfrastructure []string        `json:"technical_infrastructure"`
	Risks                   []Risk          `json:"risks"`
	SuccessMetrics          []SuccessMetric `json:"success_metrics"`
	RawResponse             string          `json:"raw_response,omitempty"`
}

// ResourceService estimates the resources needed to implement an idea for a
// specific company. LLM-only: no search call in this step.
type ResourceService struct {
	LLM Generator
}

func NewResourceService(llm Generator) *ResourceService {
	return &ResourceService{LLM: llm}
}

// EstimateResources builds the estimation context from prior research and
// asks the model for a structured JSON estimate.
func (s *ResourceService) EstimateResources(ctx context.Context, companyName, ideaTitle, ideaDescription string, company *CompanyResearch, idea *IdeaResearch) *ResourceEstimate {
	if s.LLM == nil {
		return &ResourceEstimate{Success: false, Error: "AI service not available"}
	}
	log.Printf("📐 Starting resource estimation for: %s at %s", ideaTitle, companyName)

	prompt := s.buildPrompt(companyName, ideaTitle, ideaDescription, company, idea)
	reply, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		log.Printf("❌ Resource estimation failed: %v", err)
		return &ResourceEstimate{Success: false, Error: err.Error()}
	}

	result := parseEstimate(reply)
	result.Success = true
	result.RawResponse = reply
	log.Printf("✅ Resource estimation completed for: %s", ideaTitle)
	return result
}

func (s *ResourceService) buildPrompt(companyName, ideaTitle, ideaDescription string, company *CompanyResearch, idea *IdeaResearch) string {
	overview := "N/A"
	sizeIndicator := "N/A"
	initiatives := "N/A"
	if company != nil && company.Success {
		if company.WhatCompanyDoes != "" {
			overview = company.WhatCompanyDoes
		}
		if company.Financials.AnnualRevenue != "" {
			sizeIndicator = company.Financials.AnnualRevenue
		}
		if len(company.Initiatives) > 0 {
			initiatives = strings.Join(firstN(company.Initiatives, 3), ", ")
		}
	}

	implementerCount := 0
	pros := "N/A"
	cons := "N/A"
	if idea != nil && idea.Success {
		implementerCount = len(idea.WhoIsImplementing)
		if len(idea.ProsAndCons.Pros) > 0 {
			pros = strings.Join(firstN(idea.ProsAndCons.Pros, 3), ", ")
		}
		if len(idea.ProsAndCons.Cons) > 0 {
			cons = strings.Join(firstN(idea.ProsAndCons.Cons, 3), ", ")
		}
	}

	return fmt.Sprintf(`You are an expert project manager and resource planner with deep knowledge of software development, business operations, and technology implementation.

Based on the following information, provide a comprehensive and REALISTIC resource estimation for implementing this idea.

**COMPANY INFORMATION:**
Company: %s
Business Overview: %s
Company Size/Revenue: %s
Current Initiatives: %s

**IDEA TO IMPLEMENT:**
Title: %s
Description: %s

**MARKET CONTEXT:**
Existing Implementations: %d companies already implementing similar ideas
Key Benefits: %s
Key Challenges: %s

---

IMPORTANT: Provide REALISTIC, DETAILED, and WELL-EXPLAINED estimates. Use specific examples and be concrete.

You MUST respond with a valid JSON object containing the following fields:
1. "team_resources": List of objects with "role", "number_of_people", "required_skills", "allocation", "description".
2. "timeline": List of objects with "phase", "duration", "key_deliverables", "dependencies".
3. "technical_infrastructure": List of strings describing specific tools, cloud services, databases, etc.
4. "risks": List of objects with "risk", "impact_level" (High/Medium/Low), "mitigation_strategy".
5. "success_metrics": List of objects with "metric", "target_value", "measurement_frequency".

Example JSON structure:
{
  "team_resources": [
    {
      "role": "Senior Full-Stack Developer",
      "number_of_people": "2 developers",
      "required_skills": "React, Node.js, PostgreSQL, AWS",
      "allocation": "Full-time for 8 months",
      "description": "Lead development of the core platform"
    }
  ],
  "timeline": [
    {
      "phase": "Discovery & Planning",
      "duration": "4 weeks",
      "key_deliverables": "Requirements doc, architecture",
      "dependencies": "None"
    }
  ],
  "technical_infrastructure": [
    "AWS EC2 t3.large instances",
    "PostgreSQL 14+"
  ],
  "risks": [
    {
      "risk": "Lack of AI expertise",
      "impact_level": "High",
      "mitigation_strategy": "Hire experienced ML engineer"
    }
  ],
  "success_metrics": [
    {
      "metric": "User Adoption Rate",
      "target_value": "500 active users",
      "measurement_frequency": "Weekly"
    }
  ]
}

Ensure the response is ONLY valid JSON. Do not include markdown formatting.`,
		companyName, overview, sizeIndicator, initiatives,
		ideaTitle, ideaDescription,
		implementerCount, pros, cons)
}

// parseEstimate tolerates missing keys: absent sections stay empty rather
// than failing the whole step.
func parseEstimate(reply string) *ResourceEstimate {
	result := &ResourceEstimate{
		TeamResources:           []TeamResource{},
		Timeline:                []TimelinePhase{},
		TechnicalInfrastructure: []string{},
		Risks:                   []Risk{},
		SuccessMetrics:          []SuccessMetric{},
	}

	var parsed ResourceEstimate
	if err := jsonutil.Extract(reply, &parsed); err != nil {
		log.Printf("⚠️ Estimate JSON not parseable: %v", err)
		return result
	}

	if parsed.TeamResources != nil {
		result.TeamResources = parsed.TeamResources
	}
	if parsed.Timeline != nil {
		result.Timeline = parsed.Timeline
	}
	if parsed.TechnicalInfrastructure != nil {
		result.TechnicalInfrastructure = parsed.TechnicalInfrastructure
	}
	if parsed.Risks != nil {
		result.Risks = parsed.Risks
	}
	if parsed.SuccessMetrics != nil {
		result.SuccessMetrics = parsed.SuccessMetrics
	}
	return result
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
