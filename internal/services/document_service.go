package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/augentlabs/innovation-hub/internal/textutil"
)

// DocumentService renders a full POC proposal as Markdown. Each section is
// synthesized by the LLM from the research context; when generation fails or
// comes back too thin, a deterministic fallback built from the raw research
// data is used instead.
type DocumentService struct {
	LLM Generator
}

func NewDocumentService(llm Generator) *DocumentService {
	return &DocumentService{LLM: llm}
}

// DocumentInput carries everything the proposal can draw on.
type DocumentInput struct {
	IdeaTitle          string
	CompanyName        string
	IdeaDescription    string
	CompanyResearch    *CompanyResearch
	IdeaResearch       *IdeaResearch
	ResourceEstimation *ResourceEstimate
	Questions          []DevQuestion
	Answers            map[string]string
}

type documentSection struct {
	title       string
	instruction string
	fallback    func(*DocumentInput) string
}

var proposalSections = []documentSection{
	{
		title:       "Executive Summary",
		instruction: "Write a compelling executive summary for this POC proposal. Focus on the value proposition and key outcomes. Keep it high-level and brief.",
		fallback:    executiveSummaryFallback,
	},
	{
		title:       "Problem Statement",
		instruction: "Describe the current business challenges and market gaps this idea addresses. Focus ONLY on the problem. Do not discuss the solution yet.",
		fallback:    problemStatementFallback,
	},
	{
		title:       "Proposed Solution",
		instruction: "Detail the proposed solution, including technical approach and key features. Focus ONLY on the solution details. Do not repeat the problem.",
		fallback:    proposedSolutionFallback,
	},
	{
		title:       "Strategic Alignment",
		instruction: "Explain how this idea aligns with the company's current initiatives, goals, and financial context.",
		fallback:    strategicAlignmentFallback,
	},
	{
		title:       "Market Analysis",
		instruction: "Analyze the market landscape, including competitors, trends, and existing solutions. Focus on external market factors.",
		fallback:    marketAnalysisFallback,
	},
	{
		title:       "Implementation Plan",
		instruction: "Outline the implementation strategy, timeline, required resources, and risk mitigation strategies. Use bullet points for steps.",
		fallback:    implementationPlanFallback,
	},
	{
		title:       "Success Metrics & ROI",
		instruction: "Define the key performance indicators (KPIs) and projected ROI. Use bullet points for metrics.",
		fallback:    successMetricsFallback,
	},
	{
		title:       "Conclusion",
		instruction: "Summarize the proposal and recommend clear next steps. Be very concise.",
		fallback:    conclusionFallback,
	},
}

const maxDocumentContextChars = 50000

// GenerateProposal renders the full proposal document as Markdown.
func (s *DocumentService) GenerateProposal(ctx context.Context, input *DocumentInput) string {
	log.Printf("📄 Generating proposal document for: %s", input.IdeaTitle)

	docContext := textutil.TruncateSmart(buildDocumentContext(input), maxDocumentContextChars)

	var b strings.Builder
	fmt.Fprintf(&b, "# Proof of Concept Proposal: %s\n\n", orDefault(input.IdeaTitle, "Untitled Idea"))
	fmt.Fprintf(&b, "*Prepared for: %s*\n\n", orDefault(input.CompanyName, "Unknown Company"))

	for _, section := range proposalSections {
		content := s.generateSection(ctx, section, docContext)
		if len(strings.TrimSpace(content)) <= 50 {
			content = section.fallback(input)
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", section.title, strings.TrimSpace(content))
	}

	log.Printf("✅ Proposal document generated for: %s", input.IdeaTitle)
	return b.String()
}

const sectionPrompt = `You are an expert business consultant writing a Proof of Concept (POC) proposal.

Context Information:
%s

Task: Write the '%s' section of the document.
Instruction: %s

Requirements:
- Write in a professional, persuasive business tone.
- Use bullet points (start lines with "- ") for lists, key features, or distinct points to improve readability and avoid walls of text.
- Do NOT use other markdown formatting like **bold** or # headers.
- Avoid repeating information. Be concise and direct.
- Synthesize the information from the context.
- Length: Adequate to cover the topic but concise.

Content:`

func (s *DocumentService) generateSection(ctx context.Context, section documentSection, docContext string) string {
	if s.LLM == nil {
		return ""
	}
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(sectionPrompt, docContext, section.title, section.instruction))
	if err != nil {
		log.Printf("⚠️ Failed to generate section %q: %v", section.title, err)
		return ""
	}
	return reply
}

func buildDocumentContext(input *DocumentInput) string {
	var lines []string
	lines = append(lines,
		"Idea Title: "+input.IdeaTitle,
		"Company: "+input.CompanyName,
		"Description: "+input.IdeaDescription,
	)

	if cr := input.CompanyResearch; cr != nil && cr.Success {
		lines = append(lines, "\nCOMPANY RESEARCH:")
		lines = append(lines, "Overview: "+cr.WhatCompanyDoes)
		lines = append(lines, fmt.Sprintf("Financials: revenue %s, growth %s, market cap %s, profitability %s",
			cr.Financials.AnnualRevenue, cr.Financials.RevenueGrowth, cr.Financials.MarketCap, cr.Financials.Profitability))
		lines = append(lines, "Goals: "+strings.Join(cr.Initiatives, "; "))
	}

	if ir := input.IdeaResearch; ir != nil && ir.Success {
		lines = append(lines, "\nMARKET RESEARCH:")
		for _, impl := range ir.WhoIsImplementing {
			lines = append(lines, fmt.Sprintf("Implementer: %s - %s", impl.Name, impl.Description))
		}
		lines = append(lines, "Pros: "+strings.Join(ir.ProsAndCons.Pros, "; "))
		lines = append(lines, "Cons: "+strings.Join(ir.ProsAndCons.Cons, "; "))
		for _, insight := range ir.UsefulInsights {
			lines = append(lines, fmt.Sprintf("Insight (%s): %s - %s", insight.Type, insight.Insight, insight.Details))
		}
	}

	if len(input.Questions) > 0 && len(input.Answers) > 0 {
		lines = append(lines, "\nDETAILED DEVELOPMENT PLAN (User Answers):")
		for _, q := range input.Questions {
			answer, ok := input.Answers[q.Key]
			if !ok || answer == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("Q (%s): %s", q.Category, q.Question))
			lines = append(lines, "A: "+answer)
		}
	}

	if re := input.ResourceEstimation; re != nil && re.Success {
		lines = append(lines, "\nRESOURCE ESTIMATION:")
		for _, r := range re.TeamResources {
			lines = append(lines, fmt.Sprintf("Team: %s (%s, %s)", r.Role, r.NumberOfPeople, r.Allocation))
		}
		for _, p := range re.Timeline {
			lines = append(lines, fmt.Sprintf("Phase: %s (%s) - %s", p.Phase, p.Duration, p.KeyDeliverables))
		}
		lines = append(lines, "Infrastructure: "+strings.Join(re.TechnicalInfrastructure, "; "))
	}

	return strings.Join(lines, "\n")
}

func executiveSummaryFallback(input *DocumentInput) string {
	return fmt.Sprintf("This document presents a comprehensive business idea proposal based on extensive market research, company analysis, and financial viability assessment. The idea '%s' targets %s and addresses specific market opportunities identified through research.",
		orDefault(input.IdeaTitle, "Untitled Idea"), orDefault(input.CompanyName, "the selected company"))
}

func problemStatementFallback(input *DocumentInput) string {
	return "No specific problem statement data available."
}

func proposedSolutionFallback(input *DocumentInput) string {
	if input.IdeaDescription != "" {
		return input.IdeaDescription
	}
	return "No solution details available."
}

func strategicAlignmentFallback(input *DocumentInput) string {
	if input.CompanyResearch == nil || len(input.CompanyResearch.Initiatives) == 0 {
		return "No strategic alignment data available."
	}
	var b strings.Builder
	b.WriteString("This proposal aligns with the following company initiatives:\n\n")
	for i, init := range input.CompanyResearch.Initiatives {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s\n", init)
	}
	return b.String()
}

func marketAnalysisFallback(input *DocumentInput) string {
	ir := input.IdeaResearch
	if ir == nil || !ir.Success {
		return "No market research data available."
	}

	var b strings.Builder
	if len(ir.WhoIsImplementing) > 0 {
		b.WriteString("### Companies Implementing This Idea\n\n")
		for i, impl := range ir.WhoIsImplementing {
			if i >= 8 {
				break
			}
			fmt.Fprintf(&b, "- %s: %s\n", impl.Name, impl.Description)
		}
		b.WriteString("\n")
	}
	if len(ir.ProsAndCons.Pros) > 0 {
		b.WriteString("### Implementation Benefits\n\n")
		for i, pro := range ir.ProsAndCons.Pros {
			if i >= 8 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", pro)
		}
		b.WriteString("\n")
	}
	if len(ir.ProsAndCons.Cons) > 0 {
		b.WriteString("### Implementation Challenges\n\n")
		for i, con := range ir.ProsAndCons.Cons {
			if i >= 8 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", con)
		}
		b.WriteString("\n")
	}
	if len(ir.UsefulInsights) > 0 {
		b.WriteString("### Key Market Insights\n\n")
		for i, insight := range ir.UsefulInsights {
			if i >= 10 {
				break
			}
			line := fmt.Sprintf("- %s: %s", insight.Type, insight.Insight)
			if insight.Details != "" {
				line += fmt.Sprintf(" (%s)", insight.Details)
			}
			b.WriteString(line + "\n")
		}
	}
	if b.Len() == 0 {
		return "No market research data available."
	}
	return b.String()
}

func implementationPlanFallback(input *DocumentInput) string {
	re := input.ResourceEstimation
	if re == nil || !re.Success {
		return "No resource estimation data available."
	}

	var b strings.Builder
	if len(re.TeamResources) > 0 {
		b.WriteString("### Team Resources Required\n\n")
		for _, r := range re.TeamResources {
			desc := r.Description
			if desc == "" {
				desc = r.Role
			}
			fmt.Fprintf(&b, "- %s\n", desc)
		}
		b.WriteString("\n")
	}
	if len(re.Timeline) > 0 {
		b.WriteString("### Implementation Timeline\n\n")
		for _, p := range re.Timeline {
			line := "- " + p.Phase
			if p.Duration != "" {
				line += " - Duration: " + p.Duration
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}
	if len(re.TechnicalInfrastructure) > 0 {
		b.WriteString("### Technical Infrastructure\n\n")
		for _, item := range re.TechnicalInfrastructure {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		b.WriteString("\n")
	}
	if len(re.Risks) > 0 {
		b.WriteString("### Risk Assessment\n\n")
		for _, risk := range re.Risks {
			fmt.Fprintf(&b, "- %s (Impact: %s). Mitigation: %s\n",
				risk.Risk, orDefault(risk.ImpactLevel, "Medium"), orDefault(risk.MitigationStrategy, "N/A"))
		}
	}
	if b.Len() == 0 {
		return "No resource estimation data available."
	}
	return b.String()
}

func successMetricsFallback(input *DocumentInput) string {
	re := input.ResourceEstimation
	if re == nil || len(re.SuccessMetrics) == 0 {
		return "No success metrics defined yet."
	}
	var b strings.Builder
	for _, metric := range re.SuccessMetrics {
		fmt.Fprintf(&b, "- %s: %s\n", metric.Metric, orDefault(metric.TargetValue, "N/A"))
	}
	return b.String()
}

func conclusionFallback(input *DocumentInput) string {
	return "This comprehensive analysis demonstrates the viability and potential of the proposed business idea."
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
