package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/augentlabs/innovation-hub/internal/textutil"
)

// ResearchItem is a classified search hit (solution or competitor).
type ResearchItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Relevance   string `json:"relevance"`
}

// TrendItem is a search hit classified as market intelligence.
type TrendItem struct {
	Trend       string `json:"trend"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Impact      string `json:"impact"`
}

// Source is one cited page.
type Source struct {
	Type         string `json:"type,omitempty"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Snippet      string `json:"snippet,omitempty"`
	QualityScore int    `json:"quality_score,omitempty"`
	Domain       string `json:"domain,omitempty"`
}

// ResearchFindings is the fixed-shape output of one research pass.
type ResearchFindings struct {
	Success           bool           `json:"success"`
	Title             string         `json:"title"`
	Answer            string         `json:"answer"`
	MarketOverview    string         `json:"market_overview"`
	ExistingSolutions []ResearchItem `json:"existing_solutions"`
	Competitors       []ResearchItem `json:"competitors"`
	Trends            []TrendItem    `json:"trends"`
	Opportunities     []string       `json:"opportunities"`
	Challenges        []string       `json:"challenges"`
	Sources           []Source       `json:"sources"`
	FullContent       string         `json:"full_content,omitempty"`
	Timestamp         time.Time      `json:"timestamp"`
}

func emptyFindings(title, answer string) *ResearchFindings {
	return &ResearchFindings{
		Title:             title,
		Answer:            answer,
		ExistingSolutions: []ResearchItem{},
		Competitors:       []ResearchItem{},
		Trends:            []TrendItem{},
		Opportunities:     []string{},
		Challenges:        []string{},
		Sources:           []Source{},
		Timestamp:         time.Now().UTC(),
	}
}

// ResearchService is the shared search-and-extract helper behind the
// company and idea agents: one search call, then per-result AI
// classification and summarization.
type ResearchService struct {
	Search Searcher
	LLM    Generator
}

func NewResearchService(search Searcher, llm Generator) *ResearchService {
	return &ResearchService{Search: search, LLM: llm}
}

const maxAnalysisChars = 32000

// ResearchIdea runs a full research pass for an idea or company query.
func (s *ResearchService) ResearchIdea(ctx context.Context, idea, title string) *ResearchFindings {
	if s.LLM == nil {
		return emptyFindings(title, "AI service not available")
	}
	log.Printf("🔍 Research agent called for: %s", title)

	query := fmt.Sprintf("%s market analysis competitors solutions trends opportunities challenges", title)
	resp, err := s.Search.Search(ctx, query)
	if err != nil {
		log.Printf("❌ Research search failed for %q: %v", title, err)
		return emptyFindings(title, fmt.Sprintf("Error during research: %v", err))
	}

	log.Printf("📄 Search returned %d results with full content", len(resp.Results))

	findings := emptyFindings(title, resp.Answer)
	findings.Success = true
	findings.MarketOverview = resp.Answer

	// Aggregate full content so downstream extraction has maximum context.
	var parts []string
	if resp.Answer != "" {
		parts = append(parts, resp.Answer)
	}
	for _, r := range resp.Results {
		content := r.Content
		if content == "" {
			content = r.RawContent
		}
		if r.Title != "" || content != "" {
			parts = append(parts, fmt.Sprintf("Source: %s\n%s\n", r.Title, content))
		}
	}
	findings.FullContent = strings.Join(parts, "\n\n")

	if findings.Answer == "" && findings.FullContent != "" {
		// Prefer clean, complete sentences from the page bodies; fall back
		// to a plain truncation when none survive cleaning.
		findings.Answer = textutil.ExtractSentences(findings.FullContent, 15)
		if findings.Answer == "" {
			findings.Answer = textutil.TruncateSmart(findings.FullContent, 5000)
		}
		findings.MarketOverview = findings.Answer
	}

	if findings.Answer != "" {
		findings.Opportunities = s.extractOpportunities(ctx, findings.Answer, idea)
		findings.Challenges = s.extractChallenges(ctx, findings.Answer, idea)
		log.Printf("💡 Extracted %d opportunities and %d challenges", len(findings.Opportunities), len(findings.Challenges))
	}

	s.categorizeResults(ctx, resp.Results, idea, findings)
	log.Printf("✅ Research complete: %d solutions, %d competitors, %d trends",
		len(findings.ExistingSolutions), len(findings.Competitors), len(findings.Trends))

	return findings
}

// categorizeResults classifies each fetched page and writes it into the
// matching findings bucket. Pages are processed sequentially; each one costs
// two LLM calls (classify + summarize).
func (s *ResearchService) categorizeResults(ctx context.Context, results []SearchResult, idea string, findings *ResearchFindings) {
	if len(results) > 5 {
		results = results[:5]
	}

	for _, r := range results {
		cleanTitle := textutil.CleanHTML(r.Title)
		snippet := textutil.CleanHTML(r.Content)

		fullText := textutil.CleanHTML(r.RawContent)
		if fullText == "" {
			fullText = snippet
		}
		fullText = textutil.TruncateSmart(fullText, maxAnalysisChars)

		findings.Sources = append(findings.Sources, Source{
			Title:   cleanTitle,
			URL:     r.URL,
			Snippet: snippet,
		})

		category := s.classify(ctx, cleanTitle, fullText, idea)
		description := s.summarize(ctx, cleanTitle, fullText, category, idea)

		switch category {
		case "solution":
			findings.ExistingSolutions = append(findings.ExistingSolutions, ResearchItem{
				Title:       cleanTitle,
				Description: description,
				URL:         r.URL,
				Relevance:   "Direct solution or tool",
			})
		case "competitor":
			findings.Competitors = append(findings.Competitors, ResearchItem{
				Title:       cleanTitle,
				Description: description,
				URL:         r.URL,
				Relevance:   "Market competitor",
			})
		default:
			findings.Trends = append(findings.Trends, TrendItem{
				Trend:       cleanTitle,
				Description: description,
				Source:      r.URL,
				Impact:      "Market trend",
			})
		}
	}
}

const classifyPrompt = `Classify this search result as: solution, competitor, or trend.

- solution: Products, tools, platforms, software, services, implementations, or methods that solve the problem.
- competitor: Companies, vendors, organizations, or entities that offer similar solutions or services.
- trend: Market reports, research, forecasts, industry analysis, general insights, or news.

If it describes a company or product doing something similar to the idea, classify as 'competitor' or 'solution'.
Only use 'trend' if it is purely informational or statistical.

Title: %s
Content: %s
Our idea: %s

Return ONLY the word: solution, competitor, or trend`

func (s *ResearchService) classify(ctx context.Context, title, content, idea string) string {
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(classifyPrompt, title, content, idea))
	if err != nil {
		log.Printf("⚠️ Classification failed for %q: %v", title, err)
		return "trend"
	}

	fields := strings.Fields(strings.ToLower(strings.TrimSpace(reply)))
	if len(fields) == 0 {
		return "trend"
	}
	switch fields[0] {
	case "solution", "competitor", "trend":
		return fields[0]
	}
	return "trend"
}

const summarizeCompetitorPrompt = `Analyze this company/competitor information in detail.

Extract ALL useful information including:
- What they do (core business, products, services)
- Financial data (revenue, funding, valuation, growth rates, market cap)
- Market position (market share, ranking, competitive advantages)
- Strategic initiatives (current projects, goals, expansion plans)
- Customer base (who uses their products/services)
- Recent news or developments

Title: %s
Content: %s

Return a comprehensive, detailed summary. Include ALL numbers, statistics, and specific details found. Use professional business language.`

const summarizeSolutionPrompt = `Analyze this solution/product information in detail.

Extract ALL useful information including:
- Who is implementing this (companies, organizations, users)
- Implementation details (how it works, architecture, features)
- Pros and Cons (benefits and drawbacks)
- Cost information (pricing, investment required, ROI data)
- Timeline (implementation time, time to value)
- Success metrics (KPIs, results achieved, case study data)
- Market adoption (usage statistics, growth trends)

Title: %s
Content: %s
User's Idea Context: %s

Return a comprehensive, detailed summary. Include ALL numbers, case studies, and specific examples found. Focus on actionable insights.`

const summarizeTrendPrompt = `Analyze this market trend/report in detail.

Extract ALL useful information including:
- Key market insights and findings
- Market size data (TAM, SAM, SOM, growth rates)
- Financial statistics (ROI, investment amounts, revenue projections)
- Growth trends (historical and projected)
- Industry forecasts and predictions
- Adoption rates and timelines
- Competitive landscape insights

Title: %s
Content: %s

Return a comprehensive, detailed summary. Include ALL statistics, projections, and data points found. Preserve exact numbers and percentages.`

func (s *ResearchService) summarize(ctx context.Context, title, content, category, idea string) string {
	var prompt string
	switch category {
	case "competitor":
		prompt = fmt.Sprintf(summarizeCompetitorPrompt, title, content)
	case "solution":
		prompt = fmt.Sprintf(summarizeSolutionPrompt, title, content, idea)
	default:
		prompt = fmt.Sprintf(summarizeTrendPrompt, title, content)
	}

	summary, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		log.Printf("⚠️ Summarization failed for %q: %v", title, err)
		return fmt.Sprintf("[AI summarization failed: %v]", err)
	}
	return strings.TrimSpace(summary)
}

const opportunitiesPrompt = `From this market research, extract ALL market opportunities relevant to this idea.

Idea: %s

Research: %s

Extract EVERY opportunity mentioned including:
- Market gaps and unmet needs
- Growth areas and emerging trends
- Expansion possibilities
- Technology opportunities
- Customer segments
- Revenue opportunities
- Strategic advantages

Return as bullet points. Be comprehensive:`

func (s *ResearchService) extractOpportunities(ctx context.Context, answer, idea string) []string {
	answer = textutil.TruncateSmart(answer, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(opportunitiesPrompt, idea, answer))
	if err != nil {
		log.Printf("⚠️ Opportunity extraction failed: %v", err)
		return []string{}
	}
	return textutil.ParseBullets(reply, 20)
}

const challengesPrompt = `From this market research, extract ALL challenges and risks relevant to this idea.

Idea: %s

Research: %s

Extract EVERY challenge mentioned including:
- Market barriers and obstacles
- Competitive threats
- Implementation challenges
- Technical difficulties
- Regulatory or compliance issues
- Cost concerns
- Resource constraints
- Risk factors

Return as bullet points. Be comprehensive:`

func (s *ResearchService) extractChallenges(ctx context.Context, answer, idea string) []string {
	answer = textutil.TruncateSmart(answer, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(challengesPrompt, idea, answer))
	if err != nil {
		log.Printf("⚠️ Challenge extraction failed: %v", err)
		return []string{}
	}
	return textutil.ParseBullets(reply, 20)
}
