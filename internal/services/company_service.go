package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/augentlabs/innovation-hub/internal/jsonutil"
	"github.com/augentlabs/innovation-hub/internal/models"
	"github.com/augentlabs/innovation-hub/internal/textutil"
	"gorm.io/gorm"
)

// CompanyFinancials is the fixed set of financial fields extracted per company.
type CompanyFinancials struct {
	AnnualRevenue     string `json:"annual_revenue"`
	RevenueGrowth     string `json:"revenue_growth"`
	MarketCap         string `json:"market_cap"`
	Profitability     string `json:"profitability"`
	RecentPerformance string `json:"recent_performance"`
}

// CompanyResearch is the fixed-shape output of the company agent.
type CompanyResearch struct {
	Success         bool              `json:"success"`
	CompanyName     string            `json:"company_name"`
	Answer          string            `json:"answer"`
	WhatCompanyDoes string            `json:"what_company_does"`
	Financials      CompanyFinancials `json:"financials"`
	Initiatives     []string          `json:"current_initiatives_and_goals"`
	Sources         []Source          `json:"sources"`
	Timestamp       time.Time         `json:"research_timestamp"`
}

// CompanyService researches a company's business, financials and strategy,
// caching results in the store per company name.
type CompanyService struct {
	DB       *gorm.DB
	Research *ResearchService
	LLM      Generator
	CacheTTL time.Duration
}

func NewCompanyService(db *gorm.DB, research *ResearchService, llm Generator, cacheTTL time.Duration) *CompanyService {
	return &CompanyService{DB: db, Research: research, LLM: llm, CacheTTL: cacheTTL}
}

const companyQueryTemplate = `Research %[1]s company thoroughly and provide comprehensive information:

1. What does the company do (provide complete business description):
   - Core business and main products/services
   - Business model and revenue streams
   - Key value proposition and competitive advantages
   - Industry sector and market position
   - Target customers and geographic reach

2. Financial information (capture complete sentences with context):
   - Annual revenue (latest available with full context)
   - Revenue growth rate and historical trends
   - Market capitalization and stock performance
   - Profitability status and margins

3. Current initiatives and future goals:
   - Current strategic projects and initiatives
   - Technology investments and digital transformation efforts
   - Market expansion plans and geographic targets
   - Innovation pipeline and R&D focus areas

IMPORTANT: Provide complete sentences, not just numbers. Include specific numbers, facts, and high-quality sources.`

// ResearchCompany returns cached research when fresh, otherwise runs a full
// research pass and caches it.
func (s *CompanyService) ResearchCompany(ctx context.Context, companyName string) *CompanyResearch {
	if cached := s.loadCache(companyName); cached != nil {
		log.Printf("📦 Using cached company research for: %s", companyName)
		return cached
	}

	log.Printf("🏢 Starting company research for: %s", companyName)

	result := &CompanyResearch{
		CompanyName: companyName,
		Initiatives: []string{},
		Sources:     []Source{},
		Timestamp:   time.Now().UTC(),
	}

	query := fmt.Sprintf(companyQueryTemplate, companyName)
	findings := s.Research.ResearchIdea(ctx, query, "Company Research: "+companyName)
	if !findings.Success {
		result.Answer = findings.Answer
		return result
	}

	result.Success = true
	result.Answer = findings.Answer
	result.WhatCompanyDoes = s.extractDescription(ctx, findings, companyName)
	result.Financials = s.extractFinancials(ctx, findings, companyName)
	result.Initiatives = s.extractInitiatives(ctx, findings, companyName)
	result.Sources = rankSources(findings)

	s.saveCache(companyName, result)
	log.Printf("✅ Company research completed for: %s", companyName)
	return result
}

func (s *CompanyService) loadCache(companyName string) *CompanyResearch {
	if s.DB == nil {
		return nil
	}
	var row models.CompanyResearchCache
	err := s.DB.Where(&models.CompanyResearchCache{CompanyName: companyName}).First(&row).Error
	if err != nil {
		return nil
	}
	if time.Since(row.UpdatedAt) > s.CacheTTL {
		return nil
	}
	var out CompanyResearch
	if err := json.Unmarshal([]byte(row.Payload), &out); err != nil || !out.Success {
		return nil
	}
	return &out
}

func (s *CompanyService) saveCache(companyName string, research *CompanyResearch) {
	if s.DB == nil {
		return
	}
	payload, err := json.Marshal(research)
	if err != nil {
		return
	}
	var row models.CompanyResearchCache
	err = s.DB.Where(models.CompanyResearchCache{CompanyName: companyName}).
		FirstOrCreate(&row).Error
	if err != nil {
		log.Printf("⚠️ Failed to cache company research: %v", err)
		return
	}
	s.DB.Model(&row).Update("payload", string(payload))
}

func researchContent(findings *ResearchFindings) string {
	if findings.FullContent != "" {
		return findings.FullContent
	}
	if findings.Answer != "" {
		return findings.Answer
	}
	return findings.MarketOverview
}

const companyDescriptionPrompt = `Extract a brief, high-level business summary for %s from this research.

Research Content:
%s

Extract:
- Core business and main products/services
- Key value proposition

Return a concise summary (max 2 paragraphs). Focus on the most important information.`

func (s *CompanyService) extractDescription(ctx context.Context, findings *ResearchFindings, companyName string) string {
	content := researchContent(findings)
	if content == "" {
		return fmt.Sprintf("Limited information available about %s.", companyName)
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(companyDescriptionPrompt, companyName, content))
	if err != nil {
		log.Printf("⚠️ Company description extraction failed: %v", err)
		return fmt.Sprintf("Error extracting company description: %v", err)
	}
	return strings.TrimSpace(reply)
}

const companyFinancialsPrompt = `Extract key financial highlights for %s from this research.

Research Content:
%s

Extract ONLY the most recent:
- Annual revenue
- Revenue growth
- Market cap
- Profitability

Return as JSON with these fields:
{
  "annual_revenue": "Brief revenue data",
  "revenue_growth": "Brief growth data",
  "market_cap": "Brief market cap data",
  "profitability": "Brief profitability data",
  "recent_performance": "Brief summary of recent performance"
}

Keep text fields brief. If data not found, use empty string.`

func (s *CompanyService) extractFinancials(ctx context.Context, findings *ResearchFindings, companyName string) CompanyFinancials {
	content := researchContent(findings)
	if content == "" {
		return CompanyFinancials{}
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(companyFinancialsPrompt, companyName, content))
	if err != nil {
		log.Printf("⚠️ Financial extraction failed: %v", err)
		return CompanyFinancials{RecentPerformance: fmt.Sprintf("Error extracting financial data: %v", err)}
	}

	var out CompanyFinancials
	if err := jsonutil.Extract(reply, &out); err != nil {
		// Models sometimes emit numbers or nulls where strings are expected.
		// Salvage whatever fields are individually readable.
		log.Printf("⚠️ Financial reply not parseable, probing fields: %v", err)
		return CompanyFinancials{
			AnnualRevenue:     jsonutil.StringField(reply, "annual_revenue"),
			RevenueGrowth:     jsonutil.StringField(reply, "revenue_growth"),
			MarketCap:         jsonutil.StringField(reply, "market_cap"),
			Profitability:     jsonutil.StringField(reply, "profitability"),
			RecentPerformance: jsonutil.StringField(reply, "recent_performance"),
		}
	}
	return out
}

const companyInitiativesPrompt = `Extract the top 3-5 key initiatives for %s from this research.

Research Content:
%s

Extract ONLY the most important strategic initiatives.

Return as a list of bullet points. Limit to 3-5 key items. Keep each concise (max 1 sentence).`

func (s *CompanyService) extractInitiatives(ctx context.Context, findings *ResearchFindings, companyName string) []string {
	content := researchContent(findings)
	if content == "" {
		return []string{}
	}

	content = textutil.TruncateSmart(content, maxAnalysisChars)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(companyInitiativesPrompt, companyName, content))
	if err != nil {
		log.Printf("⚠️ Initiative extraction failed: %v", err)
		return []string{}
	}

	initiatives := textutil.ParseBullets(reply, 30)
	log.Printf("💡 Extracted %d initiatives and goals", len(initiatives))
	return initiatives
}

// rankSources collects sources from every findings bucket, deduplicates by
// URL, scores authority, drops very low quality entries and sorts best-first.
func rankSources(findings *ResearchFindings) []Source {
	var sources []Source
	seen := map[string]bool{}

	add := func(srcType, title, url string) {
		if url == "" || url == "N/A" || seen[url] {
			return
		}
		seen[url] = true
		title = textutil.CleanHTML(title)
		if len(title) > 150 {
			title = title[:150]
		}
		sources = append(sources, Source{
			Type:         srcType,
			Title:        title,
			URL:          url,
			QualityScore: sourceQuality(url, title),
			Domain:       extractDomain(url),
		})
	}

	for _, sol := range findings.ExistingSolutions {
		add("Company Information", sol.Title, sol.URL)
	}
	for _, tr := range findings.Trends {
		add("Market Analysis", tr.Trend, tr.Source)
	}
	for _, src := range findings.Sources {
		title := src.Title
		if title == "" {
			title = src.Snippet
		}
		add("Research Source", title, src.URL)
	}

	filtered := sources[:0]
	for _, src := range sources {
		if src.QualityScore >= 2 {
			filtered = append(filtered, src)
		}
	}
	sources = filtered

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].QualityScore > sources[j].QualityScore
	})

	domains := map[string]bool{}
	for _, src := range sources {
		domains[src.Domain] = true
	}
	if len(domains) < 3 {
		log.Printf("⚠️ Low source diversity: only %d unique domains", len(domains))
	}

	if sources == nil {
		sources = []Source{}
	}
	return sources
}

// sourceQuality scores a source 1-5 by domain authority and title relevance.
func sourceQuality(rawURL, title string) int {
	score := 3
	u := strings.ToLower(rawURL)
	t := strings.ToLower(title)

	containsAny := func(s string, subs ...string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny(u, ".gov", ".edu", "wikipedia.org"):
		score = 5
	case containsAny(u, "forbes.com", "bloomberg.com", "reuters.com", "wsj.com"):
		score = 5
	case containsAny(u, "corporate.", "official.", "inc.com"):
		score = 5
	case containsAny(u, "techcrunch.com", "venturebeat.com", "businessinsider.com"):
		score = 4
	case containsAny(u, "medium.com", "blog.", "substack.com"):
		score = 2
	case containsAny(u, "reddit.com", "forum.", "quora.com"):
		score = 1
	}

	if containsAny(t, "annual report", "financial statement", "earnings", "quarterly") {
		score = min(score+1, 5)
	} else if containsAny(t, "case study", "implementation", "roi", "return on investment") {
		score = min(score+1, 5)
	}

	if containsAny(t, "sponsored", "advertisement", "promoted") {
		score = max(score-2, 1)
	}
	return score
}

func extractDomain(rawURL string) string {
	if rawURL == "" {
		return "unknown"
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(u.Host, "www.")
}
