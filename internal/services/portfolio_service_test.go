package services

import (
	"testing"
	"time"

	"github.com/augentlabs/innovation-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPortfolioSummary(t *testing.T) {
	svc := NewPortfolioService()
	ideas := []models.Idea{
		{Title: "A", Department: "Engineering", Status: models.StatusApproved, AIScore: intPtr(80)},
		{Title: "B", Department: "Sales", Status: models.StatusRejected, AIScore: intPtr(40)},
		{Title: "C", Department: "Engineering", Status: models.StatusSubmitted},
	}

	summary := svc.summary(ideas)
	assert.Equal(t, 3, summary.TotalIdeas)
	assert.Equal(t, 2, summary.TotalDepartments)
	assert.Equal(t, []string{"Engineering", "Sales"}, summary.Departments)
	assert.Equal(t, 60.0, summary.AvgScore)
	assert.Equal(t, 50.0, summary.ApprovalRate)
	assert.Equal(t, 1, summary.HighPotentialCount)
	// 80*1000*1.5 + 40*1000 + 50*1000 (unscored defaults to 50)
	assert.Equal(t, 210000.0, summary.EstimatedTotalValue)
	assert.Equal(t, 1, summary.IdeasByStatus[models.StatusApproved])
}

func TestAnalyzeEmptyPortfolio(t *testing.T) {
	analysis := NewPortfolioService().Analyze(nil)

	assert.Equal(t, 0, analysis.Summary.TotalIdeas)
	assert.Empty(t, analysis.Clusters)
	assert.Equal(t, map[string]int{"low": 0, "medium": 0, "high": 0}, analysis.RiskDistribution)
	assert.Equal(t, "stable", analysis.Timeline.Trend)
	require.Len(t, analysis.Recommendations, 1)
	assert.Equal(t, "Start Innovation Program", analysis.Recommendations[0].Title)
}

func TestRiskScore(t *testing.T) {
	// No score, no research: 50 + 15.
	assert.Equal(t, 65, riskScore(&models.Idea{Status: models.StatusSubmitted}))
	assert.Equal(t, "medium", riskLevel(&models.Idea{Status: models.StatusSubmitted}))

	// Strong score, researched, approved: 50 - 20 - 10.
	strong := &models.Idea{Status: models.StatusApproved, AIScore: intPtr(90), ResearchData: "{}"}
	assert.Equal(t, 20, riskScore(strong))
	assert.Equal(t, "low", riskLevel(strong))

	// Weak score without research: 50 + 20 + 15.
	weak := &models.Idea{Status: models.StatusSubmitted, AIScore: intPtr(10)}
	assert.Equal(t, 85, riskScore(weak))
	assert.Equal(t, "high", riskLevel(weak))
}

func TestParsePeopleCount(t *testing.T) {
	assert.Equal(t, 2, parsePeopleCount("2 developers"))
	assert.Equal(t, 2, parsePeopleCount("1-3 engineers"))
	assert.Equal(t, 1, parsePeopleCount("a few"))
}

func TestParseAllocation(t *testing.T) {
	full := parseAllocation("Full-time for 8 months")
	assert.Equal(t, 100, full.Percentage)
	assert.Equal(t, 8, full.Months)

	half := parseAllocation("50% for 3 months")
	assert.Equal(t, 50, half.Percentage)
	assert.Equal(t, 3, half.Months)

	partTime := parseAllocation("Part-time for 6 weeks")
	assert.Equal(t, 50, partTime.Percentage)
	assert.Equal(t, 1, partTime.Months)
}

func TestTimelineMonths(t *testing.T) {
	assert.Equal(t, 6, timelineMonths(nil))
	assert.Equal(t, 3, timelineMonths([]TimelinePhase{
		{Duration: "4 weeks"},
		{Duration: "2 months"},
	}))
	// Very short plans are floored at three months.
	assert.Equal(t, 3, timelineMonths([]TimelinePhase{{Duration: "2 weeks"}}))
}

func TestEstimateBudgetScoreFallback(t *testing.T) {
	budget := estimateBudget(&models.Idea{}, 80, nil)

	assert.False(t, budget.HasRealData)
	assert.Equal(t, 270000.0, budget.TeamCosts)
	assert.Equal(t, 4800.0, budget.InfrastructureCosts)
	assert.Equal(t, 1500.0, budget.ToolsCosts)
	assert.Equal(t, 317745.0, budget.Total)
}

func TestEstimateBudgetFromResearch(t *testing.T) {
	research := &WorkflowResult{
		ResourceEstimation: &ResourceEstimate{
			Success: true,
			TeamResources: []TeamResource{
				{Role: "Senior Developer", NumberOfPeople: "2", Allocation: "Full-time for 3 months"},
			},
			Timeline:                []TimelinePhase{{Duration: "8 weeks"}},
			TechnicalInfrastructure: []string{"PostgreSQL database hosting"},
		},
	}

	budget := estimateBudget(&models.Idea{}, 80, research)
	require.True(t, budget.HasRealData)

	require.Len(t, budget.TeamDetails, 1)
	assert.Equal(t, 12000.0, budget.TeamDetails[0].RatePerMonth)
	assert.Equal(t, 2, budget.TeamDetails[0].Count)
	assert.Equal(t, 72000.0, budget.TeamCosts)

	require.Len(t, budget.InfraDetails, 1)
	assert.Equal(t, 100.0, budget.InfraDetails[0].MonthlyCost)
	assert.Equal(t, 300.0, budget.InfrastructureCosts)

	assert.Equal(t, 300.0, budget.ToolsCosts)
	assert.Equal(t, 83490.0, budget.Total)
}

func TestProjectROIValidatedMarket(t *testing.T) {
	research := &WorkflowResult{
		IdeaResearch: &IdeaResearch{
			Success: true,
			WhoIsImplementing: []Implementer{
				{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}, {Name: "E"},
			},
			ProsAndCons: ProsAndCons{
				Pros: []string{
					"significant cost savings observed",
					"strong customer satisfaction gains",
					"faster processing cycle times",
					"reduced manual effort",
				},
				Cons: []string{"needs training"},
			},
		},
	}

	roi := projectROI(&models.Idea{}, 80, 100000, research)
	assert.True(t, roi.HasRealData)
	// 100 base + 40 implementers + 35 score + 15 pros, capped at 200 -> 190.
	assert.Equal(t, 190.0, roi.Percentage)
	assert.Equal(t, 290000.0, roi.ProjectedValue)
	assert.Equal(t, 190000.0, roi.NetValue)
	assert.Equal(t, 14, roi.PaybackMonths)
	assert.NotEmpty(t, roi.ValueDrivers)

	assert.Equal(t, "General", roi.Industry.Industry)
	assert.Equal(t, "above_average", roi.Industry.VsIndustry)
	assert.Contains(t, roi.Differentiators, "Higher than avg: Exceptional idea score (80+)")
	assert.Contains(t, roi.Differentiators, "Higher than avg: Strong market validation")
}

func TestProjectROINoneFoundImplementer(t *testing.T) {
	research := &WorkflowResult{
		IdeaResearch: &IdeaResearch{
			Success: true,
			WhoIsImplementing: []Implementer{
				{Name: "None Found", Description: "No direct existing implementations found."},
			},
			ProsAndCons: ProsAndCons{Pros: []string{}, Cons: []string{}},
		},
	}

	roi := projectROI(&models.Idea{}, 80, 100000, research)
	// Placeholder implementer counts as zero: 100 - 10 + 35.
	assert.Equal(t, 125.0, roi.Percentage)
	assert.Contains(t, roi.ValueDrivers[0], "Early-stage market")
}

func TestProjectROIWithoutResearch(t *testing.T) {
	high := projectROI(&models.Idea{}, 80, 100000, nil)
	assert.False(t, high.HasRealData)
	assert.Equal(t, 150.0, high.Percentage)

	low := projectROI(&models.Idea{}, 30, 100000, nil)
	assert.Equal(t, 70.0, low.Percentage)
}

func TestDetectIndustry(t *testing.T) {
	// Clinical-trial terms outrank generic healthcare terms.
	name, bench := detectIndustry(&models.Idea{Title: "Clinical trial patient screening assistant"})
	assert.Equal(t, "clinical_trial", name)
	assert.Equal(t, 220.0, bench.AvgROI)

	name, bench = detectIndustry(&models.Idea{OriginalIdea: "Reduce hospital readmissions"})
	assert.Equal(t, "healthcare", name)
	assert.Equal(t, 18, bench.TypicalPayback)

	name, _ = detectIndustry(&models.Idea{Title: "Freight route optimizer", OriginalIdea: "Cut empty miles in trucking"})
	assert.Equal(t, "logistics", name)

	name, bench = detectIndustry(&models.Idea{Title: "Better lunch menus"})
	assert.Equal(t, "general", name)
	assert.Equal(t, 100.0, bench.AvgROI)
}

func TestProjectROIUsesIndustryBenchmarks(t *testing.T) {
	idea := &models.Idea{Title: "Hospital discharge coordination", OriginalIdea: "Coordinate hospital discharges"}
	roi := projectROI(idea, 80, 100000, nil)

	assert.Equal(t, "Healthcare", roi.Industry.Industry)
	assert.Equal(t, 180.0, roi.Industry.IndustryAvgROI)
	assert.Equal(t, "120% - 350%", roi.Industry.IndustryROIRange)
	// Fallback path: industry average + 50.
	assert.Equal(t, 230.0, roi.Percentage)
	assert.Equal(t, "estimated", roi.Industry.VsIndustry)
	assert.Equal(t, 16, roi.PaybackMonths)
}

func TestProjectROIInsightBoost(t *testing.T) {
	research := &WorkflowResult{
		IdeaResearch: &IdeaResearch{
			Success:           true,
			WhoIsImplementing: []Implementer{{Name: "A"}, {Name: "B"}},
			UsefulInsights: []Insight{
				{Insight: "Teams saw a 55% reduction in handling time"},
			},
		},
	}

	roi := projectROI(&models.Idea{}, 60, 100000, research)
	// 100 base + 20 implementers + 5 score + 25 insight.
	assert.Equal(t, 150.0, roi.Percentage)
	assert.Equal(t, "above_average", roi.Industry.VsIndustry)
	assert.Equal(t, "+50% above industry avg", roi.Industry.VsIndustryLabel)
}

func TestInsightAdjustment(t *testing.T) {
	insights := []Insight{
		{Insight: "60% reduction in manual review time"},
		{Insight: "Adoption grew 35%", Details: "teams report efficiency gains"},
		{Insight: "Market size is 40% services"}, // no benefit keyword
	}
	assert.Equal(t, 40.0, insightAdjustment(insights))
	assert.Zero(t, insightAdjustment(nil))
}

func TestProjectionConfidence(t *testing.T) {
	research := &WorkflowResult{
		CompanyResearch:    &CompanyResearch{Success: true},
		IdeaResearch:       &IdeaResearch{Success: true},
		ResourceEstimation: &ResourceEstimate{Success: true},
	}
	idea := &models.Idea{Status: models.StatusApproved, AIScore: intPtr(85)}

	confidence := projectionConfidence(idea, research)
	assert.Equal(t, "high", confidence.Level)
	assert.Equal(t, 100, confidence.Score)
	assert.Empty(t, confidence.MissingData)

	bare := projectionConfidence(&models.Idea{Status: models.StatusSubmitted}, nil)
	assert.Equal(t, "low", bare.Level)
	assert.Equal(t, 0, bare.Score)
	assert.Len(t, bare.MissingData, 2)
}

func TestEstimateTimelineFallback(t *testing.T) {
	timeline := estimateTimeline(80, nil)
	assert.False(t, timeline.HasRealData)
	assert.Equal(t, 4, timeline.TotalMonths)
	assert.Len(t, timeline.Phases, 3)
}

func TestEstimateTimelineFromResearch(t *testing.T) {
	research := &WorkflowResult{
		ResourceEstimation: &ResourceEstimate{
			Success: true,
			Timeline: []TimelinePhase{
				{Phase: "Plan", Duration: "4 weeks", KeyDeliverables: "Architecture"},
				{Phase: "Build", Duration: "2 months", KeyDeliverables: "POC"},
			},
		},
	}

	timeline := estimateTimeline(80, research)
	assert.True(t, timeline.HasRealData)
	require.Len(t, timeline.Phases, 2)
	assert.Equal(t, 4, timeline.Phases[0].DurationWeeks)
	assert.Equal(t, 8, timeline.Phases[1].DurationWeeks)
	assert.Equal(t, 3, timeline.TotalMonths)
}

func TestDepartmentHeatmap(t *testing.T) {
	svc := NewPortfolioService()
	ideas := []models.Idea{
		{Title: "A", Department: "Engineering", Status: models.StatusApproved, AIScore: intPtr(80)},
		{Title: "B", Department: "Engineering", Status: models.StatusSubmitted, AIScore: intPtr(60)},
	}

	heatmap := svc.departmentHeatmap(ideas)
	require.Contains(t, heatmap, "Engineering")
	heat := heatmap["Engineering"]
	assert.Equal(t, 2, heat.IdeaCount)
	assert.Equal(t, 70.0, heat.AvgScore)
	// (2*10 + 70) / 2
	assert.Equal(t, 45.0, heat.InnovationIndex)
	assert.Equal(t, "warm", heat.HeatLevel)
	assert.Equal(t, 50.0, heat.SuccessRate)
}

func TestBudgetROISkipsRejectedAndSortsByNetValue(t *testing.T) {
	svc := NewPortfolioService()
	ideas := []models.Idea{
		{SessionID: "s1", Title: "Low", Status: models.StatusSubmitted, AIScore: intPtr(30)},
		{SessionID: "s2", Title: "High", Status: models.StatusApproved, AIScore: intPtr(90)},
		{SessionID: "s3", Title: "Dead", Status: models.StatusRejected, AIScore: intPtr(90)},
	}

	projections := svc.budgetROI(ideas)
	require.Len(t, projections, 2)
	assert.Equal(t, "High", projections[0].Title)
	assert.Greater(t, projections[0].NetValue, projections[1].NetValue)
}

func TestSubmissionTrend(t *testing.T) {
	monthly := map[string]int{"2026-01": 1, "2026-02": 1, "2026-03": 5, "2026-04": 5}
	months := []string{"2026-01", "2026-02", "2026-03", "2026-04"}
	assert.Equal(t, "increasing", submissionTrend(monthly, months))

	monthly = map[string]int{"2026-01": 5, "2026-02": 5, "2026-03": 1, "2026-04": 1}
	assert.Equal(t, "decreasing", submissionTrend(monthly, months))

	assert.Equal(t, "stable", submissionTrend(map[string]int{"2026-01": 3}, []string{"2026-01"}))
}

func TestAvgApprovalDays(t *testing.T) {
	submitted := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ideas := []models.Idea{{
		Status:    models.StatusApproved,
		CreatedAt: submitted,
		Reviews: []models.Review{{
			Decision:  "approved",
			CreatedAt: submitted.AddDate(0, 0, 7),
		}},
	}}
	assert.Equal(t, 7, avgApprovalDays(ideas))

	assert.Equal(t, 14, avgApprovalDays([]models.Idea{{Status: models.StatusSubmitted}}))
}

func TestRecommendations(t *testing.T) {
	svc := NewPortfolioService()
	ideas := []models.Idea{
		{Department: "Engineering", Status: models.StatusApproved, AIScore: intPtr(80)},
		{Department: "Engineering", Status: models.StatusApproved, AIScore: intPtr(85)},
		{Department: "Engineering", Status: models.StatusCompleted, AIScore: intPtr(90)},
	}

	recommendations := svc.recommendations(ideas)
	require.Len(t, recommendations, 2)
	assert.Contains(t, recommendations[0].Title, "3 High-Potential Ideas")
	assert.Equal(t, "Limited Department Diversity", recommendations[1].Title)
}

func TestParseResearchData(t *testing.T) {
	assert.Nil(t, parseResearchData(&models.Idea{}))
	assert.Nil(t, parseResearchData(&models.Idea{ResearchData: "not json"}))

	idea := &models.Idea{ResearchData: `{"success": true, "idea_research": {"success": true}}`}
	result := parseResearchData(idea)
	require.NotNil(t, result)
	assert.True(t, result.Success)
	require.NotNil(t, result.IdeaResearch)
}
