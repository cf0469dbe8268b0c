package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/augentlabs/innovation-hub/internal/models"
)

// PortfolioSummary is the headline numbers of the portfolio.
type PortfolioSummary struct {
	TotalIdeas          int            `json:"total_ideas"`
	TotalDepartments    int            `json:"total_departments"`
	Departments         []string       `json:"departments_list"`
	AvgScore            float64        `json:"avg_score"`
	ApprovalRate        float64        `json:"approval_rate"`
	EstimatedTotalValue float64        `json:"estimated_total_value"`
	IdeasByStatus       map[string]int `json:"ideas_by_status"`
	HighPotentialCount  int            `json:"high_potential_count"`
}

// IdeaRef is a compact idea reference inside a cluster.
type IdeaRef struct {
	Title  string `json:"title"`
	Score  *int   `json:"score"`
	Status string `json:"status"`
}

// Cluster groups ideas by domain, impact or risk.
type Cluster struct {
	ClusterType     string    `json:"cluster_type"`
	Name            string    `json:"name"`
	IdeaCount       int       `json:"idea_count"`
	AvgScore        float64   `json:"avg_score"`
	Ideas           []IdeaRef `json:"ideas"`
	HealthIndicator string    `json:"health_indicator,omitempty"`
}

// DepartmentHeat is one department cell of the innovation heatmap.
type DepartmentHeat struct {
	IdeaCount       int      `json:"idea_count"`
	AvgScore        float64  `json:"avg_score"`
	ApprovedCount   int      `json:"approved_count"`
	RejectedCount   int      `json:"rejected_count"`
	InProgressCount int      `json:"in_progress_count"`
	InnovationIndex float64  `json:"innovation_index"`
	HeatLevel       string   `json:"heat_level"`
	SuccessRate     float64  `json:"success_rate"`
	TopIdeas        []string `json:"top_ideas"`
}

// TeamCost is one role line of the budget breakdown.
type TeamCost struct {
	Role           string  `json:"role"`
	Count          int     `json:"count"`
	RatePerMonth   float64 `json:"rate_per_month"`
	DurationMonths int     `json:"duration_months"`
	AllocationPct  int     `json:"allocation_pct"`
	TotalCost      float64 `json:"total_cost"`
}

// InfraCost is one infrastructure line of the budget breakdown.
type InfraCost struct {
	Item        string  `json:"item"`
	ServiceType string  `json:"service_type"`
	MonthlyCost float64 `json:"monthly_cost"`
	TotalCost   float64 `json:"total_cost"`
}

// BudgetBreakdown decomposes a project budget estimate.
type BudgetBreakdown struct {
	Total               float64     `json:"total"`
	TeamCosts           float64     `json:"team_costs"`
	InfrastructureCosts float64     `json:"infrastructure_costs"`
	ToolsCosts          float64     `json:"tools_costs"`
	Contingency         float64     `json:"contingency"`
	TeamDetails         []TeamCost  `json:"team_details"`
	InfraDetails        []InfraCost `json:"infrastructure_details"`
	HasRealData         bool        `json:"has_real_data"`
}

// PhaseEstimate is one phase of a projected implementation timeline.
type PhaseEstimate struct {
	Name          string `json:"name"`
	DurationWeeks int    `json:"duration_weeks"`
	Deliverables  string `json:"deliverables"`
}

// TimelineEstimate is a projected implementation timeline.
type TimelineEstimate struct {
	TotalMonths int             `json:"total_months"`
	Phases      []PhaseEstimate `json:"phases"`
	HasRealData bool            `json:"has_real_data"`
}

// ProjectionConfidence grades how trustworthy a projection is.
type ProjectionConfidence struct {
	Level       string   `json:"level"`
	Score       int      `json:"score"`
	Factors     []string `json:"factors"`
	MissingData []string `json:"missing_data"`
}

// IndustryComparison relates one projection to its industry's benchmark
// ROI range.
type IndustryComparison struct {
	Industry             string  `json:"industry"`
	IndustryAvgROI       float64 `json:"industry_avg_roi"`
	IndustryROIRange     string  `json:"industry_roi_range"`
	TypicalPaybackMonths int     `json:"typical_payback_months"`
	VsIndustry           string  `json:"vs_industry"`
	VsIndustryLabel      string  `json:"vs_industry_label"`
}

// BudgetROIProjection is the full budget-vs-value projection for one idea.
type BudgetROIProjection struct {
	IdeaID     string `json:"idea_id"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Score      int    `json:"score"`
	Status     string `json:"status"`

	BudgetEstimate  float64         `json:"budget_estimate"`
	BudgetBreakdown BudgetBreakdown `json:"budget_breakdown"`

	ROIProjection      float64            `json:"roi_projection"`
	ROIPercentage      float64            `json:"roi_percentage"`
	NetValue           float64            `json:"net_value"`
	ValueDrivers       []string           `json:"value_drivers"`
	Differentiators    []string           `json:"differentiators"`
	IndustryComparison IndustryComparison `json:"industry_comparison"`
	PaybackMonths      int                `json:"payback_months"`
	HasROIData         bool               `json:"has_roi_data"`

	Confidence        string   `json:"confidence"`
	ConfidenceScore   int      `json:"confidence_score"`
	ConfidenceFactors []string `json:"confidence_factors"`
	MissingData       []string `json:"missing_data"`

	Timeline  TimelineEstimate `json:"timeline"`
	RiskLevel string           `json:"risk_level"`
}

// TimelineAnalysis summarizes submission and approval activity per month.
type TimelineAnalysis struct {
	MonthlySubmissions    map[string]int `json:"monthly_submissions"`
	MonthlyApprovals      map[string]int `json:"monthly_approvals"`
	Trend                 string         `json:"trend"`
	AvgTimeToApprovalDays int            `json:"avg_time_to_approval_days"`
}

// Recommendation is one portfolio-level suggestion.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PortfolioAnalysis is the complete dashboard payload.
type PortfolioAnalysis struct {
	Summary           PortfolioSummary          `json:"summary"`
	Clusters          []Cluster                 `json:"clusters"`
	DepartmentHeatmap map[string]DepartmentHeat `json:"department_heatmap"`
	BudgetROI         []BudgetROIProjection     `json:"budget_roi_projections"`
	RiskDistribution  map[string]int            `json:"risk_distribution"`
	Timeline          TimelineAnalysis          `json:"timeline_analysis"`
	Recommendations   []Recommendation          `json:"recommendations"`
}

// PortfolioService computes portfolio-level analytics over stored ideas.
// Pure aggregation: no LLM or search calls, so the dashboard stays cheap.
type PortfolioService struct{}

func NewPortfolioService() *PortfolioService {
	return &PortfolioService{}
}

// Analyze computes the full dashboard payload for a set of ideas.
func (s *PortfolioService) Analyze(ideas []models.Idea) *PortfolioAnalysis {
	if len(ideas) == 0 {
		return &PortfolioAnalysis{
			Summary: PortfolioSummary{
				Departments:   []string{},
				IdeasByStatus: map[string]int{},
			},
			Clusters:          []Cluster{},
			DepartmentHeatmap: map[string]DepartmentHeat{},
			BudgetROI:         []BudgetROIProjection{},
			RiskDistribution:  map[string]int{"low": 0, "medium": 0, "high": 0},
			Timeline: TimelineAnalysis{
				MonthlySubmissions: map[string]int{},
				MonthlyApprovals:   map[string]int{},
				Trend:              "stable",
			},
			Recommendations: []Recommendation{{
				Type:        "action",
				Priority:    "high",
				Title:       "Start Innovation Program",
				Description: "No ideas submitted yet. Consider launching an innovation campaign to encourage submissions.",
			}},
		}
	}

	log.Printf("📊 Analyzing portfolio of %d ideas", len(ideas))
	return &PortfolioAnalysis{
		Summary:           s.summary(ideas),
		Clusters:          s.clusters(ideas),
		DepartmentHeatmap: s.departmentHeatmap(ideas),
		BudgetROI:         s.budgetROI(ideas),
		RiskDistribution:  s.riskDistribution(ideas),
		Timeline:          s.timeline(ideas),
		Recommendations:   s.recommendations(ideas),
	}
}

func (s *PortfolioService) summary(ideas []models.Idea) PortfolioSummary {
	departments := map[string]bool{}
	byStatus := map[string]int{}
	var scoreSum, scoreCount int
	var approved, reviewed, highPotential int

	for i := range ideas {
		idea := &ideas[i]
		departments[departmentOrDefault(idea)] = true
		byStatus[idea.Status]++
		if idea.AIScore != nil {
			scoreSum += *idea.AIScore
			scoreCount++
			if *idea.AIScore >= 75 {
				highPotential++
			}
		}
		switch idea.Status {
		case models.StatusApproved:
			approved++
			reviewed++
		case models.StatusRejected:
			reviewed++
		}
	}

	var avgScore float64
	if scoreCount > 0 {
		avgScore = round1(float64(scoreSum) / float64(scoreCount))
	}
	var approvalRate float64
	if reviewed > 0 {
		approvalRate = round1(float64(approved) / float64(reviewed) * 100)
	}

	deptList := make([]string, 0, len(departments))
	for d := range departments {
		deptList = append(deptList, d)
	}
	sort.Strings(deptList)

	return PortfolioSummary{
		TotalIdeas:          len(ideas),
		TotalDepartments:    len(departments),
		Departments:         deptList,
		AvgScore:            avgScore,
		ApprovalRate:        approvalRate,
		EstimatedTotalValue: s.portfolioValue(ideas),
		IdeasByStatus:       byStatus,
		HighPotentialCount:  highPotential,
	}
}

// portfolioValue prices each idea at $1000 per score point, with a 1.5x
// multiplier once approved. Unscored ideas count as 50.
func (s *PortfolioService) portfolioValue(ideas []models.Idea) float64 {
	var total float64
	for i := range ideas {
		idea := &ideas[i]
		value := float64(scoreOrDefault(idea, 50)) * 1000
		if idea.Status == models.StatusApproved {
			value *= 1.5
		}
		total += value
	}
	return math.Round(total*100) / 100
}

func (s *PortfolioService) clusters(ideas []models.Idea) []Cluster {
	var clusters []Cluster

	byDept := map[string][]*models.Idea{}
	for i := range ideas {
		dept := departmentOrDefault(&ideas[i])
		byDept[dept] = append(byDept[dept], &ideas[i])
	}
	for _, dept := range sortedKeys(byDept) {
		group := byDept[dept]
		avg := avgScoreOf(group)
		clusters = append(clusters, Cluster{
			ClusterType:     "domain",
			Name:            dept,
			IdeaCount:       len(group),
			AvgScore:        avg,
			Ideas:           ideaRefs(group),
			HealthIndicator: healthIndicator(avg),
		})
	}

	impactBuckets := []struct {
		name     string
		min, max int
	}{
		{"High Impact", 70, 101},
		{"Medium Impact", 40, 70},
		{"Low Impact", 0, 40},
	}
	for _, bucket := range impactBuckets {
		var group []*models.Idea
		for i := range ideas {
			score := scoreOrDefault(&ideas[i], 0)
			if score >= bucket.min && score < bucket.max {
				group = append(group, &ideas[i])
			}
		}
		if len(group) > 0 {
			clusters = append(clusters, Cluster{
				ClusterType: "impact",
				Name:        bucket.name,
				IdeaCount:   len(group),
				AvgScore:    avgScoreOf(group),
				Ideas:       ideaRefs(group),
			})
		}
	}

	riskBuckets := map[string][]*models.Idea{}
	for i := range ideas {
		level := riskLevel(&ideas[i])
		name := map[string]string{"low": "Low Risk", "medium": "Medium Risk", "high": "High Risk"}[level]
		riskBuckets[name] = append(riskBuckets[name], &ideas[i])
	}
	for _, name := range []string{"Low Risk", "Medium Risk", "High Risk"} {
		group := riskBuckets[name]
		if len(group) > 0 {
			clusters = append(clusters, Cluster{
				ClusterType: "risk",
				Name:        name,
				IdeaCount:   len(group),
				AvgScore:    avgScoreOf(group),
				Ideas:       ideaRefs(group),
			})
		}
	}
	return clusters
}

func (s *PortfolioService) departmentHeatmap(ideas []models.Idea) map[string]DepartmentHeat {
	type acc struct {
		count, totalScore                 int
		approved, rejected, inProgress    int
		titles                            []string
	}
	data := map[string]*acc{}

	for i := range ideas {
		idea := &ideas[i]
		dept := departmentOrDefault(idea)
		a := data[dept]
		if a == nil {
			a = &acc{}
			data[dept] = a
		}
		a.count++
		a.totalScore += scoreOrDefault(idea, 0)
		a.titles = append(a.titles, idea.Title)
		switch idea.Status {
		case models.StatusApproved:
			a.approved++
		case models.StatusRejected:
			a.rejected++
		case models.StatusInProgress, models.StatusUnderReview:
			a.inProgress++
		}
	}

	heatmap := map[string]DepartmentHeat{}
	for dept, a := range data {
		avg := float64(a.totalScore) / float64(a.count)
		// Weighted blend of quantity and quality.
		index := (float64(a.count)*10 + avg) / 2

		level := "cool"
		switch {
		case index >= 60:
			level = "hot"
		case index >= 30:
			level = "warm"
		}

		top := a.titles
		if len(top) > 5 {
			top = top[:5]
		}
		heatmap[dept] = DepartmentHeat{
			IdeaCount:       a.count,
			AvgScore:        round1(avg),
			ApprovedCount:   a.approved,
			RejectedCount:   a.rejected,
			InProgressCount: a.inProgress,
			InnovationIndex: round1(index),
			HeatLevel:       level,
			SuccessRate:     round1(float64(a.approved) / float64(a.count) * 100),
			TopIdeas:        top,
		}
	}
	return heatmap
}

func (s *PortfolioService) budgetROI(ideas []models.Idea) []BudgetROIProjection {
	projections := []BudgetROIProjection{}

	for i := range ideas {
		idea := &ideas[i]
		if idea.Status == models.StatusRejected {
			continue
		}

		score := scoreOrDefault(idea, 50)
		research := parseResearchData(idea)
		budget := estimateBudget(idea, score, research)
		roi := projectROI(idea, score, budget.Total, research)
		confidence := projectionConfidence(idea, research)
		timeline := estimateTimeline(score, research)

		projections = append(projections, BudgetROIProjection{
			IdeaID:            idea.SessionID,
			Title:             idea.Title,
			Department:        departmentOrDefault(idea),
			Score:             score,
			Status:            idea.Status,
			BudgetEstimate:    budget.Total,
			BudgetBreakdown:   budget,
			ROIProjection:      roi.ProjectedValue,
			ROIPercentage:      roi.Percentage,
			NetValue:           roi.NetValue,
			ValueDrivers:       roi.ValueDrivers,
			Differentiators:    roi.Differentiators,
			IndustryComparison: roi.Industry,
			PaybackMonths:      roi.PaybackMonths,
			HasROIData:         roi.HasRealData,
			Confidence:        confidence.Level,
			ConfidenceScore:   confidence.Score,
			ConfidenceFactors: confidence.Factors,
			MissingData:       confidence.MissingData,
			Timeline:          timeline,
			RiskLevel:         riskLevel(idea),
		})
	}

	sort.SliceStable(projections, func(a, b int) bool {
		return projections[a].NetValue > projections[b].NetValue
	})
	return projections
}

func (s *PortfolioService) riskDistribution(ideas []models.Idea) map[string]int {
	distribution := map[string]int{"low": 0, "medium": 0, "high": 0}
	for i := range ideas {
		distribution[riskLevel(&ideas[i])]++
	}
	return distribution
}

func (s *PortfolioService) timeline(ideas []models.Idea) TimelineAnalysis {
	submissions := map[string]int{}
	approvals := map[string]int{}

	for i := range ideas {
		idea := &ideas[i]
		month := idea.CreatedAt.Format("2006-01")
		submissions[month]++
		if idea.Status == models.StatusApproved {
			approvals[month]++
		}
	}

	months := sortedKeys(submissions)
	if len(months) > 6 {
		months = months[len(months)-6:]
	}

	outSubs := map[string]int{}
	outApprovals := map[string]int{}
	for _, m := range months {
		outSubs[m] = submissions[m]
		outApprovals[m] = approvals[m]
	}

	return TimelineAnalysis{
		MonthlySubmissions:    outSubs,
		MonthlyApprovals:      outApprovals,
		Trend:                 submissionTrend(submissions, months),
		AvgTimeToApprovalDays: avgApprovalDays(ideas),
	}
}

func (s *PortfolioService) recommendations(ideas []models.Idea) []Recommendation {
	recommendations := []Recommendation{}

	var scoreSum int
	var highPotential, pending int
	departments := map[string]bool{}
	for i := range ideas {
		idea := &ideas[i]
		score := scoreOrDefault(idea, 0)
		scoreSum += score
		if score >= 75 {
			highPotential++
		}
		if idea.Status == models.StatusSubmitted {
			pending++
		}
		departments[departmentOrDefault(idea)] = true
	}
	avgScore := float64(scoreSum) / float64(len(ideas))

	if highPotential >= 3 {
		recommendations = append(recommendations, Recommendation{
			Type:        "opportunity",
			Priority:    "high",
			Title:       fmt.Sprintf("%d High-Potential Ideas Identified", highPotential),
			Description: "Consider fast-tracking these ideas for POC development.",
		})
	}
	if pending >= 5 {
		recommendations = append(recommendations, Recommendation{
			Type:        "warning",
			Priority:    "medium",
			Title:       fmt.Sprintf("%d Ideas Awaiting Review", pending),
			Description: "Review backlog detected. Consider allocating more reviewer resources.",
		})
	}
	if len(departments) < 3 {
		recommendations = append(recommendations, Recommendation{
			Type:        "insight",
			Priority:    "low",
			Title:       "Limited Department Diversity",
			Description: fmt.Sprintf("Only %d departments are contributing. Consider cross-departmental innovation workshops.", len(departments)),
		})
	}
	if avgScore < 50 {
		recommendations = append(recommendations, Recommendation{
			Type:        "action",
			Priority:    "medium",
			Title:       "Quality Improvement Needed",
			Description: "Average idea score is below 50. Consider providing idea development training.",
		})
	}
	return recommendations
}

// riskLevel buckets riskScore into low (<=33), medium (<=66) or high.
func riskLevel(idea *models.Idea) string {
	score := riskScore(idea)
	switch {
	case score <= 33:
		return "low"
	case score <= 66:
		return "medium"
	}
	return "high"
}

// riskScore estimates implementation risk 0-100, higher is riskier. Starts
// at 50, falls with a strong AI score and approval, rises without research.
func riskScore(idea *models.Idea) int {
	risk := 50.0
	if idea.AIScore != nil {
		risk -= float64(*idea.AIScore-50) * 0.5
	}
	if idea.ResearchData == "" {
		risk += 15
	}
	if idea.Status == models.StatusApproved {
		risk -= 10
	}
	return int(math.Max(0, math.Min(100, risk)))
}

func parseResearchData(idea *models.Idea) *WorkflowResult {
	if idea.ResearchData == "" {
		return nil
	}
	var result WorkflowResult
	if err := json.Unmarshal([]byte(idea.ResearchData), &result); err != nil {
		return nil
	}
	return &result
}

// Average monthly rates by role keyword.
var roleRates = []struct {
	keyword string
	rate    float64
}{
	{"senior developer", 12000},
	{"tech lead", 14000},
	{"architect", 15000},
	{"full-stack", 10000},
	{"frontend", 8500},
	{"backend", 9000},
	{"project manager", 9000},
	{"product manager", 10000},
	{"data scientist", 13000},
	{"ml engineer", 14000},
	{"devops", 11000},
	{"designer", 7500},
	{"ux", 8000},
	{"ui", 7000},
	{"qa", 6500},
	{"tester", 6000},
	{"analyst", 7000},
	{"consultant", 12000},
	{"ai", 14000},
	{"developer", 8000},
}

const defaultRoleRate = 8000

// Monthly infrastructure costs by service keyword.
var infraRates = []struct {
	keyword string
	monthly float64
}{
	{"kubernetes", 300},
	{"elasticsearch", 200},
	{"postgresql", 100},
	{"mongodb", 120},
	{"monitoring", 100},
	{"logging", 80},
	{"database", 150},
	{"lambda", 100},
	{"docker", 50},
	{"redis", 80},
	{"cloud", 400},
	{"azure", 500},
	{"aws", 500},
	{"gcp", 500},
	{"ec2", 150},
	{"rds", 200},
	{"cdn", 100},
	{"s3", 50},
	{"ssl", 20},
	{"domain", 15},
}

const defaultInfraMonthly = 100
const toolCostPerPersonMonth = 50

func estimateBudget(idea *models.Idea, score int, research *WorkflowResult) BudgetBreakdown {
	budget := BudgetBreakdown{
		TeamDetails:  []TeamCost{},
		InfraDetails: []InfraCost{},
	}

	if research != nil && research.ResourceEstimation != nil && research.ResourceEstimation.Success {
		est := research.ResourceEstimation
		budget.HasRealData = true
		totalMonths := timelineMonths(est.Timeline)

		teamSize := 0
		for _, resource := range est.TeamResources {
			people := parsePeopleCount(resource.NumberOfPeople)
			teamSize += people
			allocation := parseAllocation(resource.Allocation)

			rate := float64(defaultRoleRate)
			roleLower := strings.ToLower(resource.Role)
			for _, r := range roleRates {
				if strings.Contains(roleLower, r.keyword) {
					rate = r.rate
					break
				}
			}

			months := totalMonths
			if allocation.Months > 0 {
				months = allocation.Months
			}
			cost := rate * float64(people) * float64(months) * float64(allocation.Percentage) / 100

			budget.TeamCosts += cost
			budget.TeamDetails = append(budget.TeamDetails, TeamCost{
				Role:           resource.Role,
				Count:          people,
				RatePerMonth:   rate,
				DurationMonths: months,
				AllocationPct:  allocation.Percentage,
				TotalCost:      math.Round(cost*100) / 100,
			})
		}

		for _, item := range est.TechnicalInfrastructure {
			itemLower := strings.ToLower(item)
			monthly := float64(defaultInfraMonthly)
			serviceType := "Other"
			for _, r := range infraRates {
				if strings.Contains(itemLower, r.keyword) {
					monthly = r.monthly
					serviceType = strings.ToUpper(r.keyword)
					break
				}
			}
			cost := monthly * float64(totalMonths)
			budget.InfrastructureCosts += cost
			budget.InfraDetails = append(budget.InfraDetails, InfraCost{
				Item:        item,
				ServiceType: serviceType,
				MonthlyCost: monthly,
				TotalCost:   math.Round(cost*100) / 100,
			})
		}

		budget.ToolsCosts = float64(teamSize) * toolCostPerPersonMonth * float64(totalMonths)
	} else {
		// No estimation data: size the project from the AI score.
		switch {
		case score >= 70:
			budget.TeamCosts = 5 * 9000 * 6
			budget.InfrastructureCosts = 800 * 6
			budget.ToolsCosts = 5 * toolCostPerPersonMonth * 6
		case score >= 40:
			budget.TeamCosts = 3 * 8500 * 4
			budget.InfrastructureCosts = 400 * 4
			budget.ToolsCosts = 3 * toolCostPerPersonMonth * 4
		default:
			budget.TeamCosts = 2 * 8000 * 3
			budget.InfrastructureCosts = 200 * 3
			budget.ToolsCosts = 2 * toolCostPerPersonMonth * 3
		}
	}

	subtotal := budget.TeamCosts + budget.InfrastructureCosts + budget.ToolsCosts
	budget.Contingency = subtotal * 0.15
	budget.Total = math.Round((subtotal+budget.Contingency)*100) / 100
	return budget
}

var numberPattern = regexp.MustCompile(`\d+`)

// parsePeopleCount reads counts like "2 developers" or "1-2"; a range
// yields its average.
func parsePeopleCount(text string) int {
	numbers := numberPattern.FindAllString(text, -1)
	if len(numbers) == 0 {
		return 1
	}
	first, _ := strconv.Atoi(numbers[0])
	if len(numbers) >= 2 {
		second, _ := strconv.Atoi(numbers[1])
		return (first + second) / 2
	}
	return first
}

type allocationSpec struct {
	Percentage int
	Months     int
}

var (
	percentPattern = regexp.MustCompile(`(\d+)\s*%`)
	monthPattern   = regexp.MustCompile(`(\d+)\s*month`)
	weekPattern    = regexp.MustCompile(`(\d+)\s*week`)
)

// parseAllocation reads strings like "Full-time for 8 months" or
// "50% for 3 months".
func parseAllocation(text string) allocationSpec {
	result := allocationSpec{Percentage: 100}
	lower := strings.ToLower(text)

	if strings.Contains(lower, "part-time") || strings.Contains(lower, "part time") || strings.Contains(lower, "half") {
		result.Percentage = 50
	}
	if m := percentPattern.FindStringSubmatch(lower); m != nil {
		result.Percentage, _ = strconv.Atoi(m[1])
	}
	if m := monthPattern.FindStringSubmatch(lower); m != nil {
		result.Months, _ = strconv.Atoi(m[1])
	}
	if result.Months == 0 {
		if m := weekPattern.FindStringSubmatch(lower); m != nil {
			weeks, _ := strconv.Atoi(m[1])
			result.Months = max(1, weeks/4)
		}
	}
	return result
}

// timelineMonths sums phase durations into whole months, defaulting to 6
// when no phase carries a parseable duration and flooring at 3.
func timelineMonths(phases []TimelinePhase) int {
	totalWeeks := 0
	for _, phase := range phases {
		lower := strings.ToLower(phase.Duration)
		if m := weekPattern.FindStringSubmatch(lower); m != nil {
			weeks, _ := strconv.Atoi(m[1])
			totalWeeks += weeks
			continue
		}
		if m := monthPattern.FindStringSubmatch(lower); m != nil {
			months, _ := strconv.Atoi(m[1])
			totalWeeks += months * 4
		}
	}
	if totalWeeks == 0 {
		return 6
	}
	return max(3, totalWeeks/4)
}

type roiProjection struct {
	ProjectedValue  float64
	Percentage      float64
	NetValue        float64
	PaybackMonths   int
	ValueDrivers    []string
	Differentiators []string
	HasRealData     bool
	Industry        IndustryComparison
}

type industryBenchmark struct {
	MinROI         float64
	MaxROI         float64
	AvgROI         float64
	TypicalPayback int
}

// Benchmark ROI ranges for POC/innovation projects per industry. Detection
// order matters: clinical-trial terms must win over generic healthcare ones.
var industryBenchmarks = []struct {
	name      string
	keywords  []string
	benchmark industryBenchmark
}{
	{"clinical_trial", []string{"clinical trial", "patient matching", "trial protocol", "eligibility", "patient screening", "medical trial"}, industryBenchmark{150, 400, 220, 15}},
	{"healthcare", []string{"healthcare", "medical", "hospital", "patient", "health", "diagnosis", "treatment"}, industryBenchmark{120, 350, 180, 18}},
	{"ai_ml", []string{"artificial intelligence", "machine learning", "ai", "ml", "deep learning", "neural network", "nlp", "computer vision"}, industryBenchmark{100, 500, 200, 12}},
	{"automation", []string{"automation", "automate", "workflow", "rpa", "robotic process", "automated"}, industryBenchmark{80, 250, 150, 10}},
	{"fintech", []string{"fintech", "finance", "banking", "payment", "trading", "investment", "insurance"}, industryBenchmark{130, 380, 190, 14}},
	{"saas", []string{"saas", "software as a service", "platform", "subscription", "cloud software"}, industryBenchmark{90, 300, 160, 16}},
	{"manufacturing", []string{"manufacturing", "factory", "production", "assembly", "supply chain"}, industryBenchmark{60, 180, 110, 20}},
	{"logistics", []string{"logistics", "shipping", "delivery", "warehouse", "freight", "transport"}, industryBenchmark{70, 200, 120, 18}},
	{"retail", []string{"retail", "e-commerce", "store", "shopping", "consumer", "inventory"}, industryBenchmark{50, 150, 90, 22}},
}

var generalBenchmark = industryBenchmark{40, 200, 100, 18}

// detectIndustry picks the benchmark row whose keywords appear in the idea
// text, defaulting to "general".
func detectIndustry(idea *models.Idea) (string, industryBenchmark) {
	text := strings.ToLower(idea.Title + " " + idea.OriginalIdea + " " + idea.RephrasedIdea)
	for _, row := range industryBenchmarks {
		for _, kw := range row.keywords {
			if strings.Contains(text, kw) {
				return row.name, row.benchmark
			}
		}
	}
	return "general", generalBenchmark
}

func industryTitle(name string) string {
	words := strings.Split(name, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

var insightPctPattern = regexp.MustCompile(`(\d+)\s*%`)

// insightAdjustment converts quantified efficiency claims in the first five
// insights ("40% reduction", "saves 60%") into ROI points.
func insightAdjustment(insights []Insight) float64 {
	adjustment := 0.0
	for i, insight := range insights {
		if i >= 5 {
			break
		}
		text := strings.ToLower(insight.Insight + " " + insight.Details)
		m := insightPctPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		quantified := false
		for _, kw := range []string{"reduction", "save", "faster", "efficiency", "improve"} {
			if strings.Contains(text, kw) {
				quantified = true
				break
			}
		}
		if !quantified {
			continue
		}
		pct, _ := strconv.Atoi(m[1])
		switch {
		case pct >= 50:
			adjustment += 25
		case pct >= 30:
			adjustment += 15
		case pct >= 10:
			adjustment += 8
		}
	}
	return adjustment
}

func projectROI(idea *models.Idea, score int, budget float64, research *WorkflowResult) roiProjection {
	roi := roiProjection{PaybackMonths: 12, ValueDrivers: []string{}, Differentiators: []string{}}
	if budget == 0 {
		budget = 50000
	}

	industry, bench := detectIndustry(idea)
	roi.Industry = IndustryComparison{
		Industry:             industryTitle(industry),
		IndustryAvgROI:       bench.AvgROI,
		IndustryROIRange:     fmt.Sprintf("%.0f%% - %.0f%%", bench.MinROI, bench.MaxROI),
		TypicalPaybackMonths: bench.TypicalPayback,
	}

	if research != nil && research.IdeaResearch != nil && research.IdeaResearch.Success {
		ir := research.IdeaResearch
		roi.HasRealData = true

		adjustment := 0.0

		implementing := len(ir.WhoIsImplementing)
		if implementing == 1 && ir.WhoIsImplementing[0].Name == "None Found" {
			implementing = 0
		}
		switch {
		case implementing >= 5:
			adjustment += 40
			roi.ValueDrivers = append(roi.ValueDrivers, fmt.Sprintf("%d+ companies already implementing - validated market", implementing))
			roi.Differentiators = append(roi.Differentiators, "Higher than avg: Strong market validation")
		case implementing >= 2:
			adjustment += 20
			roi.ValueDrivers = append(roi.ValueDrivers, fmt.Sprintf("%d companies have validated this approach", implementing))
		default:
			adjustment -= 10
			roi.ValueDrivers = append(roi.ValueDrivers, "Early-stage market opportunity - higher risk/reward")
		}

		switch {
		case score >= 80:
			adjustment += 35
			roi.Differentiators = append(roi.Differentiators, "Higher than avg: Exceptional idea score (80+)")
		case score >= 70:
			adjustment += 20
			roi.Differentiators = append(roi.Differentiators, "Higher than avg: Strong idea score (70+)")
		case score >= 50:
			adjustment += 5
		default:
			adjustment -= 20
		}

		pros := ir.ProsAndCons.Pros
		cons := ir.ProsAndCons.Cons
		if len(pros) > len(cons)+2 {
			adjustment += 15
			roi.Differentiators = append(roi.Differentiators, "Higher than avg: Strong benefit profile")
		} else if len(cons) > len(pros) {
			adjustment -= 15
		}

		adjustment += insightAdjustment(ir.UsefulInsights)

		for i, pro := range pros {
			if i >= 3 {
				break
			}
			if len(pro) > 10 {
				roi.ValueDrivers = append(roi.ValueDrivers, pro)
			}
		}

		roi.Percentage = round1(math.Max(bench.MinROI, math.Min(bench.MaxROI, bench.AvgROI+adjustment)))

		switch {
		case roi.Percentage > bench.AvgROI*1.2:
			roi.Industry.VsIndustry = "above_average"
			roi.Industry.VsIndustryLabel = fmt.Sprintf("+%.0f%% above industry avg", roi.Percentage-bench.AvgROI)
		case roi.Percentage < bench.AvgROI*0.8:
			roi.Industry.VsIndustry = "below_average"
			roi.Industry.VsIndustryLabel = fmt.Sprintf("%.0f%% below industry avg", bench.AvgROI-roi.Percentage)
		default:
			roi.Industry.VsIndustry = "on_par"
			roi.Industry.VsIndustryLabel = "On par with industry average"
		}
	} else {
		switch {
		case score >= 75:
			roi.Percentage = bench.AvgROI + 50
			roi.ValueDrivers = append(roi.ValueDrivers, "High-scoring idea with strong potential")
		case score >= 50:
			roi.Percentage = bench.AvgROI
			roi.ValueDrivers = append(roi.ValueDrivers, "Moderate potential based on AI assessment")
		default:
			roi.Percentage = math.Max(20, bench.AvgROI-30)
			roi.ValueDrivers = append(roi.ValueDrivers, "Conservative estimate - needs more validation")
		}
		roi.Industry.VsIndustry = "estimated"
		roi.Industry.VsIndustryLabel = "Based on AI score (no research data)"
	}

	roi.ProjectedValue = math.Round(budget*(1+roi.Percentage/100)*100) / 100
	roi.NetValue = math.Round((roi.ProjectedValue-budget)*100) / 100

	if roi.NetValue > 0 {
		payback := bench.TypicalPayback
		switch {
		case roi.Percentage > bench.AvgROI*1.3:
			payback = bench.TypicalPayback - 4
		case roi.Percentage > bench.AvgROI:
			payback = bench.TypicalPayback - 2
		default:
			payback = bench.TypicalPayback + 2
		}
		roi.PaybackMonths = max(3, min(36, payback))
	} else {
		roi.PaybackMonths = bench.TypicalPayback
	}
	return roi
}

func projectionConfidence(idea *models.Idea, research *WorkflowResult) ProjectionConfidence {
	confidence := ProjectionConfidence{
		Level:       "low",
		Factors:     []string{},
		MissingData: []string{},
	}

	if research != nil {
		if research.ResourceEstimation != nil && research.ResourceEstimation.Success {
			confidence.Score += 25
			confidence.Factors = append(confidence.Factors, "Detailed resource estimation available")
		} else {
			confidence.MissingData = append(confidence.MissingData, "Resource estimation not performed")
		}
		if research.IdeaResearch != nil && research.IdeaResearch.Success {
			confidence.Score += 20
			confidence.Factors = append(confidence.Factors, "Market research completed")
		} else {
			confidence.MissingData = append(confidence.MissingData, "Market research not available")
		}
		if research.CompanyResearch != nil && research.CompanyResearch.Success {
			confidence.Score += 15
			confidence.Factors = append(confidence.Factors, "Company context analyzed")
		}
	} else {
		confidence.MissingData = append(confidence.MissingData, "No research data - estimates are rough approximations")
	}

	if idea.AIScore != nil {
		switch {
		case *idea.AIScore >= 70:
			confidence.Score += 20
			confidence.Factors = append(confidence.Factors, fmt.Sprintf("Strong AI score (%d/100)", *idea.AIScore))
		case *idea.AIScore >= 50:
			confidence.Score += 10
			confidence.Factors = append(confidence.Factors, fmt.Sprintf("Moderate AI score (%d/100)", *idea.AIScore))
		default:
			confidence.MissingData = append(confidence.MissingData, fmt.Sprintf("Low AI score (%d/100) indicates uncertainty", *idea.AIScore))
		}
	} else {
		confidence.MissingData = append(confidence.MissingData, "No AI evaluation performed")
	}

	switch idea.Status {
	case models.StatusApproved:
		confidence.Score += 20
		confidence.Factors = append(confidence.Factors, "Idea approved by reviewers")
	case models.StatusUnderReview:
		confidence.Score += 5
		confidence.Factors = append(confidence.Factors, "Currently under review")
	}

	switch {
	case confidence.Score >= 70:
		confidence.Level = "high"
	case confidence.Score >= 40:
		confidence.Level = "medium"
	}
	return confidence
}

func estimateTimeline(score int, research *WorkflowResult) TimelineEstimate {
	timeline := TimelineEstimate{TotalMonths: 6, Phases: []PhaseEstimate{}}

	if research != nil && research.ResourceEstimation != nil && len(research.ResourceEstimation.Timeline) > 0 {
		timeline.HasRealData = true
		totalWeeks := 0
		for _, phase := range research.ResourceEstimation.Timeline {
			lower := strings.ToLower(phase.Duration)
			weeks := 4
			if m := weekPattern.FindStringSubmatch(lower); m != nil {
				weeks, _ = strconv.Atoi(m[1])
			} else if m := monthPattern.FindStringSubmatch(lower); m != nil {
				months, _ := strconv.Atoi(m[1])
				weeks = months * 4
			}
			totalWeeks += weeks
			timeline.Phases = append(timeline.Phases, PhaseEstimate{
				Name:          phase.Phase,
				DurationWeeks: weeks,
				Deliverables:  phase.KeyDeliverables,
			})
		}
		timeline.TotalMonths = max(3, totalWeeks/4)
		return timeline
	}

	switch {
	case score >= 75:
		timeline.TotalMonths = 4
		timeline.Phases = []PhaseEstimate{
			{Name: "Discovery & Planning", DurationWeeks: 2, Deliverables: "Requirements, Architecture"},
			{Name: "Development", DurationWeeks: 10, Deliverables: "Core Features"},
			{Name: "Testing & Launch", DurationWeeks: 4, Deliverables: "QA, Deployment"},
		}
	case score >= 50:
		timeline.TotalMonths = 6
		timeline.Phases = []PhaseEstimate{
			{Name: "Discovery & Planning", DurationWeeks: 4, Deliverables: "Requirements, Architecture"},
			{Name: "Development", DurationWeeks: 16, Deliverables: "Core Features"},
			{Name: "Testing & Launch", DurationWeeks: 4, Deliverables: "QA, Deployment"},
		}
	default:
		timeline.TotalMonths = 8
		timeline.Phases = []PhaseEstimate{
			{Name: "Discovery & Validation", DurationWeeks: 6, Deliverables: "Requirements, Proof of Concept"},
			{Name: "Development", DurationWeeks: 20, Deliverables: "Core Features"},
			{Name: "Testing & Launch", DurationWeeks: 6, Deliverables: "QA, Deployment"},
		}
	}
	return timeline
}

func submissionTrend(monthly map[string]int, months []string) string {
	if len(months) < 2 {
		return "stable"
	}
	recent := monthly[months[len(months)-1]] + monthly[months[len(months)-2]]
	earlier := 0
	for _, m := range months[:len(months)-2] {
		earlier += monthly[m]
	}
	switch {
	case float64(recent) > float64(earlier)*1.2:
		return "increasing"
	case float64(recent) < float64(earlier)*0.8:
		return "decreasing"
	}
	return "stable"
}

// avgApprovalDays measures the time from submission to the first approval
// review, falling back to a two-week default with no approvals.
func avgApprovalDays(ideas []models.Idea) int {
	var totalDays float64
	count := 0
	for i := range ideas {
		idea := &ideas[i]
		if idea.Status != models.StatusApproved {
			continue
		}
		for _, review := range idea.Reviews {
			if review.Decision == "approved" {
				totalDays += review.CreatedAt.Sub(idea.CreatedAt).Hours() / 24
				count++
				break
			}
		}
	}
	if count == 0 {
		return 14
	}
	return int(totalDays / float64(count))
}

func healthIndicator(avgScore float64) string {
	switch {
	case avgScore >= 70:
		return "healthy"
	case avgScore >= 50:
		return "moderate"
	}
	return "needs_attention"
}

func ideaRefs(group []*models.Idea) []IdeaRef {
	refs := make([]IdeaRef, 0, len(group))
	for _, idea := range group {
		refs = append(refs, IdeaRef{Title: idea.Title, Score: idea.AIScore, Status: idea.Status})
	}
	return refs
}

func avgScoreOf(group []*models.Idea) float64 {
	if len(group) == 0 {
		return 0
	}
	sum := 0
	for _, idea := range group {
		sum += scoreOrDefault(idea, 0)
	}
	return round1(float64(sum) / float64(len(group)))
}

func scoreOrDefault(idea *models.Idea, def int) int {
	if idea.AIScore != nil {
		return *idea.AIScore
	}
	return def
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

