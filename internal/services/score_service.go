package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/augentlabs/innovation-hub/internal/jsonutil"
	"github.com/augentlabs/innovation-hub/internal/models"
)

// IdeaScore is the basic rubric score for an idea.
type IdeaScore struct {
	Success      bool     `json:"success"`
	Error        string   `json:"error,omitempty"`
	Score        int      `json:"score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// CriterionScore is one rubric criterion with its reasoning.
type CriterionScore struct {
	CriterionName string   `json:"criterion_name"`
	Score         int      `json:"score"`
	MaxScore      int      `json:"max_score"`
	Reasoning     string   `json:"reasoning"`
	Evidence      []string `json:"evidence"`
	Confidence    float64  `json:"confidence"`
}

// BiasWarning flags a potential bias or data quality issue in the evaluation.
type BiasWarning struct {
	WarningType string `json:"warning_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

// EnhancedIdeaScore is the transparent per-criterion evaluation.
type EnhancedIdeaScore struct {
	Success           bool             `json:"success"`
	Error             string           `json:"error,omitempty"`
	TotalScore        int              `json:"total_score"`
	CriterionScores   []CriterionScore `json:"criterion_scores"`
	OverallConfidence float64          `json:"overall_confidence"`
	BiasWarnings      []BiasWarning    `json:"bias_warnings"`
	Feedback          string           `json:"feedback"`
	Strengths         []string         `json:"strengths"`
	Improvements      []string         `json:"improvements"`
	DataQualityNotes  string           `json:"data_quality_notes"`
}

// CriterionBreakdown is a criterion score formatted for display.
type CriterionBreakdown struct {
	Name            string   `json:"name"`
	Score           int      `json:"score"`
	MaxScore        int      `json:"max_score"`
	Percentage      float64  `json:"percentage"`
	Reasoning       string   `json:"reasoning"`
	Evidence        []string `json:"evidence"`
	Confidence      float64  `json:"confidence"`
	ConfidenceLabel string   `json:"confidence_label"`
}

// BiasAlert is a bias warning formatted for display.
type BiasAlert struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation"`
}

// ScoreExplanation is the "Why this score?" view of an enhanced score.
type ScoreExplanation struct {
	Success           bool                 `json:"success"`
	Error             string               `json:"error,omitempty"`
	TotalScore        int                  `json:"total_score"`
	OverallConfidence float64              `json:"overall_confidence"`
	ConfidenceLabel   string               `json:"confidence_label"`
	CriteriaBreakdown []CriterionBreakdown `json:"criteria_breakdown"`
	BiasAlerts        []BiasAlert          `json:"bias_alerts"`
	Summary           string               `json:"summary"`
	Strengths         []string             `json:"strengths"`
	Improvements      []string             `json:"improvements"`
	DataQuality       string               `json:"data_quality"`
}

// ScoreService evaluates ideas against the four-criterion rubric.
type ScoreService struct {
	LLM Generator
}

func NewScoreService(llm Generator) *ScoreService {
	return &ScoreService{LLM: llm}
}

const scoringPrompt = `You are an expert idea evaluator. Evaluate the business idea and provide a score with feedback.

**Idea Details:**
- Title: %s
- Department: %s
- Content: %s

**Evaluation Criteria:**
1. Innovation (0-25 points)
2. Feasibility (0-25 points)
3. Business Impact (0-25 points)
4. Clarity (0-25 points)

Provide a JSON response with: score (0-100), feedback (detailed), strengths (2-3), improvements (2-3).`

// ScoreIdea runs the basic rubric evaluation.
func (s *ScoreService) ScoreIdea(ctx context.Context, idea *models.Idea) *IdeaScore {
	if s.LLM == nil {
		return &IdeaScore{Success: false, Error: "AI service not available"}
	}
	log.Printf("🎯 Scoring idea: %s", idea.Title)

	content := prepareIdeaContent(idea)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(scoringPrompt, idea.Title, departmentOrDefault(idea), content))
	if err != nil {
		log.Printf("❌ Scoring failed: %v", err)
		return &IdeaScore{Success: false, Error: err.Error()}
	}

	var out IdeaScore
	if err := jsonutil.Extract(reply, &out); err != nil {
		log.Printf("❌ Score reply not parseable: %v", err)
		return &IdeaScore{Success: false, Error: fmt.Sprintf("unparseable score response: %v", err)}
	}
	out.Success = true
	out.Error = ""
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Improvements == nil {
		out.Improvements = []string{}
	}
	log.Printf("✅ Idea scored %d/100: %s", out.Score, idea.Title)
	return &out
}

const enhancedScoringPrompt = `You are an expert idea evaluator providing transparent, explainable scoring.
Evaluate the business idea and provide detailed per-criterion analysis with confidence levels.

**Idea Details:**
- Title: %s
- Department: %s
- Content: %s

**Evaluation Criteria (each scored 0-25):**

1. **Innovation (0-25 points)**
   - Novelty of the concept
   - Differentiation from existing solutions
   - Creative problem-solving approach

2. **Feasibility (0-25 points)**
   - Technical viability
   - Resource requirements
   - Implementation complexity

3. **Business Impact (0-25 points)**
   - Potential ROI
   - Market opportunity
   - Strategic alignment

4. **Clarity (0-25 points)**
   - Clear problem statement
   - Well-defined solution
   - Measurable outcomes

**IMPORTANT INSTRUCTIONS:**
For EACH criterion, you MUST provide:
1. A score (0-25)
2. Detailed reasoning explaining the score
3. Specific evidence from the idea content
4. Confidence level (0.0-1.0) based on available information

Also identify:
- Potential biases or data quality issues
- Areas where more information is needed
- Overall confidence in evaluation

Respond ONLY with valid JSON matching this structure:
{
    "total_score": <0-100>,
    "criterion_scores": [
        {
            "criterion_name": "Innovation",
            "score": <0-25>,
            "max_score": 25,
            "reasoning": "<detailed explanation>",
            "evidence": ["<quote or reference from idea>"],
            "confidence": <0.0-1.0>
        },
        {
            "criterion_name": "Feasibility",
            "score": <0-25>,
            "max_score": 25,
            "reasoning": "<detailed explanation>",
            "evidence": ["<quote or reference from idea>"],
            "confidence": <0.0-1.0>
        },
        {
            "criterion_name": "Business Impact",
            "score": <0-25>,
            "max_score": 25,
            "reasoning": "<detailed explanation>",
            "evidence": ["<quote or reference from idea>"],
            "confidence": <0.0-1.0>
        },
        {
            "criterion_name": "Clarity",
            "score": <0-25>,
            "max_score": 25,
            "reasoning": "<detailed explanation>",
            "evidence": ["<quote or reference from idea>"],
            "confidence": <0.0-1.0>
        }
    ],
    "overall_confidence": <0.0-1.0>,
    "bias_warnings": [
        {
            "warning_type": "<insufficient_data|domain_bias|recency_bias|etc>",
            "severity": "<low|medium|high>",
            "description": "<detailed description>",
            "mitigation": "<suggested action>"
        }
    ],
    "feedback": "<comprehensive feedback>",
    "strengths": ["<strength1>", "<strength2>"],
    "improvements": ["<improvement1>", "<improvement2>"],
    "data_quality_notes": "<notes about input data quality>"
}`

// ScoreIdeaEnhanced runs the per-criterion evaluation with confidence levels
// and bias warnings.
func (s *ScoreService) ScoreIdeaEnhanced(ctx context.Context, idea *models.Idea) *EnhancedIdeaScore {
	if s.LLM == nil {
		return &EnhancedIdeaScore{Success: false, Error: "AI service not available"}
	}
	log.Printf("🎯 Enhanced scoring for idea: %s", idea.Title)

	content := prepareIdeaContent(idea)
	reply, err := s.LLM.Generate(ctx, fmt.Sprintf(enhancedScoringPrompt, idea.Title, departmentOrDefault(idea), content))
	if err != nil {
		log.Printf("❌ Enhanced scoring failed: %v", err)
		return &EnhancedIdeaScore{Success: false, Error: err.Error()}
	}

	var out EnhancedIdeaScore
	if err := jsonutil.Extract(reply, &out); err != nil {
		log.Printf("❌ Enhanced score reply not parseable: %v", err)
		return &EnhancedIdeaScore{Success: false, Error: fmt.Sprintf("unparseable score response: %v", err)}
	}
	out.Success = true
	out.Error = ""
	if out.CriterionScores == nil {
		out.CriterionScores = []CriterionScore{}
	}
	if out.BiasWarnings == nil {
		out.BiasWarnings = []BiasWarning{}
	}
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Improvements == nil {
		out.Improvements = []string{}
	}
	if out.OverallConfidence == 0 {
		out.OverallConfidence = 0.5
	}
	log.Printf("✅ Enhanced score %d/100 (confidence %.2f): %s", out.TotalScore, out.OverallConfidence, idea.Title)
	return &out
}

// ExplainScore formats an enhanced score for display, with percentages and
// human-readable confidence labels.
func ExplainScore(score *EnhancedIdeaScore) *ScoreExplanation {
	if !score.Success {
		errMsg := score.Error
		if errMsg == "" {
			errMsg = "Unknown error"
		}
		return &ScoreExplanation{Success: false, Error: errMsg}
	}

	explanation := &ScoreExplanation{
		Success:           true,
		TotalScore:        score.TotalScore,
		OverallConfidence: score.OverallConfidence,
		ConfidenceLabel:   ConfidenceLabel(score.OverallConfidence),
		CriteriaBreakdown: []CriterionBreakdown{},
		BiasAlerts:        []BiasAlert{},
		Summary:           score.Feedback,
		Strengths:         score.Strengths,
		Improvements:      score.Improvements,
		DataQuality:       score.DataQualityNotes,
	}

	for _, c := range score.CriterionScores {
		maxScore := c.MaxScore
		if maxScore == 0 {
			maxScore = 25
		}
		explanation.CriteriaBreakdown = append(explanation.CriteriaBreakdown, CriterionBreakdown{
			Name:            c.CriterionName,
			Score:           c.Score,
			MaxScore:        maxScore,
			Percentage:      math.Round(float64(c.Score)/float64(maxScore)*1000) / 10,
			Reasoning:       c.Reasoning,
			Evidence:        c.Evidence,
			Confidence:      c.Confidence,
			ConfidenceLabel: ConfidenceLabel(c.Confidence),
		})
	}

	for _, w := range score.BiasWarnings {
		explanation.BiasAlerts = append(explanation.BiasAlerts, BiasAlert{
			Type:        w.WarningType,
			Severity:    w.Severity,
			Description: w.Description,
			Mitigation:  w.Mitigation,
		})
	}
	return explanation
}

// ConfidenceLabel converts a 0.0-1.0 confidence into a display label.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "High Confidence"
	case confidence >= 0.6:
		return "Moderate Confidence"
	case confidence >= 0.4:
		return "Low Confidence"
	default:
		return "Very Low Confidence"
	}
}

const maxResearchChars = 2000

// prepareIdeaContent flattens the idea and its attached research into the
// scoring context. Research sections are truncated so one oversized document
// cannot crowd out the idea itself.
func prepareIdeaContent(idea *models.Idea) string {
	var parts []string

	if idea.OriginalIdea != "" {
		parts = append(parts, "Original Idea: "+idea.OriginalIdea)
	}
	if idea.RephrasedIdea != "" {
		parts = append(parts, "Rephrased: "+idea.RephrasedIdea)
	}

	if idea.ResearchData != "" {
		var research map[string]json.RawMessage
		if err := json.Unmarshal([]byte(idea.ResearchData), &research); err == nil {
			for _, key := range []string{"company_research", "idea_research", "resource_estimation"} {
				if raw, ok := research[key]; ok && len(raw) > 0 {
					parts = append(parts, fmt.Sprintf("%s: %s", researchLabel(key), capLen(string(raw), maxResearchChars)))
				}
			}
		} else {
			parts = append(parts, "Research: "+capLen(idea.ResearchData, maxResearchChars))
		}
	}

	if idea.Drafts != "" {
		var drafts map[string]string
		if err := json.Unmarshal([]byte(idea.Drafts), &drafts); err == nil {
			for section, draft := range drafts {
				if draft != "" {
					parts = append(parts, fmt.Sprintf("%s: %s", section, capLen(draft, maxResearchChars)))
				}
			}
		}
	}

	if len(parts) == 0 {
		return "No content provided"
	}
	return strings.Join(parts, "\n")
}

func researchLabel(key string) string {
	switch key {
	case "company_research":
		return "Company Context"
	case "idea_research":
		return "Market Research"
	case "resource_estimation":
		return "Resource Estimation"
	}
	return key
}

// capLen truncates s to at most n bytes, backing up so a multi-byte rune is
// never split.
func capLen(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func departmentOrDefault(idea *models.Idea) string {
	if idea.Department == "" {
		return "General"
	}
	return idea.Department
}
