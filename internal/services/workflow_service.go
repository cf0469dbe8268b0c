package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/augentlabs/innovation-hub/internal/models"
	"gorm.io/gorm"
)

// Workflow step names, in execution order.
const (
	StepCompanyResearch    = "company_research"
	StepIdeaResearch       = "idea_research"
	StepResourceEstimation = "resource_estimation"
	StepQuestionGeneration = "question_generation"
	StepCompleted          = "completed"
)

// WorkflowResult is the combined output of one research pipeline run.
type WorkflowResult struct {
	Success              bool              `json:"success"`
	CompanyName          string            `json:"company_name"`
	IdeaTitle            string            `json:"idea_title"`
	CompanyResearch      *CompanyResearch  `json:"company_research"`
	IdeaResearch         *IdeaResearch     `json:"idea_research"`
	ResourceEstimation   *ResourceEstimate `json:"resource_estimation"`
	DevelopmentQuestions []DevQuestion     `json:"development_questions"`
	Errors               []string          `json:"errors"`
	CurrentStep          string            `json:"current_step"`
}

// WorkflowService runs the four research steps in order and persists each
// run. A step failure stops the pipeline; later steps are never attempted
// with missing inputs.
type WorkflowService struct {
	DB        *gorm.DB
	Company   *CompanyService
	Idea      *IdeaResearchService
	Resources *ResourceService
	Questions *QuestionService
}

func NewWorkflowService(db *gorm.DB, company *CompanyService, idea *IdeaResearchService, resources *ResourceService, questions *QuestionService) *WorkflowService {
	return &WorkflowService{
		DB:        db,
		Company:   company,
		Idea:      idea,
		Resources: resources,
		Questions: questions,
	}
}

// Run executes company research, idea research, resource estimation and
// question generation for an idea, stopping at the first failed step.
func (s *WorkflowService) Run(ctx context.Context, sessionID, companyName, ideaTitle, ideaDescription string) *WorkflowResult {
	log.Printf("🚀 Starting workflow for: %s (Company: %s)", ideaTitle, companyName)
	started := time.Now()

	result := &WorkflowResult{
		Success:              true,
		CompanyName:          companyName,
		IdeaTitle:            ideaTitle,
		DevelopmentQuestions: []DevQuestion{},
		Errors:               []string{},
		CurrentStep:          StepCompleted,
	}

	result.CurrentStep = StepCompanyResearch
	company := s.Company.ResearchCompany(ctx, companyName)
	if !company.Success {
		return s.fail(sessionID, result, fmt.Sprintf("Company Research Failed: %s", firstNonEmpty(company.Answer, "Failed to research company.")))
	}
	result.CompanyResearch = company

	result.CurrentStep = StepIdeaResearch
	ideaResearch := s.Idea.ResearchIdeaMarket(ctx, ideaTitle, ideaDescription)
	if !ideaResearch.Success {
		return s.fail(sessionID, result, fmt.Sprintf("Idea Research Failed: %s", firstNonEmpty(ideaResearch.Answer, "Failed to research idea.")))
	}
	result.IdeaResearch = ideaResearch

	result.CurrentStep = StepResourceEstimation
	estimate := s.Resources.EstimateResources(ctx, companyName, ideaTitle, ideaDescription, company, ideaResearch)
	if !estimate.Success {
		return s.fail(sessionID, result, fmt.Sprintf("Resource Estimation Failed: %s", firstNonEmpty(estimate.Error, "Failed to estimate resources.")))
	}
	result.ResourceEstimation = estimate

	result.CurrentStep = StepQuestionGeneration
	questions := s.Questions.GenerateQuestions(ctx, company, ideaResearch, ideaTitle, ideaDescription)
	if len(questions) == 0 {
		return s.fail(sessionID, result, "Failed to generate development questions")
	}
	result.DevelopmentQuestions = questions

	result.CurrentStep = StepCompleted
	s.saveRun(sessionID, result)
	log.Printf("✅ Workflow completed for %s in %s", ideaTitle, time.Since(started).Round(time.Second))
	return result
}

func (s *WorkflowService) fail(sessionID string, result *WorkflowResult, msg string) *WorkflowResult {
	log.Printf("❌ Workflow stopped at %s: %s", result.CurrentStep, msg)
	result.Success = false
	result.Errors = append(result.Errors, msg)
	s.saveRun(sessionID, result)
	return result
}

// saveRun persists the run so it can be inspected later without re-calling
// the research APIs.
func (s *WorkflowService) saveRun(sessionID string, result *WorkflowResult) {
	if s.DB == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		log.Printf("⚠️ Failed to serialize workflow run: %v", err)
		return
	}
	errorsJSON, _ := json.Marshal(result.Errors)

	run := models.WorkflowRun{
		SessionID:   sessionID,
		CompanyName: result.CompanyName,
		IdeaTitle:   result.IdeaTitle,
		CurrentStep: result.CurrentStep,
		Success:     result.Success,
		Errors:      string(errorsJSON),
		Payload:     string(payload),
	}
	if err := s.DB.Create(&run).Error; err != nil {
		log.Printf("⚠️ Failed to save workflow run: %v", err)
		return
	}
	log.Printf("💾 Workflow run %d saved for session %s", run.ID, sessionID)
}

// LatestRun loads the most recent persisted run for a session.
func (s *WorkflowService) LatestRun(sessionID string) (*WorkflowResult, error) {
	var run models.WorkflowRun
	err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	var result WorkflowResult
	if err := json.Unmarshal([]byte(run.Payload), &result); err != nil {
		return nil, fmt.Errorf("corrupt workflow payload for run %d: %w", run.ID, err)
	}
	return &result, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
