package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/augentlabs/innovation-hub/internal/auth"
	"github.com/augentlabs/innovation-hub/internal/dtos"
	"github.com/augentlabs/innovation-hub/internal/models"
	"github.com/augentlabs/innovation-hub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdeaHandler owns the idea intake, scoring, research and document routes.
type IdeaHandler struct {
	Ideas     *services.IdeaService
	Scorer    *services.ScoreService
	Workflow  *services.WorkflowService
	Documents *services.DocumentService
}

func NewIdeaHandler(ideas *services.IdeaService, scorer *services.ScoreService, workflow *services.WorkflowService, documents *services.DocumentService) *IdeaHandler {
	return &IdeaHandler{
		Ideas:     ideas,
		Scorer:    scorer,
		Workflow:  workflow,
		Documents: documents,
	}
}

// SubmitIdea is the POST /ideas endpoint.
func (h *IdeaHandler) SubmitIdea(c *gin.Context) {
	var req dtos.IdeaSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	idea := models.Idea{
		SessionID:     uuid.NewString(),
		Title:         req.Title,
		OriginalIdea:  req.OriginalIdea,
		RephrasedIdea: req.RephrasedIdea,
		CompanyName:   req.CompanyName,
		SubmittedBy:   req.SubmittedBy,
		Department:    req.Department,
		Role:          req.Role,
		Location:      req.Location,
		Language:      req.Language,
		Status:        models.StatusSubmitted,
	}

	// Prefer the authenticated identity over free-text fields.
	if user := auth.CurrentUser(c); user != nil {
		idea.SubmittedBy = user.Name
		if idea.Department == "" {
			idea.Department = user.Department
		}
		if idea.Role == "" {
			idea.Role = user.Role
		}
	}

	if err := h.Ideas.SaveIdea(&idea); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save idea: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": idea})
}

// ListIdeas is the GET /ideas endpoint. Supports ?status= and ?limit=.
func (h *IdeaHandler) ListIdeas(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var (
		ideas []models.Idea
		err   error
	)
	if status := c.Query("status"); status != "" {
		ideas, err = h.Ideas.GetIdeasByStatus(status, limit)
	} else {
		ideas, err = h.Ideas.GetAllIdeas(limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ideas: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(ideas), "data": ideas})
}

// GetIdea is the GET /ideas/:session endpoint.
func (h *IdeaHandler) GetIdea(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": idea})
}

// UpdateIdea is the PUT /ideas/:session endpoint. Upsert semantics: an
// unknown session creates a fresh draft under that ID, an existing one is
// updated in place.
func (h *IdeaHandler) UpdateIdea(c *gin.Context) {
	sessionID := c.Param("session")

	var req dtos.IdeaUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if req.Status != "" && !models.IsValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + req.Status})
		return
	}

	existing, err := h.Ideas.GetIdeaBySession(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea: " + err.Error()})
		return
	}

	idea := models.Idea{}
	if existing != nil {
		idea = *existing
		idea.Reviews = nil
	} else if req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required to create a new idea"})
		return
	}

	if req.Title != "" {
		idea.Title = req.Title
	}
	if req.OriginalIdea != "" {
		idea.OriginalIdea = req.OriginalIdea
	}
	if req.RephrasedIdea != "" {
		idea.RephrasedIdea = req.RephrasedIdea
	}
	if req.CompanyName != "" {
		idea.CompanyName = req.CompanyName
	}
	if req.Status != "" {
		idea.Status = req.Status
	}
	if req.Drafts != nil {
		payload, err := json.Marshal(req.Drafts)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid drafts payload"})
			return
		}
		idea.Drafts = string(payload)
	}
	if user := auth.CurrentUser(c); user != nil && existing == nil {
		idea.SubmittedBy = user.Name
		if idea.Department == "" {
			idea.Department = user.Department
		}
	}

	if err := h.Ideas.SaveOrUpdateIdea(sessionID, &idea); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save idea: " + err.Error()})
		return
	}

	status := http.StatusOK
	if existing == nil {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"success": true, "data": idea})
}

// CompleteIdea is the POST /ideas/:session/complete endpoint.
func (h *IdeaHandler) CompleteIdea(c *gin.Context) {
	var req dtos.CompleteIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if err := h.Ideas.MarkCompleted(c.Param("session"), req.Drafts); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete idea: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ScoreIdea is the POST /ideas/:session/score endpoint.
func (h *IdeaHandler) ScoreIdea(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}

	score := h.Scorer.ScoreIdea(c.Request.Context(), idea)
	if !score.Success {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Scoring failed: " + score.Error})
		return
	}
	if err := h.Ideas.ApplyScore(idea.SessionID, score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store score: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": score})
}

// ScoreIdeaEnhanced is the POST /ideas/:session/score/enhanced endpoint.
func (h *IdeaHandler) ScoreIdeaEnhanced(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}

	score := h.Scorer.ScoreIdeaEnhanced(c.Request.Context(), idea)
	if !score.Success {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Enhanced scoring failed: " + score.Error})
		return
	}
	if err := h.Ideas.ApplyEnhancedScore(idea.SessionID, score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store score: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": score})
}

// ExplainScore is the GET /ideas/:session/score/explanation endpoint. Serves
// the stored enhanced breakdown formatted for display.
func (h *IdeaHandler) ExplainScore(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}
	if idea.ScoreDetail == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No enhanced score recorded for this idea"})
		return
	}

	var score services.EnhancedIdeaScore
	if err := json.Unmarshal([]byte(idea.ScoreDetail), &score); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stored score breakdown is corrupt"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": services.ExplainScore(&score)})
}

// RunResearch is the POST /ideas/:session/research endpoint. Runs the full
// pipeline synchronously and stores the result on the idea.
func (h *IdeaHandler) RunResearch(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}

	var req dtos.ResearchRequest
	_ = c.ShouldBindJSON(&req)
	description := req.IdeaDescription
	if description == "" {
		description = idea.OriginalIdea
	}

	result := h.Workflow.Run(c.Request.Context(), idea.SessionID, idea.CompanyName, idea.Title, description)

	if result.Success {
		payload, err := json.Marshal(result)
		if err == nil {
			if err := h.Ideas.UpdateIdea(idea.SessionID, map[string]any{
				"research_data": string(payload),
				"status":        models.StatusInProgress,
			}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store research: " + err.Error()})
				return
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "data": result})
}

// GetResearch is the GET /ideas/:session/research endpoint. Serves the latest
// persisted workflow run.
func (h *IdeaHandler) GetResearch(c *gin.Context) {
	result, err := h.Workflow.LatestRun(c.Param("session"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No research run found for this idea"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GenerateDocument is the POST /ideas/:session/document endpoint. Renders the
// proposal Markdown from the stored research plus submitted answers.
func (h *IdeaHandler) GenerateDocument(c *gin.Context) {
	idea, ok := h.loadIdea(c)
	if !ok {
		return
	}

	var req dtos.DocumentRequest
	_ = c.ShouldBindJSON(&req)

	input := &services.DocumentInput{
		IdeaTitle:       idea.Title,
		CompanyName:     idea.CompanyName,
		IdeaDescription: idea.OriginalIdea,
		Answers:         req.Answers,
	}
	if idea.ResearchData != "" {
		var research services.WorkflowResult
		if err := json.Unmarshal([]byte(idea.ResearchData), &research); err == nil {
			input.CompanyResearch = research.CompanyResearch
			input.IdeaResearch = research.IdeaResearch
			input.ResourceEstimation = research.ResourceEstimation
			input.Questions = research.DevelopmentQuestions
		}
	}

	document := h.Documents.GenerateProposal(c.Request.Context(), input)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"format":   "markdown",
		"document": document,
	}})
}

func (h *IdeaHandler) loadIdea(c *gin.Context) (*models.Idea, bool) {
	idea, err := h.Ideas.GetIdeaBySession(c.Param("session"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load idea: " + err.Error()})
		return nil, false
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return nil, false
	}
	return idea, true
}
