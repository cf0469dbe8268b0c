package handlers

import (
	"net/http"
	"strconv"

	"github.com/augentlabs/innovation-hub/internal/auth"
	"github.com/augentlabs/innovation-hub/internal/dtos"
	"github.com/augentlabs/innovation-hub/internal/services"
	"github.com/gin-gonic/gin"
)

// ReviewHandler owns the reviewer dashboard routes.
type ReviewHandler struct {
	Ideas *services.IdeaService
}

func NewReviewHandler(ideas *services.IdeaService) *ReviewHandler {
	return &ReviewHandler{Ideas: ideas}
}

// Queue is the GET /reviews/queue endpoint: ideas awaiting a decision,
// oldest first, with queue-level stats for the dashboard header.
func (h *ReviewHandler) Queue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ideas, err := h.Ideas.ReviewQueue(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review queue: " + err.Error()})
		return
	}

	byStatus := map[string]int{}
	scoreSum, scored := 0, 0
	for i := range ideas {
		byStatus[ideas[i].Status]++
		if ideas[i].AIScore != nil {
			scoreSum += *ideas[i].AIScore
			scored++
		}
	}
	var avgScore float64
	if scored > 0 {
		avgScore = float64(scoreSum) / float64(scored)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(ideas), "data": ideas, "stats": gin.H{
		"by_status":    byStatus,
		"avg_ai_score": avgScore,
		"unscored":     len(ideas) - scored,
	}})
}

// SubmitReview is the POST /ideas/:session/review endpoint.
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req dtos.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	reviewer := "Reviewer"
	if user := auth.CurrentUser(c); user != nil {
		reviewer = user.Name
	}

	err := h.Ideas.SubmitReview(c.Param("session"), reviewer, req.Decision, req.Score, req.Feedback)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
