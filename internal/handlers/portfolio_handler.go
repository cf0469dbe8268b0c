package handlers

import (
	"net/http"
	"strconv"

	"github.com/augentlabs/innovation-hub/internal/services"
	"github.com/gin-gonic/gin"
)

// PortfolioHandler serves the portfolio analytics dashboard payload.
type PortfolioHandler struct {
	Ideas     *services.IdeaService
	Portfolio *services.PortfolioService
}

func NewPortfolioHandler(ideas *services.IdeaService, portfolio *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{Ideas: ideas, Portfolio: portfolio}
}

// Analyze is the GET /portfolio endpoint.
func (h *PortfolioHandler) Analyze(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))
	ideas, err := h.Ideas.GetAllIdeas(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load ideas: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": h.Portfolio.Analyze(ideas)})
}
