package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/augentlabs/innovation-hub/internal/auth"
	"github.com/augentlabs/innovation-hub/internal/dtos"
	"github.com/gin-gonic/gin"
)

// AuthHandler owns the demo login routes.
type AuthHandler struct {
	Auth *auth.AuthService
}

func NewAuthHandler(a *auth.AuthService) *AuthHandler {
	return &AuthHandler{Auth: a}
}

// Login is the POST /auth/login endpoint.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	token, user, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"token": token,
		"user":  user,
	}})
}

// Logout is the POST /auth/logout endpoint.
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.Auth.Logout(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
