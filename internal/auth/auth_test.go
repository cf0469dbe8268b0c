package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIsReviewer(t *testing.T) {
	assert.False(t, IsReviewer(&User{Role: "Employee"}))
	assert.True(t, IsReviewer(&User{Role: "Manager"}))
	assert.True(t, IsReviewer(&User{Role: "Director"}))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService(nil)

	_, _, err := svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("user@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewAuthService(nil)

	r := gin.New()
	r.GET("/x", svc.RequireAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Basic abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireReviewerBlocksEmployees(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set(userContextKey, &User{Role: "Employee"})
	}, RequireReviewer(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/y", func(c *gin.Context) {
		c.Set(userContextKey, &User{Role: "Director"})
	}, RequireReviewer(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/y", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentUserMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}
