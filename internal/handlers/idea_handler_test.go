package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/augentlabs/innovation-hub/internal/models"
	"github.com/augentlabs/innovation-hub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newIdeaTestRouter(t *testing.T) (*gin.Engine, *services.IdeaService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// One shared in-memory DB per test; cache=shared keeps every pooled
	// connection pointed at the same database.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Idea{}, &models.Review{}))

	ideas := services.NewIdeaService(db)
	h := NewIdeaHandler(ideas, nil, nil, nil)

	r := gin.New()
	r.PUT("/api/v1/ideas/:session", h.UpdateIdea)
	r.GET("/api/v1/ideas/:session", h.GetIdea)
	return r, ideas
}

func putJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateIdeaCreatesDraftForNewSession(t *testing.T) {
	r, ideas := newIdeaTestRouter(t)

	w := putJSON(r, "/api/v1/ideas/fresh-session", `{"title":"New draft","original_idea":"draft text"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Success bool        `json:"success"`
		Data    models.Idea `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "fresh-session", body.Data.SessionID)
	assert.Equal(t, "New draft", body.Data.Title)

	stored, err := ideas.GetIdeaBySession("fresh-session")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "draft text", stored.OriginalIdea)
	assert.Equal(t, models.StatusSubmitted, stored.Status)
}

func TestUpdateIdeaUpdatesExistingSession(t *testing.T) {
	r, ideas := newIdeaTestRouter(t)

	seed := models.Idea{
		SessionID:    "known-session",
		Title:        "Original title",
		OriginalIdea: "first cut",
		CompanyName:  "Acme",
	}
	require.NoError(t, ideas.SaveIdea(&seed))

	w := putJSON(r, "/api/v1/ideas/known-session",
		`{"rephrased_idea":"sharper pitch","drafts":{"Executive Summary":"summary body"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := ideas.GetIdeaBySession("known-session")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, seed.ID, stored.ID)
	assert.Equal(t, "Original title", stored.Title)
	assert.Equal(t, "Acme", stored.CompanyName)
	assert.Equal(t, "sharper pitch", stored.RephrasedIdea)

	var drafts map[string]string
	require.NoError(t, json.Unmarshal([]byte(stored.Drafts), &drafts))
	assert.Equal(t, "summary body", drafts["Executive Summary"])
}

func TestUpdateIdeaRequiresTitleForNewSession(t *testing.T) {
	r, _ := newIdeaTestRouter(t)

	w := putJSON(r, "/api/v1/ideas/empty-session", `{"original_idea":"no title yet"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Title is required")
}

func TestUpdateIdeaRejectsUnknownStatus(t *testing.T) {
	r, _ := newIdeaTestRouter(t)

	w := putJSON(r, "/api/v1/ideas/any-session", `{"title":"x","status":"launched"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Unknown status")
}
