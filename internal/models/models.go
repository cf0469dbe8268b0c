package models

import (
	"time"

	"gorm.io/gorm"
)

// Idea workflow statuses
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusImplemented = "implemented"
	StatusCompleted   = "completed"
	StatusInProgress  = "in_progress"
)

// ValidStatuses lists every status an idea can carry.
var ValidStatuses = []string{
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
	StatusImplemented,
	StatusCompleted,
	StatusInProgress,
}

// IsValidStatus reports whether s is one of the known workflow statuses.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Idea is one submitted business idea plus everything the pipelines attach
// to it. Nested payloads (research results, drafts, score breakdowns) are
// stored as JSON text columns.
type Idea struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SessionID string `gorm:"uniqueIndex;not null" json:"session_id"`

	Title         string `gorm:"not null" json:"title"`
	OriginalIdea  string `gorm:"type:text" json:"original_idea"`
	RephrasedIdea string `gorm:"type:text" json:"rephrased_idea"`
	CompanyName   string `json:"company_name"`

	// Submitter context
	SubmittedBy string `gorm:"default:'User'" json:"submitted_by"`
	Department  string `gorm:"default:'General'" json:"department"`
	Role        string `json:"role"`
	Location    string `json:"location"`
	Language    string `gorm:"default:'en'" json:"language"`

	Status string `gorm:"default:'submitted'" json:"status"`

	// AI scoring results
	AIScore        *int   `json:"ai_score"`
	AIFeedback     string `gorm:"type:text" json:"ai_feedback"`
	AIStrengths    string `gorm:"type:text" json:"ai_strengths"`    // JSON array
	AIImprovements string `gorm:"type:text" json:"ai_improvements"` // JSON array
	ScoreDetail    string `gorm:"type:text" json:"score_detail"`    // enhanced breakdown JSON

	// Reviewer results
	EvaluationScore  *int   `json:"evaluation_score"`
	ReviewerFeedback string `gorm:"type:text" json:"reviewer_feedback"`

	// Research pipeline output (workflow result JSON)
	ResearchData string `gorm:"type:text" json:"research_data"`

	// Section drafts keyed by section heading (JSON object)
	Drafts string `gorm:"type:text" json:"drafts"`

	Reviews []Review `json:"reviews,omitempty"`
}

// Review is a single reviewer decision on an idea.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	IdeaID   uint   `json:"idea_id"`
	Reviewer string `json:"reviewer"`
	Decision string `json:"decision"` // approved, rejected, under_review
	Score    int    `json:"score"`
	Feedback string `gorm:"type:text" json:"feedback"`
}

// WorkflowRun records one pass of the research pipeline for an idea, so a
// run can be inspected later without re-calling the APIs.
type WorkflowRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionID   string `gorm:"index" json:"session_id"`
	CompanyName string `json:"company_name"`
	IdeaTitle   string `json:"idea_title"`
	CurrentStep string `json:"current_step"`
	Success     bool   `json:"success"`
	Errors      string `gorm:"type:text" json:"errors"`  // JSON array
	Payload     string `gorm:"type:text" json:"payload"` // full WorkflowResult JSON
}

// CompanyResearchCache holds the latest research payload per company.
// Entries older than the cache TTL are re-fetched.
type CompanyResearchCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CompanyName string `gorm:"uniqueIndex;not null" json:"company_name"`
	Payload     string `gorm:"type:text" json:"payload"`
}

// SessionToken is a bearer token handed out by the demo login.
type SessionToken struct {
	Token     string    `gorm:"primaryKey" json:"token"`
	CreatedAt time.Time `json:"created_at"`

	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	ExpiresAt  time.Time `json:"expires_at"`
}
