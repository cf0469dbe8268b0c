package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/augentlabs/innovation-hub/internal/models"
	"gorm.io/gorm"
)

// IdeaService is the persistence layer for ideas and reviews.
type IdeaService struct {
	DB *gorm.DB
}

func NewIdeaService(db *gorm.DB) *IdeaService {
	return &IdeaService{DB: db}
}

// SaveIdea inserts a new idea.
func (s *IdeaService) SaveIdea(idea *models.Idea) error {
	if idea.Status == "" {
		idea.Status = models.StatusSubmitted
	}
	if err := s.DB.Create(idea).Error; err != nil {
		log.Printf("❌ Failed to save idea %q: %v", idea.Title, err)
		return err
	}
	log.Printf("💾 Idea saved with ID %d (session %s)", idea.ID, idea.SessionID)
	return nil
}

// SaveOrUpdateIdea inserts the idea, or updates the existing row with the
// same session ID.
func (s *IdeaService) SaveOrUpdateIdea(sessionID string, idea *models.Idea) error {
	existing, err := s.GetIdeaBySession(sessionID)
	if err != nil {
		return err
	}
	if existing == nil {
		idea.SessionID = sessionID
		return s.SaveIdea(idea)
	}

	idea.ID = existing.ID
	idea.SessionID = sessionID
	idea.CreatedAt = existing.CreatedAt
	if err := s.DB.Save(idea).Error; err != nil {
		log.Printf("❌ Failed to update idea for session %s: %v", sessionID, err)
		return err
	}
	log.Printf("💾 Idea updated for session %s", sessionID)
	return nil
}

// UpdateIdea applies a partial update to the idea with the given session ID.
func (s *IdeaService) UpdateIdea(sessionID string, updates map[string]any) error {
	result := s.DB.Model(&models.Idea{}).
		Where("session_id = ?", sessionID).
		Updates(updates)
	if result.Error != nil {
		log.Printf("❌ Failed to update idea %s: %v", sessionID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("idea not found for session %s", sessionID)
	}
	return nil
}

// GetIdeaBySession returns the idea with this session ID, or nil when absent.
func (s *IdeaService) GetIdeaBySession(sessionID string) (*models.Idea, error) {
	var idea models.Idea
	err := s.DB.Preload("Reviews").Where("session_id = ?", sessionID).First(&idea).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("❌ Failed to load idea %s: %v", sessionID, err)
		return nil, err
	}
	return &idea, nil
}

// GetAllIdeas returns the newest ideas first, capped at limit.
func (s *IdeaService) GetAllIdeas(limit int) ([]models.Idea, error) {
	if limit <= 0 {
		limit = 50
	}
	var ideas []models.Idea
	err := s.DB.Preload("Reviews").
		Order("created_at DESC").
		Limit(limit).
		Find(&ideas).Error
	if err != nil {
		log.Printf("❌ Failed to list ideas: %v", err)
		return nil, err
	}
	return ideas, nil
}

// GetIdeasByStatus returns the newest ideas carrying this status.
func (s *IdeaService) GetIdeasByStatus(status string, limit int) ([]models.Idea, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if limit <= 0 {
		limit = 50
	}
	var ideas []models.Idea
	err := s.DB.Preload("Reviews").
		Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Find(&ideas).Error
	if err != nil {
		log.Printf("❌ Failed to list ideas by status %s: %v", status, err)
		return nil, err
	}
	return ideas, nil
}

// MarkCompleted stores the final section drafts and flips the idea to
// completed.
func (s *IdeaService) MarkCompleted(sessionID string, drafts map[string]string) error {
	payload, err := json.Marshal(drafts)
	if err != nil {
		return err
	}
	return s.UpdateIdea(sessionID, map[string]any{
		"drafts": string(payload),
		"status": models.StatusCompleted,
	})
}

// ApplyScore stores a basic AI score on the idea.
func (s *IdeaService) ApplyScore(sessionID string, score *IdeaScore) error {
	strengths, _ := json.Marshal(score.Strengths)
	improvements, _ := json.Marshal(score.Improvements)
	return s.UpdateIdea(sessionID, map[string]any{
		"ai_score":        score.Score,
		"ai_feedback":     score.Feedback,
		"ai_strengths":    string(strengths),
		"ai_improvements": string(improvements),
	})
}

// ApplyEnhancedScore stores the per-criterion breakdown alongside the basic
// score fields.
func (s *IdeaService) ApplyEnhancedScore(sessionID string, score *EnhancedIdeaScore) error {
	strengths, _ := json.Marshal(score.Strengths)
	improvements, _ := json.Marshal(score.Improvements)
	detail, err := json.Marshal(score)
	if err != nil {
		return err
	}
	return s.UpdateIdea(sessionID, map[string]any{
		"ai_score":        score.TotalScore,
		"ai_feedback":     score.Feedback,
		"ai_strengths":    string(strengths),
		"ai_improvements": string(improvements),
		"score_detail":    string(detail),
	})
}

// SubmitReview records a reviewer decision and moves the idea to the matching
// status.
func (s *IdeaService) SubmitReview(sessionID, reviewer, decision string, score int, feedback string) error {
	var status string
	switch decision {
	case "approved":
		status = models.StatusApproved
	case "rejected":
		status = models.StatusRejected
	case "under_review":
		status = models.StatusUnderReview
	default:
		return fmt.Errorf("unknown review decision %q", decision)
	}

	idea, err := s.GetIdeaBySession(sessionID)
	if err != nil {
		return err
	}
	if idea == nil {
		return fmt.Errorf("idea not found for session %s", sessionID)
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		review := models.Review{
			IdeaID:   idea.ID,
			Reviewer: reviewer,
			Decision: decision,
			Score:    score,
			Feedback: feedback,
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		updates := map[string]any{
			"status":            status,
			"evaluation_score":  score,
			"reviewer_feedback": feedback,
		}
		if err := tx.Model(&models.Idea{}).Where("id = ?", idea.ID).Updates(updates).Error; err != nil {
			return err
		}
		log.Printf("📝 Review recorded for session %s: %s by %s", sessionID, decision, reviewer)
		return nil
	})
}

// ReviewQueue lists ideas waiting on a reviewer decision, oldest first so the
// queue drains in submission order.
func (s *IdeaService) ReviewQueue(limit int) ([]models.Idea, error) {
	if limit <= 0 {
		limit = 50
	}
	var ideas []models.Idea
	err := s.DB.Preload("Reviews").
		Where("status IN ?", []string{models.StatusSubmitted, models.StatusUnderReview}).
		Order("created_at ASC").
		Limit(limit).
		Find(&ideas).Error
	if err != nil {
		log.Printf("❌ Failed to load review queue: %v", err)
		return nil, err
	}
	return ideas, nil
}

// IdeasMissingScore returns submitted ideas that have no AI score yet.
func (s *IdeaService) IdeasMissingScore(limit int) ([]models.Idea, error) {
	if limit <= 0 {
		limit = 20
	}
	var ideas []models.Idea
	err := s.DB.
		Where("ai_score IS NULL").
		Where("status IN ?", []string{models.StatusSubmitted, models.StatusUnderReview, models.StatusCompleted}).
		Order("created_at ASC").
		Limit(limit).
		Find(&ideas).Error
	if err != nil {
		return nil, err
	}
	return ideas, nil
}
