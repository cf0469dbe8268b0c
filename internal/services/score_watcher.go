package services

import (
	"context"
	"log"
	"time"
)

// ScoreWatcher is the background loop that scores submitted ideas which have
// no AI score yet, so submissions never sit unscored when the portal is idle.
type ScoreWatcher struct {
	Ideas    *IdeaService
	Scorer   *ScoreService
	Interval time.Duration
}

func NewScoreWatcher(ideas *IdeaService, scorer *ScoreService, interval time.Duration) *ScoreWatcher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ScoreWatcher{Ideas: ideas, Scorer: scorer, Interval: interval}
}

// StartWatcher starts the background polling
func (w *ScoreWatcher) StartWatcher() {
	if w.Scorer == nil || w.Scorer.LLM == nil {
		log.Println("⚠️ Score Watcher disabled (no LLM client). Check credentials.")
		return
	}

	ticker := time.NewTicker(w.Interval)

	// Run immediately on startup
	go w.ScorePending()

	go func() {
		for range ticker.C {
			w.ScorePending()
		}
	}()
}

// ScorePending runs one scoring cycle over unscored ideas.
func (w *ScoreWatcher) ScorePending() {
	// Timeout context so a stuck LLM call cannot wedge the loop.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("🎯 Score Watcher: Starting scoring cycle...")

	ideas, err := w.Ideas.IdeasMissingScore(20)
	if err != nil {
		log.Printf("❌ Score Watcher: failed to load pending ideas: %v", err)
		return
	}
	if len(ideas) == 0 {
		log.Println("✅ Score Watcher: nothing to score.")
		return
	}

	scored := 0
	for i := range ideas {
		idea := &ideas[i]
		if ctx.Err() != nil {
			log.Println("⚠️ Score Watcher: cycle timed out, stopping early.")
			break
		}

		score := w.Scorer.ScoreIdea(ctx, idea)
		if !score.Success {
			log.Printf("⚠️ Score Watcher: skipping %q: %s", idea.Title, score.Error)
			continue
		}
		if err := w.Ideas.ApplyScore(idea.SessionID, score); err != nil {
			log.Printf("⚠️ Score Watcher: failed to store score for %q: %v", idea.Title, err)
			continue
		}
		scored++
	}
	log.Printf("✅ Score Watcher: cycle done, scored %d of %d ideas.", scored, len(ideas))
}
