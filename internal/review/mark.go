package review

import (
	"context"

	"github.com/example/reviewbot/pkg/models"
)

// ReviewResult describes what one MarkReviewed call changed.
type ReviewResult struct {
	// Matched is false when no incomplete material matched; the streak was
	// still updated in that case.
	Matched   bool
	Material  models.Material
	Completed bool
	// NewAchievements lists badges first earned by this call.
	NewAchievements []string
	Streak          int
}

// MarkReviewed records a review today for the first incomplete material whose
// text equals text. The streak is updated whether or not anything matched.
func (e *Engine) MarkReviewed(ctx context.Context, userID, text string) (ReviewResult, error) {
	return e.markReviewed(ctx, userID, func(m models.Material) bool {
		return m.Text == text
	})
}

// MarkReviewedByID is MarkReviewed matching on the material identifier.
func (e *Engine) MarkReviewedByID(ctx context.Context, userID, materialID string) (ReviewResult, error) {
	return e.markReviewed(ctx, userID, func(m models.Material) bool {
		return m.ID == materialID
	})
}

func (e *Engine) markReviewed(ctx context.Context, userID string, match func(models.Material) bool) (ReviewResult, error) {
	var res ReviewResult
	err := e.update(ctx, userID, func(st *models.UserState) error {
		today := e.Today()
		res = e.applyReview(st, today, match)
		return nil
	})
	if err != nil {
		return ReviewResult{}, err
	}

	if res.Matched {
		e.log.Info("material reviewed",
			"user_id", userID,
			"material_id", res.Material.ID,
			"step", res.Material.CurrentStep,
			"completed", res.Completed,
			"streak", res.Streak)
	} else {
		e.log.Debug("review recorded without a matching material", "user_id", userID, "streak", res.Streak)
	}
	if len(res.NewAchievements) > 0 {
		e.log.Info("achievements earned", "user_id", userID, "badges", res.NewAchievements)
	}
	return res, nil
}

func (e *Engine) applyReview(st *models.UserState, today models.Date, match func(models.Material) bool) ReviewResult {
	st.Stats.Streak = nextStreak(st.Stats, today)
	st.Stats.LastReviewDate = today.Ptr()
	res := ReviewResult{Streak: st.Stats.Streak}

	for i := range st.Materials {
		m := &st.Materials[i]
		if m.Completed || !match(*m) {
			continue
		}
		m.CurrentStep++
		m.LastReviewedDate = today.Ptr()
		if m.CurrentStep >= len(m.ReviewSchedule) {
			m.Completed = true
			st.Stats.CompletedCount++
			st.Stats.InProgressCount--
			res.Completed = true
			res.NewAchievements = e.awardAchievements(&st.Stats)
		}
		res.Matched = true
		res.Material = m.Clone()
		break
	}
	return res
}

// nextStreak returns the streak after a review today. A review on the day
// after the last one extends the streak, a review on the same day leaves it
// alone, and any other gap starts over at 1.
func nextStreak(stats models.Stats, today models.Date) int {
	if stats.LastReviewDate == nil {
		return 1
	}
	last := *stats.LastReviewDate
	switch {
	case last.Equal(today.AddDays(-1)):
		return stats.Streak + 1
	case !last.Equal(today):
		return 1
	default:
		return stats.Streak
	}
}

// awardAchievements adds at most one badge from each ladder.
func (e *Engine) awardAchievements(stats *models.Stats) []string {
	var earned []string
	if name, ok := nextBadge(e.rules.CompletionBadges, stats.CompletedCount, stats.HasAchievement); ok {
		stats.Achievements = append(stats.Achievements, name)
		earned = append(earned, name)
	}
	if name, ok := nextBadge(e.rules.StreakBadges, stats.Streak, stats.HasAchievement); ok {
		stats.Achievements = append(stats.Achievements, name)
		earned = append(earned, name)
	}
	return earned
}
