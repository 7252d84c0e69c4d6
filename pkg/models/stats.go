package models

// Stats tracks a user's review counters, streak and earned badges.
type Stats struct {
	CompletedCount  int      `json:"completed_count"`
	InProgressCount int      `json:"in_progress_count"`
	Streak          int      `json:"streak"`
	LastReviewDate  *Date    `json:"last_review_date"`
	Achievements    []string `json:"achievements"`
}

// HasAchievement reports whether the badge was already earned.
func (s Stats) HasAchievement(name string) bool {
	for _, a := range s.Achievements {
		if a == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	c := s
	c.Achievements = make([]string, len(s.Achievements))
	copy(c.Achievements, s.Achievements)
	if s.LastReviewDate != nil {
		c.LastReviewDate = s.LastReviewDate.Ptr()
	}
	return c
}
