package models

// Material is a single piece of content tracked for spaced review.
type Material struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	ReviewSchedule   []Date `json:"review_schedule"`
	CurrentStep      int    `json:"current_step"`
	Completed        bool   `json:"completed"`
	CreatedDate      Date   `json:"created_date"`
	LastReviewedDate *Date  `json:"last_reviewed_date"`
}

// NextReview returns the date the material is due next. It reports false
// once the material has gone through its whole schedule.
func (m Material) NextReview() (Date, bool) {
	if m.Completed || m.CurrentStep < 0 || m.CurrentStep >= len(m.ReviewSchedule) {
		return Date{}, false
	}
	return m.ReviewSchedule[m.CurrentStep], true
}

// IsDue reports whether the material is not completed and its current
// scheduled date is on or before today.
func (m Material) IsDue(today Date) bool {
	next, ok := m.NextReview()
	return ok && !next.After(today)
}

// Clone returns a deep copy.
func (m Material) Clone() Material {
	c := m
	c.ReviewSchedule = make([]Date, len(m.ReviewSchedule))
	copy(c.ReviewSchedule, m.ReviewSchedule)
	if m.LastReviewedDate != nil {
		c.LastReviewedDate = m.LastReviewedDate.Ptr()
	}
	return c
}
