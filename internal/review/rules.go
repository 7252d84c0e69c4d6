package review

import "fmt"

// Threshold names the label earned once a counter reaches Min.
type Threshold struct {
	Min  int
	Name string
}

// Rules holds the fixed review curve and the level and badge tables.
// Ladders are ordered from the highest threshold to the lowest.
type Rules struct {
	// Intervals are day offsets from the creation date, one per review step.
	Intervals []int

	Levels       []Threshold
	DefaultLevel string

	CompletionBadges []Threshold
	StreakBadges     []Threshold
}

// DefaultRules is the 1/3/7/14/30 day curve with the stock levels and badges.
func DefaultRules() Rules {
	return Rules{
		Intervals: []int{1, 3, 7, 14, 30},
		Levels: []Threshold{
			{Min: 30, Name: "Genius"},
			{Min: 20, Name: "Master"},
			{Min: 10, Name: "Advanced"},
			{Min: 5, Name: "Diligent"},
		},
		DefaultLevel: "Beginner",
		CompletionBadges: []Threshold{
			{Min: 50, Name: "Sage"},
			{Min: 25, Name: "Expert"},
			{Min: 10, Name: "Apprentice"},
		},
		StreakBadges: []Threshold{
			{Min: 30, Name: "Iron Will"},
			{Min: 15, Name: "Persistence"},
			{Min: 7, Name: "Determination"},
		},
	}
}

// Validate checks that the curve is non-empty and increasing and that every
// ladder is ordered high to low.
func (r Rules) Validate() error {
	if len(r.Intervals) == 0 {
		return fmt.Errorf("%w: no review intervals", ErrInvalidRules)
	}
	prev := 0
	for i, d := range r.Intervals {
		if d <= prev {
			return fmt.Errorf("%w: interval %d (%d days) must be greater than %d", ErrInvalidRules, i, d, prev)
		}
		prev = d
	}
	for name, ladder := range map[string][]Threshold{
		"levels":            r.Levels,
		"completion badges": r.CompletionBadges,
		"streak badges":     r.StreakBadges,
	} {
		for i := 1; i < len(ladder); i++ {
			if ladder[i].Min >= ladder[i-1].Min {
				return fmt.Errorf("%w: %s must be ordered from highest to lowest", ErrInvalidRules, name)
			}
		}
	}
	return nil
}

// Level returns the label of the highest level threshold streak reaches.
func (r Rules) Level(streak int) string {
	for _, t := range r.Levels {
		if streak >= t.Min {
			return t.Name
		}
	}
	return r.DefaultLevel
}

// nextBadge walks ladder high to low and returns the first badge whose
// threshold is met and which has not been earned yet.
func nextBadge(ladder []Threshold, value int, earned func(string) bool) (string, bool) {
	for _, t := range ladder {
		if value >= t.Min && !earned(t.Name) {
			return t.Name, true
		}
	}
	return "", false
}
