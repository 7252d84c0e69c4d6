package models

// UserState is everything persisted for one user.
type UserState struct {
	Materials []Material `json:"materials"`
	Stats     Stats      `json:"stats"`
}

// NewUserState returns the state a user starts with: no materials and zeroed stats.
func NewUserState() UserState {
	return UserState{
		Materials: []Material{},
		Stats:     Stats{Achievements: []string{}},
	}
}

// Normalize replaces nil collections with empty ones so that a state read back
// from storage compares equal to the one that was written.
func (u *UserState) Normalize() {
	if u.Materials == nil {
		u.Materials = []Material{}
	}
	if u.Stats.Achievements == nil {
		u.Stats.Achievements = []string{}
	}
	for i := range u.Materials {
		if u.Materials[i].ReviewSchedule == nil {
			u.Materials[i].ReviewSchedule = []Date{}
		}
	}
}

// Clone returns a deep copy.
func (u UserState) Clone() UserState {
	c := UserState{
		Materials: make([]Material, len(u.Materials)),
		Stats:     u.Stats.Clone(),
	}
	for i, m := range u.Materials {
		c.Materials[i] = m.Clone()
	}
	return c
}

// Dataset maps a user identifier to that user's state.
type Dataset map[string]UserState

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	c := make(Dataset, len(d))
	for id, st := range d {
		c[id] = st.Clone()
	}
	return c
}
