package models

// DashboardStats are the derived counters shown on the user dashboard.
type DashboardStats struct {
	CompetitionsJoined int `json:"competitionsJoined"`
	CompetitionsWon    int `json:"competitionsWon"`
	SavedCompetitions  int `json:"savedCompetitions"`
}

// Dashboard is the composed per-user read view: four reads plus derived stats.
type Dashboard struct {
	SavedCompetitions    []Competition     `json:"savedCompetitions"`
	ActiveParticipations []Participation   `json:"activeParticipations"`
	PastParticipations   []Participation   `json:"pastParticipations"`
	Achievements         []UserAchievement `json:"achievements"`
	Stats                DashboardStats    `json:"stats"`
}
