package models

import "time"

// Achievement is a fixed, globally defined milestone. The catalog lives in
// code; only per-user progress is persisted.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxProgress int    `json:"max_progress"`
	Category    string `json:"category"`
}

// AchievementCatalog is the full set of achievements, keyed by threshold on
// the user's total participation count.
var AchievementCatalog = []Achievement{
	{
		ID:          "first_competition",
		Title:       "First Competition",
		Description: "Enter your first competition",
		MaxProgress: 1,
		Category:    "participation",
	},
	{
		ID:          "competition_enthusiast",
		Title:       "Competition Enthusiast",
		Description: "Enter 5 competitions",
		MaxProgress: 5,
		Category:    "participation",
	},
	{
		ID:          "competition_master",
		Title:       "Competition Master",
		Description: "Enter 10 competitions",
		MaxProgress: 10,
		Category:    "participation",
	},
}

// UserAchievement is one user's progress against one catalog entry.
// Progress never decreases and Unlocked is one-way false to true.
type UserAchievement struct {
	ID            int        `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	AchievementID string     `json:"achievement_id" db:"achievement_id"`
	Progress      int        `json:"progress" db:"progress"`
	Unlocked      bool       `json:"unlocked" db:"unlocked"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty" db:"unlocked_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
