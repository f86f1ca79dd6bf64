package models

import "time"

// SavedCompetition is a (user, competition) bookmark pair.
type SavedCompetition struct {
	ID            int       `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	CompetitionID int       `json:"competition_id" db:"competition_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Competition *Competition `json:"competition,omitempty" db:"-"`
}
