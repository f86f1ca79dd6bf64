package models

import "time"

// CompetitionStatus represents competition statuses, matching the ENUM in the DB.
type CompetitionStatus string

const (
	CompetitionActive    CompetitionStatus = "active"
	CompetitionArchived  CompetitionStatus = "archived"
	CompetitionCompleted CompetitionStatus = "completed"
)

// CompetitionCategory matches the category ENUM in the DB.
type CompetitionCategory string

const (
	CategoryDesign      CompetitionCategory = "Design"
	CategoryTechnology  CompetitionCategory = "Technology"
	CategoryWriting     CompetitionCategory = "Writing"
	CategoryPhotography CompetitionCategory = "Photography"
	CategoryMarketing   CompetitionCategory = "Marketing"
	CategoryTravel      CompetitionCategory = "Travel"
)

// CompetitionType matches the type ENUM in the DB.
type CompetitionType string

const (
	TypeSkill CompetitionType = "Skill"
	TypeLuck  CompetitionType = "Luck"
)

// Competition represents a time-bounded contest with a deadline and a prize.
// EntryRequirements is a comma-separated token list ("Free, Email").
type Competition struct {
	ID                int                 `json:"id" db:"id"`
	Title             string              `json:"title" db:"title"`
	ShortDescription  string              `json:"short_description" db:"short_description"`
	Description       string              `json:"description" db:"description"`
	Category          CompetitionCategory `json:"category" db:"category"`
	Type              CompetitionType     `json:"type" db:"type"`
	EntryRequirements string              `json:"entry_requirements" db:"entry_requirements"`
	Prize             string              `json:"prize" db:"prize"`
	Deadline          time.Time           `json:"deadline" db:"deadline"`
	Status            CompetitionStatus   `json:"status" db:"status"`
	WinnerID          *int                `json:"winner_id,omitempty" db:"winner_id"`
	ImageKey          *string             `json:"-" db:"image_key"`
	ImageURL          *string             `json:"image_url,omitempty" db:"-"`
	CreatedAt         time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at" db:"updated_at"`
}

// DeadlinePassed reports whether the competition no longer accepts submissions.
func (c *Competition) DeadlinePassed(now time.Time) bool {
	return c.Deadline.Before(now)
}

func ValidCompetitionCategory(c CompetitionCategory) bool {
	switch c {
	case CategoryDesign, CategoryTechnology, CategoryWriting,
		CategoryPhotography, CategoryMarketing, CategoryTravel:
		return true
	}
	return false
}

func ValidCompetitionType(t CompetitionType) bool {
	return t == TypeSkill || t == TypeLuck
}
