package models

import "time"

// ParticipationStatus represents the lifecycle of a user's enrollment,
// matching the ENUM in the DB.
type ParticipationStatus string

const (
	ParticipationPending   ParticipationStatus = "pending"
	ParticipationSubmitted ParticipationStatus = "submitted"
	ParticipationReviewing ParticipationStatus = "reviewing"
	ParticipationCompleted ParticipationStatus = "completed"
)

// ParticipationResult matches the result ENUM in the DB. Only set on
// completed participations.
type ParticipationResult string

const (
	ResultWinner       ParticipationResult = "winner"
	ResultRunnerUp     ParticipationResult = "runner-up"
	ResultParticipant  ParticipationResult = "participant"
	ResultDisqualified ParticipationResult = "disqualified"
)

// Participation is one user's enrollment in one competition.
// Unique on (UserID, CompetitionID). Frozen once Result is recorded.
type Participation struct {
	ID            int                  `json:"id" db:"id"`
	UserID        string               `json:"user_id" db:"user_id"`
	CompetitionID int                  `json:"competition_id" db:"competition_id"`
	Status        ParticipationStatus  `json:"status" db:"status"`
	Progress      int                  `json:"progress" db:"progress"`
	Result        *ParticipationResult `json:"result,omitempty" db:"result"`
	Position      *int                 `json:"position,omitempty" db:"position"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`

	Competition *Competition `json:"competition,omitempty" db:"-"`
}

// Active reports whether the participation still counts toward the
// user's active dashboard section.
func (p *Participation) Active() bool {
	switch p.Status {
	case ParticipationPending, ParticipationSubmitted, ParticipationReviewing:
		return true
	}
	return false
}
