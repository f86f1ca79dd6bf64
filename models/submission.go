package models

import "time"

// SubmissionStatus matches the ENUM in the DB.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is the content a user submits toward a competition they entered.
// Read-only to the submitting user after creation; only moderation may change
// its status, and only out of pending.
type Submission struct {
	ID            int              `json:"id" db:"id"`
	CompetitionID int              `json:"competition_id" db:"competition_id"`
	UserID        string           `json:"user_id" db:"user_id"`
	Content       string           `json:"content" db:"content"`
	Status        SubmissionStatus `json:"status" db:"status"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`

	// Display identity of the submitter, populated on moderation reads.
	UserEmail *string `json:"user_email,omitempty" db:"-"`
	UserName  *string `json:"user_name,omitempty" db:"-"`
}
