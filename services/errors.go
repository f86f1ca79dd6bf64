package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business-rule errors
	ErrValidationFailed          = errors.New("validation failed")
	ErrCompetitionFieldsRequired = errors.New("title, descriptions, category, type, entry requirements, prize and deadline are required")
	ErrCompetitionInvalidCategory = errors.New("invalid competition category")
	ErrCompetitionInvalidType     = errors.New("invalid competition type")
	ErrCompetitionInvalidImageURL = errors.New("image URL is not well-formed")
	ErrCompetitionNotArchivable   = errors.New("competition is already archived or completed")
	ErrDeadlinePassed             = errors.New("competition deadline has passed")
	ErrEmptyContent               = errors.New("submission content must not be empty")
	ErrInvalidProgress            = errors.New("progress must be between 0 and 100")
	ErrParticipationFrozen        = errors.New("participation is frozen once a result is recorded")
	ErrInvalidSubmissionStatus    = errors.New("status must be either approved or rejected")
	ErrInvalidSavedAction         = errors.New("action must be either save or unsave")
	ErrImageStorageDisabled       = errors.New("image storage is not configured")

	// Duplicate-action guards
	ErrCompetitionTitleConflict = errors.New("competition title already exists")
	ErrCompetitionInUse         = errors.New("competition has participations or submissions and cannot be deleted")
	ErrAlreadyParticipating     = errors.New("already participating in this competition")
	ErrAlreadySubmitted     = errors.New("already submitted to this competition")
	ErrAlreadyDecided       = errors.New("competition winner has already been decided")
	ErrAlreadySeeded        = errors.New("competitions data already exists")

	// Moderation
	ErrSubmissionAlreadyModerated = errors.New("submission has already been moderated")
	ErrSubmissionNotApproved      = errors.New("submission is not approved")

	// Authentication and authorization
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors
	ErrCompetitionNotFound   = errors.New("competition not found")
	ErrParticipationNotFound = errors.New("participation not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrUserNotFound          = errors.New("user not found")

	// Composite reads
	ErrDashboardAggregation = errors.New("failed to aggregate dashboard data")
)
