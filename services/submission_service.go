package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contestly/competition-hub/metrics"
	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
)

// EventBroadcaster pushes moderation events to connected admin clients.
// Implemented by realtime.Hub; a no-op fake is used in tests.
type EventBroadcaster interface {
	BroadcastEvent(event string, payload interface{})
}

const (
	EventSubmissionReceived  = "SUBMISSION_RECEIVED"
	EventSubmissionModerated = "SUBMISSION_MODERATED"
	EventWinnerSelected      = "WINNER_SELECTED"
)

type SubmissionService interface {
	Submit(ctx context.Context, userID string, competitionID int, content string) (*models.Submission, error)
	SetStatus(ctx context.Context, submissionID int, status models.SubmissionStatus) (*models.Submission, error)
	ListApproved(ctx context.Context, competitionID int) ([]models.Submission, error)
}

type submissionService struct {
	repo              repositories.SubmissionRepository
	competitionRepo   repositories.CompetitionRepository
	participationRepo repositories.ParticipationRepository
	broadcaster       EventBroadcaster
	now               func() time.Time
}

func NewSubmissionService(
	repo repositories.SubmissionRepository,
	competitionRepo repositories.CompetitionRepository,
	participationRepo repositories.ParticipationRepository,
	broadcaster EventBroadcaster,
) SubmissionService {
	return &submissionService{
		repo:              repo,
		competitionRepo:   competitionRepo,
		participationRepo: participationRepo,
		broadcaster:       broadcaster,
		now:               time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, userID string, competitionID int, content string) (*models.Submission, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	if competition.DeadlinePassed(s.now()) {
		return nil, ErrDeadlinePassed
	}

	participation, err := s.participationRepo.FindByUserAndCompetition(ctx, userID, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to load participation: %w", err)
	}

	submission := &models.Submission{
		CompetitionID: competitionID,
		UserID:        userID,
		Content:       content,
		Status:        models.SubmissionPending,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		if errors.Is(err, repositories.ErrSubmissionConflict) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	if participation.Status == models.ParticipationPending {
		if err := s.participationRepo.UpdateStatus(ctx, nil, participation.ID, models.ParticipationSubmitted); err != nil {
			return nil, fmt.Errorf("failed to advance participation status: %w", err)
		}
	}

	metrics.SubmissionsTotal.Inc()
	s.broadcaster.BroadcastEvent(EventSubmissionReceived, submission)
	return submission, nil
}

func (s *submissionService) SetStatus(ctx context.Context, submissionID int, status models.SubmissionStatus) (*models.Submission, error) {
	if status != models.SubmissionApproved && status != models.SubmissionRejected {
		return nil, ErrInvalidSubmissionStatus
	}

	submission, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	// Moderation is terminal: approved and rejected rows stay as they are.
	if submission.Status != models.SubmissionPending {
		return nil, ErrSubmissionAlreadyModerated
	}

	if err := s.repo.UpdateStatusFromPending(ctx, submissionID, status); err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionAlreadyModerated
		}
		return nil, err
	}
	submission.Status = status

	if status == models.SubmissionApproved {
		participation, err := s.participationRepo.FindByUserAndCompetition(ctx, submission.UserID, submission.CompetitionID)
		if err == nil && participation.Status == models.ParticipationSubmitted {
			if err := s.participationRepo.UpdateStatus(ctx, nil, participation.ID, models.ParticipationReviewing); err != nil {
				return nil, fmt.Errorf("failed to advance participation status: %w", err)
			}
		}
	}

	s.broadcaster.BroadcastEvent(EventSubmissionModerated, submission)
	return submission, nil
}

func (s *submissionService) ListApproved(ctx context.Context, competitionID int) ([]models.Submission, error) {
	return s.repo.ListByCompetitionAndStatus(ctx, competitionID, models.SubmissionApproved)
}
