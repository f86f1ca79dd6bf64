package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/contestly/competition-hub/metrics"
	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
)

type WinnerService interface {
	ListEligibleCompetitions(ctx context.Context) ([]models.Competition, error)
	ListCandidates(ctx context.Context, competitionID int) ([]models.Submission, error)
	SelectWinner(ctx context.Context, competitionID, submissionID int) (*models.Competition, error)
}

type winnerService struct {
	tx                repositories.Transactor
	competitionRepo   repositories.CompetitionRepository
	submissionRepo    repositories.SubmissionRepository
	participationRepo repositories.ParticipationRepository
	submissions       SubmissionService
	broadcaster       EventBroadcaster
	logger            *slog.Logger
}

func NewWinnerService(
	tx repositories.Transactor,
	competitionRepo repositories.CompetitionRepository,
	submissionRepo repositories.SubmissionRepository,
	participationRepo repositories.ParticipationRepository,
	submissions SubmissionService,
	broadcaster EventBroadcaster,
	logger *slog.Logger,
) WinnerService {
	return &winnerService{
		tx:                tx,
		competitionRepo:   competitionRepo,
		submissionRepo:    submissionRepo,
		participationRepo: participationRepo,
		submissions:       submissions,
		broadcaster:       broadcaster,
		logger:            logger,
	}
}

func (s *winnerService) ListEligibleCompetitions(ctx context.Context) ([]models.Competition, error) {
	return s.competitionRepo.ListAwaitingWinner(ctx)
}

func (s *winnerService) ListCandidates(ctx context.Context, competitionID int) ([]models.Submission, error) {
	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, mapCompetitionRepoError(err)
	}
	return s.submissions.ListApproved(ctx, competitionID)
}

// SelectWinner closes a competition around one approved submission. All
// dependent writes run in one transaction; the winner_id IS NULL guard on the
// competition update makes a concurrent double award impossible.
func (s *winnerService) SelectWinner(ctx context.Context, competitionID, submissionID int) (*models.Competition, error) {
	submission, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubmissionNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	if submission.CompetitionID != competitionID {
		return nil, ErrSubmissionNotFound
	}
	if submission.Status != models.SubmissionApproved {
		return nil, ErrSubmissionNotApproved
	}

	winnerParticipation, err := s.participationRepo.FindByUserAndCompetition(ctx, submission.UserID, competitionID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.competitionRepo.DecideWinner(ctx, exec, competitionID, submissionID); err != nil {
			return mapCompetitionRepoError(err)
		}
		position := 1
		if err := s.participationRepo.SetResult(ctx, exec, winnerParticipation.ID, models.ResultWinner, &position); err != nil {
			return fmt.Errorf("failed to record winning participation: %w", err)
		}
		// Everyone else is closed as a plain participant; runner-up and
		// disqualified remain manual admin follow-ups.
		if err := s.participationRepo.CloseForCompetition(ctx, exec, competitionID, winnerParticipation.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	competition, err := s.competitionRepo.GetByID(ctx, competitionID)
	if err != nil {
		return nil, mapCompetitionRepoError(err)
	}

	metrics.WinnersSelectedTotal.Inc()
	s.broadcaster.BroadcastEvent(EventWinnerSelected, competition)
	s.logger.Info("winner selected",
		slog.Int("competition_id", competitionID),
		slog.Int("submission_id", submissionID),
		slog.String("user_id", submission.UserID))
	return competition, nil
}
