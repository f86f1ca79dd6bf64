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

// EnterResult distinguishes a fresh enrollment from an already-existing one,
// which the API reports as a success with the current status.
type EnterResult struct {
	Participation  *models.Participation
	AlreadyEntered bool
}

type ParticipationService interface {
	Enter(ctx context.Context, userID string, competitionID int) (*EnterResult, error)
	UpdateProgress(ctx context.Context, userID string, participationID, progress int) (*models.Participation, error)
	ListActive(ctx context.Context, userID string) ([]models.Participation, error)
	ListPast(ctx context.Context, userID string) ([]models.Participation, error)
}

type participationService struct {
	repo            repositories.ParticipationRepository
	competitionRepo repositories.CompetitionRepository
	achievements    AchievementService
	logger          *slog.Logger
}

func NewParticipationService(
	repo repositories.ParticipationRepository,
	competitionRepo repositories.CompetitionRepository,
	achievements AchievementService,
	logger *slog.Logger,
) ParticipationService {
	return &participationService{
		repo:            repo,
		competitionRepo: competitionRepo,
		achievements:    achievements,
		logger:          logger,
	}
}

func (s *participationService) Enter(ctx context.Context, userID string, competitionID int) (*EnterResult, error) {
	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, mapCompetitionRepoError(err)
	}

	existing, err := s.repo.FindByUserAndCompetition(ctx, userID, competitionID)
	if err != nil && !errors.Is(err, repositories.ErrParticipationNotFound) {
		return nil, fmt.Errorf("failed to check existing participation: %w", err)
	}
	if existing != nil {
		return &EnterResult{Participation: existing, AlreadyEntered: true}, nil
	}

	p := &models.Participation{
		UserID:        userID,
		CompetitionID: competitionID,
		Status:        models.ParticipationPending,
		Progress:      0,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		// The unique constraint closes the race left open by the pre-check.
		if errors.Is(err, repositories.ErrParticipationConflict) {
			return nil, ErrAlreadyParticipating
		}
		return nil, err
	}
	metrics.EntriesTotal.Inc()

	// The achievement recheck is reactive and best-effort: a failure here
	// must not undo a successful enrollment.
	if err := s.achievements.Recheck(ctx, userID); err != nil {
		s.logger.Error("achievement recheck failed after enter",
			slog.String("user_id", userID), slog.Any("error", err))
	}

	return &EnterResult{Participation: p}, nil
}

func (s *participationService) UpdateProgress(ctx context.Context, userID string, participationID, progress int) (*models.Participation, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	p, err := s.repo.FindByID(ctx, participationID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipationNotFound) {
			return nil, ErrParticipationNotFound
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrForbiddenOperation
	}
	if p.Result != nil {
		return nil, ErrParticipationFrozen
	}

	if err := s.repo.UpdateProgress(ctx, participationID, progress); err != nil {
		return nil, err
	}
	p.Progress = progress
	return p, nil
}

func (s *participationService) ListActive(ctx context.Context, userID string) ([]models.Participation, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}

func (s *participationService) ListPast(ctx context.Context, userID string) ([]models.Participation, error) {
	return s.repo.ListPastByUser(ctx, userID)
}
