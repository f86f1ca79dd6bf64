package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/contestly/competition-hub/metrics"
	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
)

// AchievementService recomputes per-user achievement progress from the fixed
// catalog. Purely reactive: callers invoke Recheck after any event that
// changes the user's participation count.
type AchievementService interface {
	Recheck(ctx context.Context, userID string) error
	ListForUser(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

type achievementService struct {
	repo              repositories.AchievementRepository
	participationRepo repositories.ParticipationRepository
	now               func() time.Time
}

func NewAchievementService(
	repo repositories.AchievementRepository,
	participationRepo repositories.ParticipationRepository,
) AchievementService {
	return &achievementService{
		repo:              repo,
		participationRepo: participationRepo,
		now:               time.Now,
	}
}

func (s *achievementService) Recheck(ctx context.Context, userID string) error {
	n, err := s.participationRepo.CountByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to count participations: %w", err)
	}

	for _, a := range models.AchievementCatalog {
		progress := n
		if progress > a.MaxProgress {
			progress = a.MaxProgress
		}
		unlocked := n >= a.MaxProgress

		if progress == 0 {
			continue
		}
		if err := s.apply(ctx, userID, a.ID, progress, unlocked); err != nil {
			return err
		}
	}
	return nil
}

// apply enforces the monotonic rule: progress never decreases and an unlocked
// achievement never re-locks.
func (s *achievementService) apply(ctx context.Context, userID, achievementID string, progress int, unlocked bool) error {
	existing, err := s.repo.FindByUserAndAchievement(ctx, userID, achievementID)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserAchievementNotFound) {
			return err
		}
		ua := &models.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			Progress:      progress,
			Unlocked:      unlocked,
		}
		if unlocked {
			now := s.now()
			ua.UnlockedAt = &now
			metrics.AchievementsUnlockedTotal.Inc()
		}
		return s.repo.Create(ctx, ua)
	}

	if existing.Unlocked {
		return nil
	}
	switch {
	case unlocked:
		now := s.now()
		metrics.AchievementsUnlockedTotal.Inc()
		return s.repo.UpdateProgress(ctx, existing.ID, progress, true, &now)
	case progress > existing.Progress:
		return s.repo.UpdateProgress(ctx, existing.ID, progress, false, nil)
	default:
		return nil
	}
}

func (s *achievementService) ListForUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	return s.repo.ListByUser(ctx, userID)
}
