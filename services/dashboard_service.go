package services

import (
	"context"
	"fmt"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error)
}

type dashboardService struct {
	savedRepo         repositories.SavedCompetitionRepository
	participationRepo repositories.ParticipationRepository
	achievementRepo   repositories.AchievementRepository
}

func NewDashboardService(
	savedRepo repositories.SavedCompetitionRepository,
	participationRepo repositories.ParticipationRepository,
	achievementRepo repositories.AchievementRepository,
) DashboardService {
	return &dashboardService{
		savedRepo:         savedRepo,
		participationRepo: participationRepo,
		achievementRepo:   achievementRepo,
	}
}

// GetDashboard composes the four per-user reads concurrently. Any failed read
// fails the whole call; there is no partial-result degradation.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	var (
		saved        []models.SavedCompetition
		active, past []models.Participation
		achievements []models.UserAchievement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		saved, err = s.savedRepo.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		active, err = s.participationRepo.ListActiveByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		past, err = s.participationRepo.ListPastByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		achievements, err = s.achievementRepo.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDashboardAggregation, err)
	}

	won := 0
	for _, p := range past {
		if p.Result != nil && *p.Result == models.ResultWinner {
			won++
		}
	}

	savedCompetitions := make([]models.Competition, 0, len(saved))
	for _, sc := range saved {
		if sc.Competition != nil {
			savedCompetitions = append(savedCompetitions, *sc.Competition)
		}
	}

	return &models.Dashboard{
		SavedCompetitions:    savedCompetitions,
		ActiveParticipations: active,
		PastParticipations:   past,
		Achievements:         achievements,
		Stats: models.DashboardStats{
			CompetitionsJoined: len(active) + len(past),
			CompetitionsWon:    won,
			SavedCompetitions:  len(saved),
		},
	}, nil
}
