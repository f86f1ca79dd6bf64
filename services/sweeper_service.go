package services

import (
	"context"
	"log/slog"

	"github.com/contestly/competition-hub/metrics"
	"github.com/contestly/competition-hub/repositories"
)

// SweeperService is the periodic consistency pass run from main. It repairs
// competitions whose winner write landed but whose status update did not
// (the two writes are transactional in this service, but rows written by
// earlier tooling or manual edits may violate the invariant), and refreshes
// the awaiting-winner gauge.
type SweeperService struct {
	competitionRepo repositories.CompetitionRepository
	logger          *slog.Logger
}

func NewSweeperService(competitionRepo repositories.CompetitionRepository, logger *slog.Logger) *SweeperService {
	return &SweeperService{competitionRepo: competitionRepo, logger: logger}
}

func (s *SweeperService) Sweep(ctx context.Context) error {
	repaired, err := s.competitionRepo.RepairCompletedStatuses(ctx)
	if err != nil {
		return err
	}
	if repaired > 0 {
		s.logger.Warn("repaired competitions with winner but stale status",
			slog.Int("count", repaired))
	}

	awaiting, err := s.competitionRepo.ListAwaitingWinner(ctx)
	if err != nil {
		return err
	}
	metrics.CompetitionsAwaitingWinner.Set(float64(len(awaiting)))
	return nil
}
