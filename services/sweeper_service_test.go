package services

import (
	"context"
	"testing"
	"time"

	"github.com/contestly/competition-hub/models"
)

func TestSweepRepairsStaleCompletedStatuses(t *testing.T) {
	compRepo := newFakeCompetitionRepo()
	sweeper := NewSweeperService(compRepo, testLogger())
	ctx := context.Background()

	stale := seedCompetition(t, compRepo, "Stale", time.Now().Add(-time.Hour))
	winnerID := 7
	compRepo.rows[stale.ID].WinnerID = &winnerID

	healthy := seedCompetition(t, compRepo, "Healthy", time.Now().Add(24*time.Hour))

	if err := sweeper.Sweep(ctx); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	repaired, err := compRepo.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if repaired.Status != models.CompetitionCompleted {
		t.Errorf("stale status = %q, want completed", repaired.Status)
	}

	untouched, err := compRepo.GetByID(ctx, healthy.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if untouched.Status != models.CompetitionActive {
		t.Errorf("healthy status = %q, want active", untouched.Status)
	}
}
