package services

import (
	"context"
	"testing"
	"time"

	"github.com/contestly/competition-hub/models"
	"github.com/google/uuid"
)

func addParticipations(t *testing.T, repo *fakeParticipationRepo, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := repo.Create(context.Background(), &models.Participation{
			UserID:        userID,
			CompetitionID: 1000 + repo.nextID,
			Status:        models.ParticipationPending,
		}); err != nil {
			t.Fatalf("seed participation: %v", err)
		}
	}
}

func findAchievement(t *testing.T, list []models.UserAchievement, id string) *models.UserAchievement {
	t.Helper()
	for i := range list {
		if list[i].AchievementID == id {
			return &list[i]
		}
	}
	return nil
}

func TestRecheckFirstEntry(t *testing.T) {
	achRepo := newFakeAchievementRepo()
	partRepo := newFakeParticipationRepo()
	svc := NewAchievementService(achRepo, partRepo)
	ctx := context.Background()
	userID := uuid.NewString()

	addParticipations(t, partRepo, userID, 1)
	if err := svc.Recheck(ctx, userID); err != nil {
		t.Fatalf("Recheck: %v", err)
	}

	list, err := svc.ListForUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}

	first := findAchievement(t, list, "first_competition")
	if first == nil || !first.Unlocked || first.Progress != 1 {
		t.Errorf("first_competition = %+v, want unlocked with progress 1", first)
	}
	if first != nil && first.UnlockedAt == nil {
		t.Error("first_competition unlocked without UnlockedAt")
	}

	enthusiast := findAchievement(t, list, "competition_enthusiast")
	if enthusiast == nil || enthusiast.Unlocked || enthusiast.Progress != 1 {
		t.Errorf("competition_enthusiast = %+v, want locked with progress 1", enthusiast)
	}

	master := findAchievement(t, list, "competition_master")
	if master == nil || master.Unlocked || master.Progress != 1 {
		t.Errorf("competition_master = %+v, want locked with progress 1", master)
	}
}

func TestRecheckZeroParticipationsWritesNothing(t *testing.T) {
	achRepo := newFakeAchievementRepo()
	svc := NewAchievementService(achRepo, newFakeParticipationRepo())
	userID := uuid.NewString()

	if err := svc.Recheck(context.Background(), userID); err != nil {
		t.Fatalf("Recheck: %v", err)
	}
	list, _ := svc.ListForUser(context.Background(), userID)
	if len(list) != 0 {
		t.Errorf("achievements = %v, want none at zero participations", list)
	}
}

func TestRecheckUnlocksAtThresholds(t *testing.T) {
	achRepo := newFakeAchievementRepo()
	partRepo := newFakeParticipationRepo()
	svc := NewAchievementService(achRepo, partRepo)
	ctx := context.Background()
	userID := uuid.NewString()

	addParticipations(t, partRepo, userID, 5)
	if err := svc.Recheck(ctx, userID); err != nil {
		t.Fatalf("Recheck: %v", err)
	}

	list, _ := svc.ListForUser(ctx, userID)
	enthusiast := findAchievement(t, list, "competition_enthusiast")
	if enthusiast == nil || !enthusiast.Unlocked || enthusiast.Progress != 5 {
		t.Errorf("competition_enthusiast = %+v, want unlocked with progress 5", enthusiast)
	}
	master := findAchievement(t, list, "competition_master")
	if master == nil || master.Unlocked || master.Progress != 5 {
		t.Errorf("competition_master = %+v, want locked with progress 5", master)
	}

	addParticipations(t, partRepo, userID, 5)
	if err := svc.Recheck(ctx, userID); err != nil {
		t.Fatalf("second Recheck: %v", err)
	}
	list, _ = svc.ListForUser(ctx, userID)
	master = findAchievement(t, list, "competition_master")
	if master == nil || !master.Unlocked || master.Progress != 10 {
		t.Errorf("competition_master = %+v, want unlocked with progress 10", master)
	}
}

func TestRecheckIsMonotonic(t *testing.T) {
	achRepo := newFakeAchievementRepo()
	partRepo := newFakeParticipationRepo()
	svc := NewAchievementService(achRepo, partRepo)
	ctx := context.Background()
	userID := uuid.NewString()

	addParticipations(t, partRepo, userID, 3)
	if err := svc.Recheck(ctx, userID); err != nil {
		t.Fatalf("Recheck: %v", err)
	}

	// Simulate stale state ahead of the current count: neither progress nor
	// unlocked may regress.
	unlockedAt := time.Now()
	for _, ua := range achRepo.rows {
		if ua.AchievementID == "competition_enthusiast" {
			ua.Progress = 5
			ua.Unlocked = true
			ua.UnlockedAt = &unlockedAt
		}
	}

	if err := svc.Recheck(ctx, userID); err != nil {
		t.Fatalf("second Recheck: %v", err)
	}
	list, _ := svc.ListForUser(ctx, userID)
	enthusiast := findAchievement(t, list, "competition_enthusiast")
	if enthusiast == nil || !enthusiast.Unlocked || enthusiast.Progress != 5 {
		t.Errorf("competition_enthusiast = %+v, want unchanged unlocked progress 5", enthusiast)
	}
}
