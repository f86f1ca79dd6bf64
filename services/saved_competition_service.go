package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/repositories"
)

const (
	SavedActionSave   = "save"
	SavedActionUnsave = "unsave"
)

// ToggleResult mirrors the wire shape: the action actually taken plus the
// affected row when one exists.
type ToggleResult struct {
	Action string                   `json:"action"`
	Data   *models.SavedCompetition `json:"data,omitempty"`
}

type SavedCompetitionService interface {
	Toggle(ctx context.Context, userID string, competitionID int, action string) (*ToggleResult, error)
}

type savedCompetitionService struct {
	repo            repositories.SavedCompetitionRepository
	competitionRepo repositories.CompetitionRepository
}

func NewSavedCompetitionService(
	repo repositories.SavedCompetitionRepository,
	competitionRepo repositories.CompetitionRepository,
) SavedCompetitionService {
	return &savedCompetitionService{
		repo:            repo,
		competitionRepo: competitionRepo,
	}
}

func (s *savedCompetitionService) Toggle(ctx context.Context, userID string, competitionID int, action string) (*ToggleResult, error) {
	if action != SavedActionSave && action != SavedActionUnsave {
		return nil, ErrInvalidSavedAction
	}

	if _, err := s.competitionRepo.GetByID(ctx, competitionID); err != nil {
		return nil, mapCompetitionRepoError(err)
	}

	if action == SavedActionSave {
		sc := &models.SavedCompetition{UserID: userID, CompetitionID: competitionID}
		if err := s.repo.Save(ctx, sc); err != nil {
			if errors.Is(err, repositories.ErrSavedCompetitionConflict) {
				return &ToggleResult{Action: "already_saved"}, nil
			}
			return nil, fmt.Errorf("failed to save competition: %w", err)
		}
		return &ToggleResult{Action: "saved", Data: sc}, nil
	}

	if err := s.repo.Unsave(ctx, userID, competitionID); err != nil {
		if errors.Is(err, repositories.ErrSavedCompetitionNotFound) {
			return &ToggleResult{Action: "unsaved"}, nil
		}
		return nil, fmt.Errorf("failed to unsave competition: %w", err)
	}
	return &ToggleResult{Action: "unsaved"}, nil
}
