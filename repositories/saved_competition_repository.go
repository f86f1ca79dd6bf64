package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contestly/competition-hub/models"
	"github.com/lib/pq"
)

var (
	ErrSavedCompetitionNotFound = errors.New("saved competition not found")
	ErrSavedCompetitionConflict = errors.New("competition already saved")
)

type SavedCompetitionRepository interface {
	Save(ctx context.Context, sc *models.SavedCompetition) error
	Unsave(ctx context.Context, userID string, competitionID int) error
	Exists(ctx context.Context, userID string, competitionID int) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.SavedCompetition, error)
}

type postgresSavedCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresSavedCompetitionRepository(db *sql.DB) SavedCompetitionRepository {
	return &postgresSavedCompetitionRepository{db: db}
}

func (r *postgresSavedCompetitionRepository) Save(ctx context.Context, sc *models.SavedCompetition) error {
	query := `
		INSERT INTO saved_competitions (user_id, competition_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, sc.UserID, sc.CompetitionID).Scan(&sc.ID, &sc.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrSavedCompetitionConflict
		}
		return fmt.Errorf("failed to save competition: %w", err)
	}
	return nil
}

func (r *postgresSavedCompetitionRepository) Unsave(ctx context.Context, userID string, competitionID int) error {
	query := `DELETE FROM saved_competitions WHERE user_id = $1 AND competition_id = $2`
	result, err := r.db.ExecContext(ctx, query, userID, competitionID)
	if err != nil {
		return fmt.Errorf("failed to unsave competition: %w", err)
	}
	return checkAffectedRows(result, ErrSavedCompetitionNotFound)
}

func (r *postgresSavedCompetitionRepository) Exists(ctx context.Context, userID string, competitionID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM saved_competitions WHERE user_id = $1 AND competition_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, userID, competitionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check saved competition: %w", err)
	}
	return exists, nil
}

func (r *postgresSavedCompetitionRepository) ListByUser(ctx context.Context, userID string) ([]models.SavedCompetition, error) {
	query := `
		SELECT
			sc.id, sc.user_id, sc.competition_id, sc.created_at,
			c.id, c.title, c.short_description, c.description, c.category, c.type,
			c.entry_requirements, c.prize, c.deadline, c.status, c.winner_id, c.image_key,
			c.created_at, c.updated_at
		FROM saved_competitions sc
		JOIN competitions c ON sc.competition_id = c.id
		WHERE sc.user_id = $1
		ORDER BY sc.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved competitions: %w", err)
	}
	defer rows.Close()

	saved := make([]models.SavedCompetition, 0)
	for rows.Next() {
		var sc models.SavedCompetition
		var c models.Competition
		if err := rows.Scan(
			&sc.ID, &sc.UserID, &sc.CompetitionID, &sc.CreatedAt,
			&c.ID, &c.Title, &c.ShortDescription, &c.Description, &c.Category, &c.Type,
			&c.EntryRequirements, &c.Prize, &c.Deadline, &c.Status, &c.WinnerID, &c.ImageKey,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan saved competition row: %w", err)
		}
		sc.Competition = &c
		saved = append(saved, sc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved competition rows: %w", err)
	}
	return saved, nil
}
