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
	ErrParticipationNotFound           = errors.New("participation not found")
	ErrParticipationConflict           = errors.New("user already participates in this competition")
	ErrParticipationUserInvalid        = errors.New("participation references an unknown user")
	ErrParticipationCompetitionInvalid = errors.New("participation references an unknown competition")
)

type ParticipationRepository interface {
	Create(ctx context.Context, p *models.Participation) error
	FindByID(ctx context.Context, id int) (*models.Participation, error)
	FindByUserAndCompetition(ctx context.Context, userID string, competitionID int) (*models.Participation, error)
	UpdateProgress(ctx context.Context, id, progress int) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipationStatus) error
	CloseForCompetition(ctx context.Context, exec SQLExecutor, competitionID, winnerParticipationID int) error
	SetResult(ctx context.Context, exec SQLExecutor, id int, result models.ParticipationResult, position *int) error
	ListActiveByUser(ctx context.Context, userID string) ([]models.Participation, error)
	ListPastByUser(ctx context.Context, userID string) ([]models.Participation, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type postgresParticipationRepository struct {
	db *sql.DB
}

func NewPostgresParticipationRepository(db *sql.DB) ParticipationRepository {
	return &postgresParticipationRepository{db: db}
}

func (r *postgresParticipationRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipationRepository) Create(ctx context.Context, p *models.Participation) error {
	query := `
		INSERT INTO participations (user_id, competition_id, status, progress)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.CompetitionID, p.Status, p.Progress,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "participations_user_id_competition_id_key" {
					return ErrParticipationConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "participations_user_id_fkey":
					return ErrParticipationUserInvalid
				case "participations_competition_id_fkey":
					return ErrParticipationCompetitionInvalid
				}
			}
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

func (r *postgresParticipationRepository) scanParticipation(row interface{ Scan(...interface{}) error }, p *models.Participation) error {
	return row.Scan(
		&p.ID, &p.UserID, &p.CompetitionID, &p.Status, &p.Progress,
		&p.Result, &p.Position, &p.CreatedAt,
	)
}

func (r *postgresParticipationRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participation, error) {
	p := &models.Participation{}
	err := r.scanParticipation(r.db.QueryRowContext(ctx, query, args...), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipationNotFound
		}
		return nil, fmt.Errorf("failed to find participation: %w", err)
	}
	return p, nil
}

func (r *postgresParticipationRepository) FindByID(ctx context.Context, id int) (*models.Participation, error) {
	query := `
		SELECT id, user_id, competition_id, status, progress, result, position, created_at
		FROM participations WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresParticipationRepository) FindByUserAndCompetition(ctx context.Context, userID string, competitionID int) (*models.Participation, error) {
	query := `
		SELECT id, user_id, competition_id, status, progress, result, position, created_at
		FROM participations WHERE user_id = $1 AND competition_id = $2`
	return r.findOne(ctx, query, userID, competitionID)
}

func (r *postgresParticipationRepository) UpdateProgress(ctx context.Context, id, progress int) error {
	query := `UPDATE participations SET progress = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, progress, id)
	if err != nil {
		return fmt.Errorf("failed to update participation progress: %w", err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

func (r *postgresParticipationRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipationStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE participations SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update participation status: %w", err)
	}
	return checkAffectedRows(result, ErrParticipationNotFound)
}

// CloseForCompetition completes every participation of the competition except
// the winner's, marking them as plain participants. Participations that
// already carry a result keep it.
func (r *postgresParticipationRepository) CloseForCompetition(ctx context.Context, exec SQLExecutor, competitionID, winnerParticipationID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE participations
		SET status = $1, result = COALESCE(result, $2)
		WHERE competition_id = $3 AND id != $4`

	_, err := executor.ExecContext(ctx, query,
		models.ParticipationCompleted, models.ResultParticipant,
		competitionID, winnerParticipationID,
	)
	if err != nil {
		return fmt.Errorf("failed to close participations for competition %d: %w", competitionID, err)
	}
	return nil
}

func (r *postgresParticipationRepository) SetResult(ctx context.Context, exec SQLExecutor, id int, result models.ParticipationResult, position *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE participations SET status = $1, result = $2, position = $3 WHERE id = $4`
	res, err := executor.ExecContext(ctx, query, models.ParticipationCompleted, result, position, id)
	if err != nil {
		return fmt.Errorf("failed to set participation result: %w", err)
	}
	return checkAffectedRows(res, ErrParticipationNotFound)
}

func (r *postgresParticipationRepository) listByUser(ctx context.Context, query, userID string, args ...interface{}) ([]models.Participation, error) {
	allArgs := append([]interface{}{userID}, args...)
	rows, err := r.db.QueryContext(ctx, query, allArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	participations := make([]models.Participation, 0)
	for rows.Next() {
		var p models.Participation
		var c models.Competition
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.CompetitionID, &p.Status, &p.Progress,
			&p.Result, &p.Position, &p.CreatedAt,
			&c.ID, &c.Title, &c.ShortDescription, &c.Description, &c.Category, &c.Type,
			&c.EntryRequirements, &c.Prize, &c.Deadline, &c.Status, &c.WinnerID, &c.ImageKey,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participation row: %w", err)
		}
		p.Competition = &c
		participations = append(participations, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participation rows: %w", err)
	}
	return participations, nil
}

const participationWithCompetitionSQL = `
	SELECT
		p.id, p.user_id, p.competition_id, p.status, p.progress,
		p.result, p.position, p.created_at,
		c.id, c.title, c.short_description, c.description, c.category, c.type,
		c.entry_requirements, c.prize, c.deadline, c.status, c.winner_id, c.image_key,
		c.created_at, c.updated_at
	FROM participations p
	JOIN competitions c ON p.competition_id = c.id
	WHERE p.user_id = $1`

func (r *postgresParticipationRepository) ListActiveByUser(ctx context.Context, userID string) ([]models.Participation, error) {
	query := participationWithCompetitionSQL + `
		AND p.status IN ($2, $3, $4)
		ORDER BY p.created_at DESC`
	return r.listByUser(ctx, query, userID,
		models.ParticipationPending, models.ParticipationSubmitted, models.ParticipationReviewing)
}

func (r *postgresParticipationRepository) ListPastByUser(ctx context.Context, userID string) ([]models.Participation, error) {
	query := participationWithCompetitionSQL + `
		AND p.status = $2
		ORDER BY p.created_at DESC`
	return r.listByUser(ctx, query, userID, models.ParticipationCompleted)
}

func (r *postgresParticipationRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM participations WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}
