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
	ErrCompetitionNotFound       = errors.New("competition not found")
	ErrCompetitionTitleConflict  = errors.New("competition title already exists")
	ErrCompetitionAlreadyDecided = errors.New("competition winner already decided")
	ErrCompetitionInUse          = errors.New("competition is referenced by participations or submissions")
)

type ListCompetitionsFilter struct {
	Status *models.CompetitionStatus
	Limit  int
	Offset int
}

type CompetitionRepository interface {
	Create(ctx context.Context, c *models.Competition) error
	GetByID(ctx context.Context, id int) (*models.Competition, error)
	List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error)
	Update(ctx context.Context, c *models.Competition) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error
	UpdateImageKey(ctx context.Context, id int, imageKey *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)

	// DecideWinner atomically records the winning submission and completes
	// the competition, guarded by winner_id IS NULL so a second call cannot
	// overwrite the first.
	DecideWinner(ctx context.Context, exec SQLExecutor, competitionID, submissionID int) error

	// ListAwaitingWinner returns competitions past deadline with no winner.
	ListAwaitingWinner(ctx context.Context) ([]models.Competition, error)

	// RepairCompletedStatuses fixes rows where a winner is recorded but the
	// status never reached completed. Returns the number of rows touched.
	RepairCompletedStatuses(ctx context.Context) (int, error)
}

type postgresCompetitionRepository struct {
	db *sql.DB
}

func NewPostgresCompetitionRepository(db *sql.DB) CompetitionRepository {
	return &postgresCompetitionRepository{db: db}
}

func (r *postgresCompetitionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const competitionColumns = `
	id, title, short_description, description, category, type,
	entry_requirements, prize, deadline, status, winner_id, image_key,
	created_at, updated_at`

func scanCompetition(row interface{ Scan(...interface{}) error }, c *models.Competition) error {
	return row.Scan(
		&c.ID, &c.Title, &c.ShortDescription, &c.Description, &c.Category, &c.Type,
		&c.EntryRequirements, &c.Prize, &c.Deadline, &c.Status, &c.WinnerID, &c.ImageKey,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

func (r *postgresCompetitionRepository) Create(ctx context.Context, c *models.Competition) error {
	query := `
		INSERT INTO competitions (
			title, short_description, description, category, type,
			entry_requirements, prize, deadline, status, image_key
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		c.Title, c.ShortDescription, c.Description, c.Category, c.Type,
		c.EntryRequirements, c.Prize, c.Deadline, c.Status, c.ImageKey,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	return r.handleCompetitionError(err)
}

func (r *postgresCompetitionRepository) GetByID(ctx context.Context, id int) (*models.Competition, error) {
	query := `SELECT` + competitionColumns + ` FROM competitions WHERE id = $1`

	c := &models.Competition{}
	err := scanCompetition(r.db.QueryRowContext(ctx, query, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCompetitionNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresCompetitionRepository) List(ctx context.Context, filter ListCompetitionsFilter) ([]models.Competition, error) {
	query := `SELECT` + competitionColumns + ` FROM competitions WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY deadline ASC, created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	competitions := make([]models.Competition, 0)
	for rows.Next() {
		var c models.Competition
		if scanErr := scanCompetition(rows, &c); scanErr != nil {
			return nil, scanErr
		}
		competitions = append(competitions, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) Update(ctx context.Context, c *models.Competition) error {
	// winner_id and image_key are updated by their dedicated methods.
	query := `
		UPDATE competitions SET
			title = $1,
			short_description = $2,
			description = $3,
			category = $4,
			type = $5,
			entry_requirements = $6,
			prize = $7,
			deadline = $8,
			status = $9,
			updated_at = now()
		WHERE id = $10`

	result, err := r.db.ExecContext(ctx, query,
		c.Title, c.ShortDescription, c.Description, c.Category, c.Type,
		c.EntryRequirements, c.Prize, c.Deadline, c.Status,
		c.ID,
	)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.CompetitionStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE competitions SET status = $1, updated_at = now() WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	query := `UPDATE competitions SET image_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, imageKey, id)
	if err != nil {
		return fmt.Errorf("failed to update competition image key: %w", err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM competitions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	return checkAffectedRows(result, ErrCompetitionNotFound)
}

func (r *postgresCompetitionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM competitions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count competitions: %w", err)
	}
	return count, nil
}

func (r *postgresCompetitionRepository) DecideWinner(ctx context.Context, exec SQLExecutor, competitionID, submissionID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE competitions
		SET winner_id = $1, status = $2, updated_at = now()
		WHERE id = $3 AND winner_id IS NULL`

	result, err := executor.ExecContext(ctx, query, submissionID, models.CompetitionCompleted, competitionID)
	if err != nil {
		return r.handleCompetitionError(err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Distinguish a decided competition from a missing one.
		var exists bool
		if err := executor.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM competitions WHERE id = $1)`, competitionID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check competition existence: %w", err)
		}
		if exists {
			return ErrCompetitionAlreadyDecided
		}
		return ErrCompetitionNotFound
	}
	return nil
}

func (r *postgresCompetitionRepository) ListAwaitingWinner(ctx context.Context) ([]models.Competition, error) {
	query := `SELECT` + competitionColumns + `
		FROM competitions
		WHERE deadline < now() AND winner_id IS NULL AND status != $1
		ORDER BY deadline DESC`

	rows, err := r.db.QueryContext(ctx, query, models.CompetitionArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list competitions awaiting winner: %w", err)
	}
	defer rows.Close()

	competitions := make([]models.Competition, 0)
	for rows.Next() {
		var c models.Competition
		if scanErr := scanCompetition(rows, &c); scanErr != nil {
			return nil, scanErr
		}
		competitions = append(competitions, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return competitions, nil
}

func (r *postgresCompetitionRepository) RepairCompletedStatuses(ctx context.Context) (int, error) {
	query := `
		UPDATE competitions
		SET status = $1, updated_at = now()
		WHERE winner_id IS NOT NULL AND status != $1`

	result, err := r.db.ExecContext(ctx, query, models.CompetitionCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to repair competition statuses: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return int(affected), nil
}

func (r *postgresCompetitionRepository) handleCompetitionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "competitions_title_key" {
				return ErrCompetitionTitleConflict
			}
		case "23503":
			// FK violations from participations/submissions/saved rows mean
			// the competition is still referenced.
			return ErrCompetitionInUse
		}
	}
	return err
}
