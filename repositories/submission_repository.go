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
	ErrSubmissionNotFound           = errors.New("submission not found")
	ErrSubmissionConflict           = errors.New("user already submitted to this competition")
	ErrSubmissionCompetitionInvalid = errors.New("submission references an unknown competition")
	ErrSubmissionUserInvalid        = errors.New("submission references an unknown user")
)

type SubmissionRepository interface {
	Create(ctx context.Context, s *models.Submission) error
	FindByID(ctx context.Context, id int) (*models.Submission, error)
	// UpdateStatusFromPending transitions status only when the row is still
	// pending; returns ErrSubmissionNotFound when no pending row matches so
	// the caller can distinguish "absent" from "already moderated".
	UpdateStatusFromPending(ctx context.Context, id int, status models.SubmissionStatus) error
	ListByCompetitionAndStatus(ctx context.Context, competitionID int, status models.SubmissionStatus) ([]models.Submission, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) Create(ctx context.Context, s *models.Submission) error {
	query := `
		INSERT INTO submissions (competition_id, user_id, content, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.CompetitionID, s.UserID, s.Content, s.Status,
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "submissions_user_id_competition_id_key" {
					return ErrSubmissionConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "submissions_competition_id_fkey":
					return ErrSubmissionCompetitionInvalid
				case "submissions_user_id_fkey":
					return ErrSubmissionUserInvalid
				}
			}
		}
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *postgresSubmissionRepository) FindByID(ctx context.Context, id int) (*models.Submission, error) {
	query := `
		SELECT id, competition_id, user_id, content, status, created_at
		FROM submissions WHERE id = $1`

	s := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.CompetitionID, &s.UserID, &s.Content, &s.Status, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to find submission: %w", err)
	}
	return s, nil
}

func (r *postgresSubmissionRepository) UpdateStatusFromPending(ctx context.Context, id int, status models.SubmissionStatus) error {
	query := `UPDATE submissions SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, status, id, models.SubmissionPending)
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	return checkAffectedRows(result, ErrSubmissionNotFound)
}

func (r *postgresSubmissionRepository) ListByCompetitionAndStatus(ctx context.Context, competitionID int, status models.SubmissionStatus) ([]models.Submission, error) {
	query := `
		SELECT
			s.id, s.competition_id, s.user_id, s.content, s.status, s.created_at,
			u.email, u.display_name
		FROM submissions s
		LEFT JOIN users u ON s.user_id = u.id
		WHERE s.competition_id = $1 AND s.status = $2
		ORDER BY s.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, competitionID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	submissions := make([]models.Submission, 0)
	for rows.Next() {
		var s models.Submission
		if err := rows.Scan(
			&s.ID, &s.CompetitionID, &s.UserID, &s.Content, &s.Status, &s.CreatedAt,
			&s.UserEmail, &s.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submission rows: %w", err)
	}
	return submissions, nil
}
