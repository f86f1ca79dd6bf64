package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/contestly/competition-hub/models"
)

var ErrUserAchievementNotFound = errors.New("user achievement not found")

type AchievementRepository interface {
	FindByUserAndAchievement(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error)
	Create(ctx context.Context, ua *models.UserAchievement) error
	UpdateProgress(ctx context.Context, id, progress int, unlocked bool, unlockedAt *time.Time) error
	ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error)
}

type postgresAchievementRepository struct {
	db *sql.DB
}

func NewPostgresAchievementRepository(db *sql.DB) AchievementRepository {
	return &postgresAchievementRepository{db: db}
}

func (r *postgresAchievementRepository) FindByUserAndAchievement(ctx context.Context, userID, achievementID string) (*models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, progress, unlocked, unlocked_at, updated_at
		FROM user_achievements
		WHERE user_id = $1 AND achievement_id = $2`

	ua := &models.UserAchievement{}
	err := r.db.QueryRowContext(ctx, query, userID, achievementID).Scan(
		&ua.ID, &ua.UserID, &ua.AchievementID, &ua.Progress, &ua.Unlocked, &ua.UnlockedAt, &ua.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserAchievementNotFound
		}
		return nil, fmt.Errorf("failed to find user achievement: %w", err)
	}
	return ua, nil
}

func (r *postgresAchievementRepository) Create(ctx context.Context, ua *models.UserAchievement) error {
	query := `
		INSERT INTO user_achievements (user_id, achievement_id, progress, unlocked, unlocked_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		ua.UserID, ua.AchievementID, ua.Progress, ua.Unlocked, ua.UnlockedAt,
	).Scan(&ua.ID, &ua.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user achievement: %w", err)
	}
	return nil
}

func (r *postgresAchievementRepository) UpdateProgress(ctx context.Context, id, progress int, unlocked bool, unlockedAt *time.Time) error {
	query := `
		UPDATE user_achievements
		SET progress = $1, unlocked = $2, unlocked_at = $3, updated_at = now()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, progress, unlocked, unlockedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update user achievement: %w", err)
	}
	return checkAffectedRows(result, ErrUserAchievementNotFound)
}

func (r *postgresAchievementRepository) ListByUser(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	query := `
		SELECT id, user_id, achievement_id, progress, unlocked, unlocked_at, updated_at
		FROM user_achievements
		WHERE user_id = $1
		ORDER BY achievement_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user achievements: %w", err)
	}
	defer rows.Close()

	achievements := make([]models.UserAchievement, 0)
	for rows.Next() {
		var ua models.UserAchievement
		if err := rows.Scan(
			&ua.ID, &ua.UserID, &ua.AchievementID, &ua.Progress, &ua.Unlocked, &ua.UnlockedAt, &ua.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user achievement row: %w", err)
		}
		achievements = append(achievements, ua)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user achievement rows: %w", err)
	}
	return achievements, nil
}
