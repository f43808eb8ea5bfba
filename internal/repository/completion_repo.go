package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"orphancare-learning/internal/models"
)

type CompletionRepo struct {
	pool *pgxpool.Pool
}

func NewCompletionRepo(pool *pgxpool.Pool) *CompletionRepo {
	return &CompletionRepo{pool: pool}
}

// Record stores the first completion of a lesson. It reports false when the
// lesson was already completed by this user.
func (r *CompletionRepo) Record(ctx context.Context, c *models.LessonCompletion) (bool, error) {
	query := `INSERT INTO lesson_completions (user_id, lesson_id, roadmap_id, percent, completed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, c.UserID.String(), c.LessonID, c.RoadmapID, c.Percent, c.CompletedAt)
	if err != nil {
		return false, fmt.Errorf("record completion %s: %w", c.LessonID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CompletionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.LessonCompletion, error) {
	query := `SELECT lesson_id, roadmap_id, percent, completed_at
		FROM lesson_completions WHERE user_id = $1 ORDER BY completed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	defer rows.Close()

	completions := make([]*models.LessonCompletion, 0)
	for rows.Next() {
		c := &models.LessonCompletion{UserID: userID}
		if err := rows.Scan(&c.LessonID, &c.RoadmapID, &c.Percent, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
