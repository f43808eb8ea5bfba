package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"orphancare-learning/internal/models"
)

type PostgresScheduleStore struct {
	pool *pgxpool.Pool
}

func NewPostgresScheduleStore(pool *pgxpool.Pool) *PostgresScheduleStore {
	return &PostgresScheduleStore{pool: pool}
}

func scanSchedule(row pgx.Row) (models.LessonSchedule, error) {
	var s models.LessonSchedule
	var next *time.Time
	if err := row.Scan(&s.LessonID, &s.EF, &s.Interval, &s.Repetitions, &next); err != nil {
		return s, err
	}
	if next != nil {
		s.NextReviewDate = next.UTC()
	}
	return s, nil
}

func (r *PostgresScheduleStore) Get(ctx context.Context, userID uuid.UUID, lessonID string) (*models.LessonSchedule, error) {
	query := `SELECT lesson_id, ease_factor, interval_days, repetitions, next_review_date
		FROM lesson_schedules WHERE user_id = $1 AND lesson_id = $2`

	s, err := scanSchedule(r.pool.QueryRow(ctx, query, userID.String(), lessonID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", lessonID, err)
	}
	return &s, nil
}

func (r *PostgresScheduleStore) All(ctx context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error) {
	query := `SELECT lesson_id, ease_factor, interval_days, repetitions, next_review_date
		FROM lesson_schedules WHERE user_id = $1`

	rows, err := r.pool.Query(ctx, query, userID.String())
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	out := make(map[string]models.LessonSchedule)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out[s.LessonID] = s
	}
	return out, rows.Err()
}

func (r *PostgresScheduleStore) Put(ctx context.Context, userID uuid.UUID, s models.LessonSchedule) error {
	var next *time.Time
	if s.Scheduled() {
		next = &s.NextReviewDate
	}

	query := `INSERT INTO lesson_schedules (user_id, lesson_id, ease_factor, interval_days, repetitions, next_review_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (user_id, lesson_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			next_review_date = EXCLUDED.next_review_date,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, userID.String(), s.LessonID, s.EF, s.Interval, s.Repetitions, next); err != nil {
		return fmt.Errorf("put schedule %s: %w", s.LessonID, err)
	}
	return nil
}

func (r *PostgresScheduleStore) Users(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT user_id FROM lesson_schedules")
	if err != nil {
		return nil, fmt.Errorf("list schedule users: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		if id, err := uuid.Parse(raw); err == nil {
			out = append(out, id)
		}
	}
	return out, rows.Err()
}
