package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/repository"
	"orphancare-learning/internal/review"
)

type ReviewService struct {
	store     repository.ScheduleStore
	catalog   *catalog.Catalog
	scheduler *review.Scheduler
	publisher Publisher
	log       *logger.Logger
}

func NewReviewService(store repository.ScheduleStore, cat *catalog.Catalog, scheduler *review.Scheduler, publisher Publisher, log *logger.Logger) *ReviewService {
	return &ReviewService{
		store:     store,
		catalog:   cat,
		scheduler: scheduler,
		publisher: publisher,
		log:       log,
	}
}

// SubmitQuiz folds one quiz score into the lesson's schedule and persists it.
func (s *ReviewService) SubmitQuiz(ctx context.Context, userID uuid.UUID, lessonID string, scorePercent float64) (*models.QuizResult, error) {
	if !s.catalog.HasLesson(lessonID) {
		return nil, &NotFoundError{Message: "Lesson not found"}
	}
	scorePercent = clampScore(scorePercent)

	prev, err := s.store.Get(ctx, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	next := s.scheduler.Update(prev, scorePercent, lessonID)
	if err := s.store.Put(ctx, userID, next); err != nil {
		return nil, fmt.Errorf("save schedule: %w", err)
	}

	q := review.ScoreToQuality(scorePercent)
	result := &models.QuizResult{
		LessonID:     lessonID,
		ScorePercent: scorePercent,
		Quality:      q,
		Passed:       q >= review.PassQuality,
		Message:      review.PassMessage(scorePercent),
		Schedule:     next,
	}

	s.log.Info("schedule updated",
		"user", userID.String(),
		"lesson_id", lessonID,
		"quality", q,
		"interval", next.Interval,
		"ef", next.EF,
	)
	s.publisher.Publish(ctx, userID, models.WSMessage{Type: models.MessageScheduleUpdated, Payload: result})

	return result, nil
}

// SubmitAnswers grades answers against the lesson's question bank first.
func (s *ReviewService) SubmitAnswers(ctx context.Context, userID uuid.UUID, lessonID string, answers map[string]int) (*models.QuizResult, error) {
	questions, ok := s.catalog.Quiz(lessonID)
	if !ok {
		return nil, &NotFoundError{Message: "Quiz not found for this lesson"}
	}
	return s.SubmitQuiz(ctx, userID, lessonID, review.QuizScore(questions, answers))
}

// ReviewNow records a perfect review.
func (s *ReviewService) ReviewNow(ctx context.Context, userID uuid.UUID, lessonID string) (*models.QuizResult, error) {
	return s.SubmitQuiz(ctx, userID, lessonID, 100)
}

func (s *ReviewService) Quiz(lessonID string) ([]models.PublicMCQ, error) {
	questions, ok := s.catalog.Quiz(lessonID)
	if !ok {
		return nil, &NotFoundError{Message: "Quiz not found for this lesson"}
	}
	public := make([]models.PublicMCQ, 0, len(questions))
	for _, q := range questions {
		public = append(public, q.Public())
	}
	return public, nil
}

func (s *ReviewService) Schedules(ctx context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error) {
	all, err := s.store.All(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	return all, nil
}

func (s *ReviewService) Due(ctx context.Context, userID uuid.UUID) ([]models.DueLesson, error) {
	all, err := s.Schedules(ctx, userID)
	if err != nil {
		return nil, err
	}
	return review.Due(all, s.scheduler.Now()), nil
}

// Import merges a browser lessonSchedules blob into the stored schedules.
// A stored record is kept unless the imported one reviews later; entries
// for unknown lessons are skipped.
func (s *ReviewService) Import(ctx context.Context, userID uuid.UUID, blob []byte) (*models.ImportResult, error) {
	incoming := models.ParseScheduleBlob(blob)

	keys := make([]string, 0, len(incoming))
	for k := range incoming {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &models.ImportResult{Skipped: make([]string, 0)}
	for _, key := range keys {
		rec, ok := repairSchedule(incoming[key])
		if !ok || !s.catalog.HasLesson(rec.LessonID) {
			result.Skipped = append(result.Skipped, key)
			continue
		}

		existing, err := s.store.Get(ctx, userID, rec.LessonID)
		if err != nil {
			return nil, fmt.Errorf("load schedule %s: %w", rec.LessonID, err)
		}
		if existing != nil && !rec.NextReviewDate.After(existing.NextReviewDate) {
			result.Kept++
			continue
		}

		if err := s.store.Put(ctx, userID, rec); err != nil {
			return nil, fmt.Errorf("save schedule %s: %w", rec.LessonID, err)
		}
		result.Imported++
	}

	if result.Imported > 0 {
		s.log.Info("schedules imported", "user", userID.String(), "imported", result.Imported, "kept", result.Kept)
		s.publisher.Publish(ctx, userID, models.WSMessage{Type: models.MessageScheduleUpdated, Payload: result})
	}
	return result, nil
}

// clampScore pins a score into 0..100; NaN counts as 0.
func clampScore(score float64) float64 {
	switch {
	case math.IsNaN(score), score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

// repairSchedule pulls client-supplied values back into the valid ranges.
// A record with a non-finite ease factor cannot be repaired.
func repairSchedule(rec models.LessonSchedule) (models.LessonSchedule, bool) {
	if math.IsNaN(rec.EF) || math.IsInf(rec.EF, 0) {
		return rec, false
	}
	if rec.EF < review.MinEaseFactor {
		rec.EF = review.MinEaseFactor
	}
	if rec.Interval < 1 {
		rec.Interval = 1
	}
	if rec.Interval > review.MaxInterval {
		rec.Interval = review.MaxInterval
	}
	if rec.Repetitions < 0 {
		rec.Repetitions = 0
	}
	return rec, true
}
