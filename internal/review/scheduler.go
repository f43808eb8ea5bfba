package review

import (
	"math"
	"time"

	"orphancare-learning/internal/models"
)

const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	// PassQuality is the lowest quality counted as a successful recall.
	PassQuality = 3
	MaxQuality  = 5
	// MaxInterval keeps nextReviewDate within four-digit years.
	MaxInterval = 36500
)

// ScoreToQuality maps a quiz percentage onto the SM-2 quality scale 0..5 as
// round(score/20). math.Round rounds halves away from zero, so the boundary
// scores 10, 30, 50, 70 and 90 map to 1, 2, 3, 4 and 5.
func ScoreToQuality(scorePercent float64) int {
	if math.IsNaN(scorePercent) {
		return 0
	}
	q := math.Round(scorePercent / 20)
	if q < 0 {
		return 0
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return int(q)
}

// NewSchedule is the record synthesized for a lesson that has never been reviewed.
func NewSchedule(lessonID string, now time.Time) models.LessonSchedule {
	return models.LessonSchedule{
		LessonID:       lessonID,
		EF:             DefaultEaseFactor,
		Interval:       1,
		Repetitions:    0,
		NextReviewDate: now,
	}
}

// Update applies one review to prev and returns the new record. prev may be
// nil. A failing quality resets repetitions and interval but leaves EF alone.
func Update(prev *models.LessonSchedule, scorePercent float64, lessonID string, now time.Time) models.LessonSchedule {
	q := ScoreToQuality(scorePercent)

	s := NewSchedule(lessonID, now)
	if prev != nil {
		s.EF = prev.EF
		s.Interval = prev.Interval
		s.Repetitions = prev.Repetitions
	}
	if math.IsNaN(s.EF) || math.IsInf(s.EF, 0) {
		s.EF = DefaultEaseFactor
	}
	if s.EF < MinEaseFactor {
		s.EF = MinEaseFactor
	}
	if s.Interval < 1 {
		s.Interval = 1
	}
	if s.Interval > MaxInterval {
		s.Interval = MaxInterval
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}

	if q < PassQuality {
		s.Repetitions = 0
		s.Interval = 1
	} else {
		s.Repetitions++
		switch s.Repetitions {
		case 1:
			s.Interval = 1
		case 2:
			s.Interval = 6
		default:
			s.Interval = nextInterval(s.Interval, s.EF)
		}

		d := float64(MaxQuality - q)
		s.EF = s.EF + (0.1 - d*(0.08+d*0.02))
		if s.EF < MinEaseFactor {
			s.EF = MinEaseFactor
		}
	}

	s.NextReviewDate = now.AddDate(0, 0, s.Interval)
	return s
}

// nextInterval is round(interval * ef) capped at MaxInterval before the
// float is converted back to int.
func nextInterval(interval int, ef float64) int {
	next := math.Round(float64(interval) * ef)
	if math.IsNaN(next) || next > MaxInterval {
		return MaxInterval
	}
	if next < 1 {
		return 1
	}
	return int(next)
}

// Scheduler applies Update against an injected clock.
type Scheduler struct {
	now func() time.Time
}

func NewScheduler(now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{now: now}
}

func (s *Scheduler) Now() time.Time {
	return s.now()
}

func (s *Scheduler) Update(prev *models.LessonSchedule, scorePercent float64, lessonID string) models.LessonSchedule {
	return Update(prev, scorePercent, lessonID, s.now())
}
