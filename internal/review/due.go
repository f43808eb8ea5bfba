package review

import (
	"fmt"
	"math"
	"sort"
	"time"

	"orphancare-learning/internal/models"
)

// Due returns the lessons whose next review instant is at or before now,
// earliest first. Unscheduled records are never due.
func Due(schedules map[string]models.LessonSchedule, now time.Time) []models.DueLesson {
	due := make([]models.DueLesson, 0)
	for key, s := range schedules {
		if !s.Scheduled() || s.NextReviewDate.After(now) {
			continue
		}
		id := s.LessonID
		if id == "" {
			id = key
		}
		due = append(due, models.DueLesson{
			LessonID:       id,
			NextReviewDate: s.NextReviewDate,
			Urgency:        UrgencyOf(s.NextReviewDate, now),
		})
	}

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewDate.Equal(due[j].NextReviewDate) {
			return due[i].NextReviewDate.Before(due[j].NextReviewDate)
		}
		return due[i].LessonID < due[j].LessonID
	})
	return due
}

// UrgencyOf buckets a next review instant by whole days remaining, rounded up.
func UrgencyOf(next, now time.Time) models.Urgency {
	if next.IsZero() {
		return models.Urgency{Level: models.UrgencyUnscheduled, Label: "Not scheduled"}
	}

	days := int(math.Ceil(next.Sub(now).Hours() / 24))
	switch {
	case days <= 0:
		return models.Urgency{Level: models.UrgencyDue, Label: "Due today", DaysLeft: days}
	case days <= 3:
		return models.Urgency{Level: models.UrgencySoon, Label: fmt.Sprintf("In %dd", days), DaysLeft: days}
	default:
		return models.Urgency{Level: models.UrgencyLater, Label: fmt.Sprintf("In %dd", days), DaysLeft: days}
	}
}
