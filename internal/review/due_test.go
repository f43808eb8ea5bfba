package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orphancare-learning/internal/models"
)

func TestDue_SelectsOverdueOnly(t *testing.T) {
	schedules := map[string]models.LessonSchedule{
		"A": {LessonID: "A", NextReviewDate: testNow.AddDate(0, 0, -1)},
		"B": {LessonID: "B", NextReviewDate: testNow.AddDate(0, 0, 1)},
		"C": {LessonID: "C"},
	}

	due := Due(schedules, testNow)

	require.Len(t, due, 1)
	assert.Equal(t, "A", due[0].LessonID)
	assert.Equal(t, models.UrgencyDue, due[0].Urgency.Level)
}

func TestDue_IncludesExactlyNow(t *testing.T) {
	due := Due(map[string]models.LessonSchedule{"A": {LessonID: "A", NextReviewDate: testNow}}, testNow)
	assert.Len(t, due, 1)
}

func TestDue_SortedByNextReviewDate(t *testing.T) {
	schedules := map[string]models.LessonSchedule{
		"css":  {LessonID: "css", NextReviewDate: testNow.Add(-time.Hour)},
		"html": {LessonID: "html", NextReviewDate: testNow.AddDate(0, 0, -3)},
		"js":   {LessonID: "js", NextReviewDate: testNow.Add(-time.Hour)},
		"apt":  {LessonID: "apt", NextReviewDate: testNow.AddDate(0, 0, -1)},
	}

	due := Due(schedules, testNow)

	var ids []string
	for _, d := range due {
		ids = append(ids, d.LessonID)
	}
	assert.Equal(t, []string{"html", "apt", "css", "js"}, ids)
}

func TestDue_EmptyMap(t *testing.T) {
	assert.Empty(t, Due(nil, testNow))
	assert.Empty(t, Due(map[string]models.LessonSchedule{}, testNow))
}

func TestDue_FallsBackToMapKey(t *testing.T) {
	due := Due(map[string]models.LessonSchedule{"eng": {NextReviewDate: testNow}}, testNow)
	require.Len(t, due, 1)
	assert.Equal(t, "eng", due[0].LessonID)
}

func TestUrgencyOf(t *testing.T) {
	tests := []struct {
		name  string
		next  time.Time
		level models.UrgencyLevel
		label string
	}{
		{"unscheduled", time.Time{}, models.UrgencyUnscheduled, "Not scheduled"},
		{"overdue", testNow.AddDate(0, 0, -2), models.UrgencyDue, "Due today"},
		{"later today rounds to zero", testNow.Add(-time.Hour), models.UrgencyDue, "Due today"},
		{"partial day rounds up", testNow.Add(36 * time.Hour), models.UrgencySoon, "In 2d"},
		{"three days", testNow.AddDate(0, 0, 3), models.UrgencySoon, "In 3d"},
		{"five days", testNow.AddDate(0, 0, 5), models.UrgencyLater, "In 5d"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := UrgencyOf(tc.next, testNow)
			assert.Equal(t, tc.level, u.Level)
			assert.Equal(t, tc.label, u.Label)
		})
	}
}

func TestQuizScore(t *testing.T) {
	questions := []models.MCQ{
		{ID: "q1", AnswerIndex: 0},
		{ID: "q2", AnswerIndex: 1},
		{ID: "q3", AnswerIndex: 2},
	}

	assert.Equal(t, 100.0, QuizScore(questions, map[string]int{"q1": 0, "q2": 1, "q3": 2}))
	assert.Equal(t, 67.0, QuizScore(questions, map[string]int{"q1": 0, "q2": 1, "q3": 0}))
	assert.Equal(t, 0.0, QuizScore(questions, nil))
	assert.Equal(t, 0.0, QuizScore(nil, map[string]int{"q1": 0}))
}

func TestPassMessage(t *testing.T) {
	assert.Contains(t, PassMessage(60), "proceed")
	assert.Contains(t, PassMessage(59), "review")
}
