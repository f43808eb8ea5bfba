package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// LessonSchedule is the spaced-repetition state of one lesson. The JSON shape
// matches the lessonSchedules blob the web client keeps in local storage.
type LessonSchedule struct {
	LessonID       string    `json:"lessonId"`
	EF             float64   `json:"EF"`
	Interval       int       `json:"interval"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"nextReviewDate"`
}

// Scheduled reports whether the record carries a next review instant.
func (s LessonSchedule) Scheduled() bool {
	return !s.NextReviewDate.IsZero()
}

type lessonScheduleJSON struct {
	LessonID       string  `json:"lessonId"`
	EF             float64 `json:"EF"`
	Interval       int     `json:"interval"`
	Repetitions    int     `json:"repetitions"`
	NextReviewDate string  `json:"nextReviewDate"`
}

func (s LessonSchedule) MarshalJSON() ([]byte, error) {
	out := lessonScheduleJSON{
		LessonID:    s.LessonID,
		EF:          s.EF,
		Interval:    s.Interval,
		Repetitions: s.Repetitions,
	}
	if !s.NextReviewDate.IsZero() {
		out.NextReviewDate = s.NextReviewDate.Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts an empty or missing nextReviewDate as "not scheduled"
// and rejects a malformed one.
func (s *LessonSchedule) UnmarshalJSON(data []byte) error {
	var in lessonScheduleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var next time.Time
	if in.NextReviewDate != "" {
		t, err := time.Parse(time.RFC3339Nano, in.NextReviewDate)
		if err != nil {
			return fmt.Errorf("invalid nextReviewDate %q: %w", in.NextReviewDate, err)
		}
		next = t
	}

	*s = LessonSchedule{
		LessonID:       in.LessonID,
		EF:             in.EF,
		Interval:       in.Interval,
		Repetitions:    in.Repetitions,
		NextReviewDate: next,
	}
	return nil
}

// ParseScheduleBlob decodes a lessonId -> record mapping. A blob that is not a
// JSON object yields an empty map and entries that fail to decode are dropped,
// so callers fall back to a fresh schedule for them.
func ParseScheduleBlob(raw []byte) map[string]LessonSchedule {
	out := make(map[string]LessonSchedule)

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return out
	}

	for key, entry := range entries {
		var s LessonSchedule
		if err := json.Unmarshal(entry, &s); err != nil {
			continue
		}
		if s.LessonID == "" {
			s.LessonID = key
		}
		out[key] = s
	}
	return out
}

type DueLesson struct {
	LessonID       string    `json:"lesson_id"`
	NextReviewDate time.Time `json:"next_review_date"`
	Urgency        Urgency   `json:"urgency"`
}

type UrgencyLevel string

const (
	UrgencyUnscheduled UrgencyLevel = "unscheduled"
	UrgencyDue         UrgencyLevel = "due"
	UrgencySoon        UrgencyLevel = "soon"
	UrgencyLater       UrgencyLevel = "later"
)

type Urgency struct {
	Level    UrgencyLevel `json:"level"`
	Label    string       `json:"label"`
	DaysLeft int          `json:"days_left"`
}

type SubmitQuizRequest struct {
	ScorePercent *float64       `json:"score_percent"`
	Answers      map[string]int `json:"answers"`
}

type QuizResult struct {
	LessonID     string         `json:"lesson_id"`
	ScorePercent float64        `json:"score_percent"`
	Quality      int            `json:"quality"`
	Passed       bool           `json:"passed"`
	Message      string         `json:"message"`
	Schedule     LessonSchedule `json:"schedule"`
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Kept     int      `json:"kept"`
	Skipped  []string `json:"skipped"`
}
