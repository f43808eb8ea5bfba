package models

import (
	"time"

	"github.com/google/uuid"
)

type WatchSession struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	LessonID     string    `json:"lesson_id"`
	RoadmapID    string    `json:"roadmap_id,omitempty"`
	VideoID      string    `json:"video_id,omitempty"`
	Threshold    int       `json:"threshold"`
	Duration     float64   `json:"duration"`
	Percent      int       `json:"percent"`
	State        string    `json:"state"` // "idle" | "tracking" | "completed"
	Completed    bool      `json:"completed"`
	StartedAt    time.Time `json:"started_at"`
	LastSampleAt time.Time `json:"last_sample_at"`
}

type StartWatchRequest struct {
	LessonID  string  `json:"lesson_id"`
	RoadmapID string  `json:"roadmap_id"`
	VideoID   string  `json:"video_id"`
	Duration  float64 `json:"duration"`
	Threshold int     `json:"threshold"`
}

type WatchProgress struct {
	SessionID     uuid.UUID `json:"session_id"`
	LessonID      string    `json:"lesson_id"`
	Percent       int       `json:"percent"`
	Completed     bool      `json:"completed"`
	JustCompleted bool      `json:"just_completed"`
}

type LessonCompletion struct {
	UserID      uuid.UUID `json:"user_id"`
	LessonID    string    `json:"lesson_id"`
	RoadmapID   string    `json:"roadmap_id,omitempty"`
	Percent     int       `json:"percent"`
	CompletedAt time.Time `json:"completed_at"`
}

// CompletionJob is queued when a watch session crosses its threshold.
type CompletionJob struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	LessonID    string    `json:"lesson_id"`
	RoadmapID   string    `json:"roadmap_id,omitempty"`
	Percent     int       `json:"percent"`
	CompletedAt time.Time `json:"completed_at"`
	RetryCount  int       `json:"retry_count"`
}
