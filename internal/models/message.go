package models

import "time"

// WebSocket message types
const (
	MessageScheduleUpdated = "schedule_updated"
	MessageLessonProgress  = "lesson_progress"
	MessageLessonCompleted = "lesson_completed"
	MessageReviewsDue      = "reviews_due"
	MessageError           = "error"
)

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type ReviewsDuePayload struct {
	Count   int         `json:"count"`
	Lessons []DueLesson `json:"lessons"`
	SentAt  time.Time   `json:"sent_at"`
}

// WatchFrame is a client -> server frame on the watch stream.
type WatchFrame struct {
	Type  string  `json:"type"` // "duration" | "sample"
	Value float64 `json:"value"`
}

// API Error response
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
