package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/services"
)

type ReviewHandler struct {
	reviews *services.ReviewService
	log     *logger.Logger
}

func NewReviewHandler(reviews *services.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

// SubmitQuiz accepts either a precomputed score_percent or the raw answers.
func (h *ReviewHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	lessonID := chi.URLParam(r, "id")

	var (
		result *models.QuizResult
		err    error
	)
	switch {
	case req.ScorePercent != nil:
		result, err = h.reviews.SubmitQuiz(r.Context(), userID, lessonID, *req.ScorePercent)
	case req.Answers != nil:
		result, err = h.reviews.SubmitAnswers(r.Context(), userID, lessonID, req.Answers)
	default:
		err = &services.ValidationError{Fields: map[string]string{"score_percent": "Provide score_percent or answers"}}
	}
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ReviewHandler) ReviewNow(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	result, err := h.reviews.ReviewNow(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Schedules returns the stored records in the client's lessonSchedules shape.
func (h *ReviewHandler) Schedules(w http.ResponseWriter, r *http.Request) {
	all, err := h.reviews.Schedules(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lessonSchedules": all})
}

func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	due, err := h.reviews.Due(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(due),
		"lessons": due,
	})
}

// Import takes the raw lessonSchedules object from the browser.
func (h *ReviewHandler) Import(w http.ResponseWriter, r *http.Request) {
	blob, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result, err := h.reviews.Import(r.Context(), middleware.GetUserID(r.Context()), blob)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
