package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/models"
)

type completionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.LessonCompletion, error)
}

type CompletionHandler struct {
	completions completionLister
	log         *logger.Logger
}

func NewCompletionHandler(completions completionLister, log *logger.Logger) *CompletionHandler {
	return &CompletionHandler{completions: completions, log: log}
}

func (h *CompletionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.completions.ListByUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"completions": list})
}
