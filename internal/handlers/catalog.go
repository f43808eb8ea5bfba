package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/services"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	reviews *services.ReviewService
	log     *logger.Logger
}

func NewCatalogHandler(cat *catalog.Catalog, reviews *services.ReviewService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: cat, reviews: reviews, log: log}
}

func (h *CatalogHandler) Roadmaps(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"roadmaps": h.catalog.Roadmaps()})
}

func (h *CatalogHandler) Videos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"categories": h.catalog.Videos()})
}

// Quiz returns the lesson's questions without their answers.
func (h *CatalogHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "id")
	questions, err := h.reviews.Quiz(lessonID)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lesson_id": lessonID,
		"questions": questions,
	})
}
