package handlers

import (
	"net/http"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/services"
)

type WatchHandler struct {
	watch *services.WatchService
	log   *logger.Logger
}

func NewWatchHandler(watch *services.WatchService, log *logger.Logger) *WatchHandler {
	return &WatchHandler{watch: watch, log: log}
}

func (h *WatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.StartWatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.watch.Start(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *WatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	session, err := h.watch.Get(middleware.GetUserID(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *WatchHandler) SetDuration(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Duration float64 `json:"duration"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.watch.SetDuration(middleware.GetUserID(r.Context()), id, req.Duration)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Sample takes one position or a batch, applied in order. A batch is
// applied only when every position in it is valid.
func (h *WatchHandler) Sample(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Position  *float64  `json:"position"`
		Positions []float64 `json:"positions"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	positions := req.Positions
	if req.Position != nil {
		positions = append(positions, *req.Position)
	}
	if len(positions) == 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"position": "Required"}, r))
		return
	}

	progress, err := h.watch.SampleBatch(r.Context(), middleware.GetUserID(r.Context()), id, positions)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *WatchHandler) Stop(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	session, err := h.watch.Stop(middleware.GetUserID(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
