package websocket

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"orphancare-learning/internal/models"
	"orphancare-learning/internal/services"
)

// WatchTracker is the part of the watch service the stream drives.
type WatchTracker interface {
	Get(userID, sessionID uuid.UUID) (*models.WatchSession, error)
	SetDuration(userID, sessionID uuid.UUID, duration float64) (*models.WatchSession, error)
	Sample(ctx context.Context, userID, sessionID uuid.UUID, position float64) (*models.WatchProgress, error)
}

type WatchStream struct {
	hub     *Hub
	tracker WatchTracker
}

func NewWatchStream(hub *Hub, tracker WatchTracker) *WatchStream {
	return &WatchStream{hub: hub, tracker: tracker}
}

// Handle serves /ws/watch/{id}: the player sends duration and sample frames
// and gets a progress frame back for each.
func (s *WatchStream) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.hub.authenticate(w, r)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}
	if _, err := s.tracker.Get(userID, sessionID); err != nil {
		var fe *services.ForbiddenError
		if errors.As(err, &fe) {
			http.Error(w, "Forbidden", http.StatusForbidden)
		} else {
			http.Error(w, "Not found", http.StatusNotFound)
		}
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.hub.log.Warn("watch stream upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn}
	defer conn.Close()

	ctx := r.Context()
	for {
		var frame models.WatchFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		if err := c.writeJSON(s.apply(ctx, userID, sessionID, frame)); err != nil {
			return
		}
	}
}

func (s *WatchStream) apply(ctx context.Context, userID, sessionID uuid.UUID, frame models.WatchFrame) models.WSMessage {
	switch frame.Type {
	case "duration":
		snap, err := s.tracker.SetDuration(userID, sessionID, frame.Value)
		if err != nil {
			return errorFrame(err)
		}
		return models.WSMessage{Type: models.MessageLessonProgress, Payload: models.WatchProgress{
			SessionID: snap.ID,
			LessonID:  snap.LessonID,
			Percent:   snap.Percent,
			Completed: snap.Completed,
		}}
	case "sample":
		p, err := s.tracker.Sample(ctx, userID, sessionID, frame.Value)
		if err != nil {
			return errorFrame(err)
		}
		return models.WSMessage{Type: models.MessageLessonProgress, Payload: p}
	default:
		return models.WSMessage{Type: models.MessageError, Payload: map[string]string{
			"code":    "UNKNOWN_FRAME",
			"message": "Frame type must be duration or sample",
		}}
	}
}

func errorFrame(err error) models.WSMessage {
	code := "INTERNAL_ERROR"
	switch err.(type) {
	case *services.ValidationError:
		code = "VALIDATION_ERROR"
	case *services.NotFoundError:
		code = "NOT_FOUND"
	case *services.ForbiddenError:
		code = "FORBIDDEN"
	}
	return models.WSMessage{Type: models.MessageError, Payload: map[string]string{
		"code":    code,
		"message": err.Error(),
	}}
}
