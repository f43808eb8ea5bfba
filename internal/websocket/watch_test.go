package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/services"
	"orphancare-learning/internal/watch"
)

type countingQueue struct{ jobs atomic.Int32 }

func (q *countingQueue) Enqueue(context.Context, models.CompletionJob) error {
	q.jobs.Add(1)
	return nil
}

type streamFixture struct {
	server *httptest.Server
	auth   *middleware.JWTAuth
	svc    *services.WatchService
	queue  *countingQueue
}

func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()
	log := logger.NewNop()
	auth := middleware.NewJWTAuth("ws-secret")
	queue := &countingQueue{}
	svc := services.NewWatchService(watch.NewRegistry(), catalog.Default(), queue, services.NopPublisher{}, services.WatchServiceConfig{Threshold: 80}, log)

	r := chi.NewRouter()
	r.Get("/ws/watch/{id}", NewWatchStream(NewHub(nil, auth, log), svc).Handle)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &streamFixture{server: server, auth: auth, svc: svc, queue: queue}
}

func (f *streamFixture) dial(t *testing.T, user, session uuid.UUID) (*gws.Conn, *http.Response, error) {
	t.Helper()
	token, err := f.auth.GenerateAccessToken(user, time.Minute)
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/watch/" + session.String() + "?token=" + token
	return gws.DefaultDialer.Dial(url, nil)
}

type progressFrame struct {
	Type    string               `json:"type"`
	Payload models.WatchProgress `json:"payload"`
}

func TestWatchStream_DurationThenSamples(t *testing.T) {
	f := newStreamFixture(t)
	user := uuid.New()
	sess, err := f.svc.Start(context.Background(), user, models.StartWatchRequest{LessonID: "html"})
	require.NoError(t, err)

	conn, _, err := f.dial(t, user, sess.ID)
	require.NoError(t, err)
	defer conn.Close()

	send := func(frame models.WatchFrame) progressFrame {
		require.NoError(t, conn.WriteJSON(frame))
		var got progressFrame
		require.NoError(t, conn.ReadJSON(&got))
		return got
	}

	got := send(models.WatchFrame{Type: "duration", Value: 20})
	assert.Equal(t, models.MessageLessonProgress, got.Type)
	assert.Zero(t, got.Payload.Percent)

	for pos := 2.0; pos <= 14; pos += 2 {
		got = send(models.WatchFrame{Type: "sample", Value: pos})
	}
	assert.Equal(t, 70, got.Payload.Percent)
	assert.False(t, got.Payload.Completed)

	got = send(models.WatchFrame{Type: "sample", Value: 16})
	assert.Equal(t, 80, got.Payload.Percent)
	assert.True(t, got.Payload.JustCompleted)
	assert.Equal(t, int32(1), f.queue.jobs.Load())

	var errFrame struct {
		Type    string            `json:"type"`
		Payload map[string]string `json:"payload"`
	}
	require.NoError(t, conn.WriteJSON(models.WatchFrame{Type: "seek", Value: 1}))
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, models.MessageError, errFrame.Type)
	assert.Equal(t, "UNKNOWN_FRAME", errFrame.Payload["code"])
}

func TestWatchStream_RejectsOtherUsersSession(t *testing.T) {
	f := newStreamFixture(t)
	sess, err := f.svc.Start(context.Background(), uuid.New(), models.StartWatchRequest{LessonID: "css", Duration: 60})
	require.NoError(t, err)

	_, resp, err := f.dial(t, uuid.New(), sess.ID)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWatchStream_RequiresToken(t *testing.T) {
	f := newStreamFixture(t)
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/watch/" + uuid.NewString()

	_, resp, err := gws.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
