package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/middleware"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/repository"
	"orphancare-learning/internal/review"
	"orphancare-learning/internal/services"
	"orphancare-learning/internal/watch"
)

var testNow = time.Date(2026, 1, 28, 9, 0, 0, 0, time.UTC)

type nopQueue struct{}

func (nopQueue) Enqueue(context.Context, models.CompletionJob) error { return nil }

func newReviewService(store repository.ScheduleStore) *services.ReviewService {
	return services.NewReviewService(store, catalog.Default(), review.NewScheduler(func() time.Time { return testNow }),
		services.NopPublisher{}, logger.NewNop())
}

func newWatchService() *services.WatchService {
	return services.NewWatchService(watch.NewRegistry(), catalog.Default(), nopQueue{}, services.NopPublisher{},
		services.WatchServiceConfig{Threshold: 80, Now: func() time.Time { return testNow }}, logger.NewNop())
}

// newRequest builds a request with the user and chi URL params already in
// context, the way the router would leave it.
func newRequest(method, target string, body interface{}, userID uuid.UUID, params map[string]string) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.RequestIDHeader, "req-1")

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserIDKey, userID)
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(dst))
}

// ─── Review ───

func TestReviewHandler_SubmitQuizScore(t *testing.T) {
	h := NewReviewHandler(newReviewService(repository.NewMemoryScheduleStore()), logger.NewNop())
	user := uuid.New()

	rr := httptest.NewRecorder()
	h.SubmitQuiz(rr, newRequest(http.MethodPost, "/api/v1/lessons/html/quiz", map[string]float64{"score_percent": 40}, user, map[string]string{"id": "html"}))

	require.Equal(t, http.StatusOK, rr.Code)
	var res models.QuizResult
	decodeBody(t, rr, &res)
	assert.False(t, res.Passed)
	assert.Equal(t, 2, res.Quality)
	assert.Equal(t, 0, res.Schedule.Repetitions)
	assert.Equal(t, 1, res.Schedule.Interval)
}

func TestReviewHandler_SubmitQuizClampsOutOfRangeScore(t *testing.T) {
	h := NewReviewHandler(newReviewService(repository.NewMemoryScheduleStore()), logger.NewNop())

	rr := httptest.NewRecorder()
	h.SubmitQuiz(rr, newRequest(http.MethodPost, "/", map[string]float64{"score_percent": 150}, uuid.New(), map[string]string{"id": "js"}))

	require.Equal(t, http.StatusOK, rr.Code)
	var res models.QuizResult
	decodeBody(t, rr, &res)
	assert.Equal(t, 100.0, res.ScorePercent)
	assert.Equal(t, 5, res.Quality)
}

func TestReviewHandler_SubmitQuizAnswers(t *testing.T) {
	h := NewReviewHandler(newReviewService(repository.NewMemoryScheduleStore()), logger.NewNop())

	rr := httptest.NewRecorder()
	body := map[string]interface{}{"answers": map[string]int{"q1": 0, "q2": 1}}
	h.SubmitQuiz(rr, newRequest(http.MethodPost, "/", body, uuid.New(), map[string]string{"id": "html"}))

	require.Equal(t, http.StatusOK, rr.Code)
	var res models.QuizResult
	decodeBody(t, rr, &res)
	assert.Equal(t, 100.0, res.ScorePercent)
	assert.True(t, res.Passed)
}

func TestReviewHandler_SubmitQuizErrors(t *testing.T) {
	h := NewReviewHandler(newReviewService(repository.NewMemoryScheduleStore()), logger.NewNop())

	tests := []struct {
		name   string
		lesson string
		body   interface{}
		status int
		code   string
	}{
		{"empty body", "html", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"neither score nor answers", "html", map[string]string{}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown lesson", "cooking", map[string]float64{"score_percent": 80}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.SubmitQuiz(rr, newRequest(http.MethodPost, "/", tc.body, uuid.New(), map[string]string{"id": tc.lesson}))

			assert.Equal(t, tc.status, rr.Code)
			var resp models.ErrorResponse
			decodeBody(t, rr, &resp)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestReviewHandler_DueAndSchedules(t *testing.T) {
	store := repository.NewMemoryScheduleStore()
	user := uuid.New()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, user, models.LessonSchedule{LessonID: "apt", EF: 2.5, Interval: 1, NextReviewDate: testNow.Add(-time.Hour)}))
	require.NoError(t, store.Put(ctx, user, models.LessonSchedule{LessonID: "eng", EF: 2.5, Interval: 6, NextReviewDate: testNow.AddDate(0, 0, 2)}))
	h := NewReviewHandler(newReviewService(store), logger.NewNop())

	rr := httptest.NewRecorder()
	h.Due(rr, newRequest(http.MethodGet, "/api/v1/reviews/due", nil, user, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var due struct {
		Count   int                `json:"count"`
		Lessons []models.DueLesson `json:"lessons"`
	}
	decodeBody(t, rr, &due)
	assert.Equal(t, 1, due.Count)
	assert.Equal(t, "apt", due.Lessons[0].LessonID)
	assert.Equal(t, models.UrgencyDue, due.Lessons[0].Urgency.Level)

	rr = httptest.NewRecorder()
	h.Schedules(rr, newRequest(http.MethodGet, "/api/v1/reviews/schedules", nil, user, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var sched struct {
		LessonSchedules map[string]models.LessonSchedule `json:"lessonSchedules"`
	}
	decodeBody(t, rr, &sched)
	assert.Len(t, sched.LessonSchedules, 2)
	assert.Equal(t, 6, sched.LessonSchedules["eng"].Interval)
}

func TestReviewHandler_ImportAndReviewNow(t *testing.T) {
	store := repository.NewMemoryScheduleStore()
	h := NewReviewHandler(newReviewService(store), logger.NewNop())
	user := uuid.New()

	blob := `{"js":{"lessonId":"js","EF":2.5,"interval":1,"repetitions":1,"nextReviewDate":"2026-01-27T09:00:00Z"}}`
	rr := httptest.NewRecorder()
	h.Import(rr, newRequest(http.MethodPost, "/api/v1/reviews/import", blob, user, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var imp models.ImportResult
	decodeBody(t, rr, &imp)
	assert.Equal(t, 1, imp.Imported)

	rr = httptest.NewRecorder()
	h.ReviewNow(rr, newRequest(http.MethodPost, "/api/v1/lessons/js/review-now", nil, user, map[string]string{"id": "js"}))
	require.Equal(t, http.StatusOK, rr.Code)
	var res models.QuizResult
	decodeBody(t, rr, &res)
	assert.Equal(t, 2, res.Schedule.Repetitions)
	assert.Equal(t, 6, res.Schedule.Interval)
}

// ─── Catalog & library ───

func TestCatalogHandler_QuizHidesAnswers(t *testing.T) {
	h := NewCatalogHandler(catalog.Default(), newReviewService(repository.NewMemoryScheduleStore()), logger.NewNop())

	rr := httptest.NewRecorder()
	h.Quiz(rr, newRequest(http.MethodGet, "/", nil, uuid.New(), map[string]string{"id": "react"}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "answer_index")
	assert.Contains(t, rr.Body.String(), "What is JSX?")

	rr = httptest.NewRecorder()
	h.Quiz(rr, newRequest(http.MethodGet, "/", nil, uuid.New(), map[string]string{"id": "gk"}))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCatalogHandler_Roadmaps(t *testing.T) {
	h := NewCatalogHandler(catalog.Default(), nil, logger.NewNop())

	rr := httptest.NewRecorder()
	h.Roadmaps(rr, newRequest(http.MethodGet, "/", nil, uuid.New(), nil))

	var body struct {
		Roadmaps []models.Roadmap `json:"roadmaps"`
	}
	decodeBody(t, rr, &body)
	require.Len(t, body.Roadmaps, 2)
	assert.Equal(t, "tech", body.Roadmaps[0].ID)
	assert.Len(t, body.Roadmaps[1].Lessons, 4)
}

func TestLibraryHandler_Recommendations(t *testing.T) {
	h := NewLibraryHandler(catalog.Default())

	rr := httptest.NewRecorder()
	h.Recommendations(rr, newRequest(http.MethodGet, "/api/v1/library/recommendations?book_id=b-stories-1&limit=1", nil, uuid.New(), nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Books []models.Book `json:"books"`
	}
	decodeBody(t, rr, &body)
	require.Len(t, body.Books, 1)
	assert.Equal(t, "b-stories-2", body.Books[0].ID)

	rr = httptest.NewRecorder()
	h.Recommendations(rr, newRequest(http.MethodGet, "/api/v1/library/recommendations", nil, uuid.New(), nil))
	decodeBody(t, rr, &body)
	require.Len(t, body.Books, 4)
	assert.Equal(t, "b-math-1", body.Books[0].ID, "no base book falls back to popularity")

	rr = httptest.NewRecorder()
	h.Recommendations(rr, newRequest(http.MethodGet, "/api/v1/library/recommendations?limit=abc", nil, uuid.New(), nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLibraryHandler_BooksFilter(t *testing.T) {
	h := NewLibraryHandler(catalog.Default())

	rr := httptest.NewRecorder()
	h.Books(rr, newRequest(http.MethodGet, "/api/v1/library/books?category=stories", nil, uuid.New(), nil))
	var body struct {
		Books []models.Book `json:"books"`
	}
	decodeBody(t, rr, &body)
	assert.Len(t, body.Books, 2)
}

// ─── Watch ───

func TestWatchHandler_Lifecycle(t *testing.T) {
	h := NewWatchHandler(newWatchService(), logger.NewNop())
	user := uuid.New()

	rr := httptest.NewRecorder()
	h.Start(rr, newRequest(http.MethodPost, "/api/v1/watch-sessions", models.StartWatchRequest{LessonID: "css"}, user, nil))
	require.Equal(t, http.StatusCreated, rr.Code)
	var sess models.WatchSession
	decodeBody(t, rr, &sess)
	assert.Equal(t, "idle", sess.State)
	params := map[string]string{"id": sess.ID.String()}

	rr = httptest.NewRecorder()
	h.SetDuration(rr, newRequest(http.MethodPut, "/", map[string]float64{"duration": 10}, user, params))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Sample(rr, newRequest(http.MethodPost, "/", map[string][]float64{"positions": {2, 4, 6, 8, 9}}, user, params))
	require.Equal(t, http.StatusOK, rr.Code)
	var prog models.WatchProgress
	decodeBody(t, rr, &prog)
	assert.Equal(t, 90, prog.Percent)
	assert.True(t, prog.Completed)
	assert.True(t, prog.JustCompleted)

	rr = httptest.NewRecorder()
	h.Sample(rr, newRequest(http.MethodPost, "/", map[string]float64{"position": 10}, user, params))
	decodeBody(t, rr, &prog)
	assert.False(t, prog.JustCompleted, "completion fires once")

	rr = httptest.NewRecorder()
	h.Stop(rr, newRequest(http.MethodDelete, "/", nil, user, params))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/", nil, user, params))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWatchHandler_Authorization(t *testing.T) {
	svc := newWatchService()
	h := NewWatchHandler(svc, logger.NewNop())
	owner := uuid.New()
	sess, err := svc.Start(context.Background(), owner, models.StartWatchRequest{LessonID: "js", Duration: 60})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.Sample(rr, newRequest(http.MethodPost, "/", map[string]float64{"position": 30}, uuid.New(), map[string]string{"id": sess.ID.String()}))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, newRequest(http.MethodGet, "/", nil, owner, map[string]string{"id": "not-a-uuid"}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	h.Sample(rr, newRequest(http.MethodPost, "/", map[string]string{}, owner, map[string]string{"id": sess.ID.String()}))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// ─── Completions ───

type stubCompletions struct {
	list []*models.LessonCompletion
	err  error
}

func (s *stubCompletions) ListByUser(context.Context, uuid.UUID) ([]*models.LessonCompletion, error) {
	return s.list, s.err
}

func TestCompletionHandler_List(t *testing.T) {
	user := uuid.New()
	h := NewCompletionHandler(&stubCompletions{list: []*models.LessonCompletion{{UserID: user, LessonID: "html", Percent: 85, CompletedAt: testNow}}}, logger.NewNop())

	rr := httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/api/v1/completions", nil, user, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"lesson_id":"html"`)

	h = NewCompletionHandler(&stubCompletions{err: errors.New("db down")}, logger.NewNop())
	rr = httptest.NewRecorder()
	h.List(rr, newRequest(http.MethodGet, "/api/v1/completions", nil, user, nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}
