package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"orphancare-learning/internal/models"
)

type recordingPublisher struct {
	mu   sync.Mutex
	sent map[uuid.UUID][]models.WSMessage
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{sent: make(map[uuid.UUID][]models.WSMessage)}
}

func (p *recordingPublisher) Publish(_ context.Context, userID uuid.UUID, msg models.WSMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent[userID] = append(p.sent[userID], msg)
}

func (p *recordingPublisher) messages(userID uuid.UUID) []models.WSMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.WSMessage(nil), p.sent[userID]...)
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []models.CompletionJob
	err  error
}

func (q *fakeQueue) Enqueue(_ context.Context, job models.CompletionJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeDurations struct {
	seconds float64
	err     error
	calls   int
}

func (d *fakeDurations) Duration(context.Context, string) (float64, error) {
	d.calls++
	return d.seconds, d.err
}

var errStoreDown = errors.New("store down")

// fixedClock returns a clock that can be moved forward by tests.
type fixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// jsonScheduleStore keeps each record as encoded JSON and treats records that
// fail to decode as absent, like the redis hash store.
type jsonScheduleStore struct {
	mu   sync.Mutex
	data map[uuid.UUID]map[string][]byte
}

func newJSONScheduleStore() *jsonScheduleStore {
	return &jsonScheduleStore{data: make(map[uuid.UUID]map[string][]byte)}
}

func (s *jsonScheduleStore) Get(_ context.Context, userID uuid.UUID, lessonID string) (*models.LessonSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.data[userID][lessonID]
	if !ok {
		return nil, nil
	}
	var rec models.LessonSchedule
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, nil
	}
	return &rec, nil
}

func (s *jsonScheduleStore) All(ctx context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error) {
	s.mu.Lock()
	ids := make([]string, 0, len(s.data[userID]))
	for id := range s.data[userID] {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	out := make(map[string]models.LessonSchedule, len(ids))
	for _, id := range ids {
		if rec, _ := s.Get(ctx, userID, id); rec != nil {
			out[id] = *rec
		}
	}
	return out, nil
}

func (s *jsonScheduleStore) Put(_ context.Context, userID uuid.UUID, rec models.LessonSchedule) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[userID] == nil {
		s.data[userID] = make(map[string][]byte)
	}
	s.data[userID][rec.LessonID] = raw
	return nil
}

func (s *jsonScheduleStore) Users(context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, 0, len(s.data))
	for id := range s.data {
		out = append(out, id)
	}
	return out, nil
}
