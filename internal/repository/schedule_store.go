package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"orphancare-learning/internal/models"
)

// ScheduleStore persists one LessonSchedule per (user, lesson). Writes are
// per-lesson, so concurrent writers to different lessons never clobber each
// other; the last write to the same lesson wins.
type ScheduleStore interface {
	// Get returns nil, nil when the record is absent or unreadable.
	Get(ctx context.Context, userID uuid.UUID, lessonID string) (*models.LessonSchedule, error)
	All(ctx context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error)
	Put(ctx context.Context, userID uuid.UUID, s models.LessonSchedule) error
	Users(ctx context.Context) ([]uuid.UUID, error)
}

type MemoryScheduleStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]map[string]models.LessonSchedule
}

func NewMemoryScheduleStore() *MemoryScheduleStore {
	return &MemoryScheduleStore{data: make(map[uuid.UUID]map[string]models.LessonSchedule)}
}

func (m *MemoryScheduleStore) Get(_ context.Context, userID uuid.UUID, lessonID string) (*models.LessonSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[userID][lessonID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryScheduleStore) All(_ context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]models.LessonSchedule, len(m.data[userID]))
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryScheduleStore) Put(_ context.Context, userID uuid.UUID, s models.LessonSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lessons, ok := m.data[userID]
	if !ok {
		lessons = make(map[string]models.LessonSchedule)
		m.data[userID] = lessons
	}
	lessons[s.LessonID] = s
	return nil
}

func (m *MemoryScheduleStore) Users(_ context.Context) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]uuid.UUID, 0, len(m.data))
	for id := range m.data {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}
