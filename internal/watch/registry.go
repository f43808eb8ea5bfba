package watch

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"orphancare-learning/internal/models"
)

// Session is one viewer's playback of one lesson video. All access goes
// through the session lock, so a session may be fed from HTTP and WebSocket at once.
type Session struct {
	mu sync.Mutex

	ID        uuid.UUID
	UserID    uuid.UUID
	LessonID  string
	RoadmapID string
	VideoID   string
	StartedAt time.Time

	lastSampleAt time.Time
	tracker      *Tracker
}

func (s *Session) SetDuration(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.SetDuration(d)
}

func (s *Session) Sample(pos float64, now time.Time) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSampleAt = now
	return s.tracker.Sample(pos)
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSampleAt.IsZero() {
		return s.StartedAt
	}
	return s.lastSampleAt
}

func (s *Session) Snapshot() models.WatchSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.WatchSession{
		ID:           s.ID,
		UserID:       s.UserID,
		LessonID:     s.LessonID,
		RoadmapID:    s.RoadmapID,
		VideoID:      s.VideoID,
		Threshold:    s.tracker.Threshold(),
		Duration:     s.tracker.Duration(),
		Percent:      s.tracker.Percent(),
		State:        s.tracker.State().String(),
		Completed:    s.tracker.State() == StateCompleted,
		StartedAt:    s.StartedAt,
		LastSampleAt: s.lastSampleAt,
	}
}

type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create registers a new idle session. The caller supplies the duration
// separately once it is known.
func (r *Registry) Create(userID uuid.UUID, lessonID, roadmapID, videoID string, threshold int, now time.Time) *Session {
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		LessonID:  lessonID,
		RoadmapID: roadmapID,
		VideoID:   videoID,
		StartedAt: now,
		tracker:   NewTracker(lessonID, threshold),
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than ttl and returns how many went.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if now.Sub(s.LastActive()) > ttl {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
