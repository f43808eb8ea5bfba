package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"orphancare-learning/internal/catalog"
	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/watch"
)

// DurationLookup resolves a video's length in seconds.
type DurationLookup interface {
	Duration(ctx context.Context, videoID string) (float64, error)
}

// CompletionQueue hands a finished lesson to the background workers.
type CompletionQueue interface {
	Enqueue(ctx context.Context, job models.CompletionJob) error
}

type WatchService struct {
	registry   *watch.Registry
	catalog    *catalog.Catalog
	durations  DurationLookup
	queue      CompletionQueue
	publisher  Publisher
	threshold  int
	sessionTTL time.Duration
	now        func() time.Time
	log        *logger.Logger
}

type WatchServiceConfig struct {
	Threshold  int
	SessionTTL time.Duration
	// Durations may be nil; sessions then wait for the client to report one.
	Durations DurationLookup
	Now       func() time.Time
}

func NewWatchService(registry *watch.Registry, cat *catalog.Catalog, queue CompletionQueue, publisher Publisher, cfg WatchServiceConfig, log *logger.Logger) *WatchService {
	threshold := cfg.Threshold
	if threshold < 1 || threshold > 100 {
		threshold = watch.DefaultThreshold
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &WatchService{
		registry:   registry,
		catalog:    cat,
		durations:  cfg.Durations,
		queue:      queue,
		publisher:  publisher,
		threshold:  threshold,
		sessionTTL: cfg.SessionTTL,
		now:        now,
		log:        log,
	}
}

func (s *WatchService) Start(ctx context.Context, userID uuid.UUID, req models.StartWatchRequest) (*models.WatchSession, error) {
	fields := map[string]string{}
	if req.LessonID == "" {
		fields["lesson_id"] = "Required"
	}
	if req.Threshold != 0 && (req.Threshold < 1 || req.Threshold > 100) {
		fields["threshold"] = "Must be between 1 and 100"
	}
	if req.Duration < 0 || math.IsNaN(req.Duration) || math.IsInf(req.Duration, 0) {
		fields["duration"] = "Must be a positive number of seconds"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	roadmapID, ok := s.catalog.RoadmapOf(req.LessonID)
	if !ok {
		return nil, &NotFoundError{Message: "Lesson not found"}
	}
	if req.RoadmapID != "" && req.RoadmapID != roadmapID {
		return nil, &ValidationError{Fields: map[string]string{"roadmap_id": "Lesson does not belong to this roadmap"}}
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = s.threshold
	}
	videoID := ExtractVideoID(req.VideoID)

	sess := s.registry.Create(userID, req.LessonID, roadmapID, videoID, threshold, s.now())

	duration := req.Duration
	if duration == 0 && videoID != "" && s.durations != nil {
		d, err := s.durations.Duration(ctx, videoID)
		if err != nil {
			s.log.Warn("video duration lookup failed", "video_id", videoID, "error", err)
		} else {
			duration = d
		}
	}
	if duration > 0 {
		sess.SetDuration(duration)
	}

	s.log.Info("watch session started", "session", sess.ID.String(), "lesson_id", req.LessonID, "duration", duration)
	snap := sess.Snapshot()
	return &snap, nil
}

func (s *WatchService) session(userID, sessionID uuid.UUID) (*watch.Session, error) {
	sess, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, &NotFoundError{Message: "Watch session not found"}
	}
	if sess.UserID != userID {
		return nil, &ForbiddenError{Message: "Watch session belongs to another user"}
	}
	return sess, nil
}

func (s *WatchService) Get(userID, sessionID uuid.UUID) (*models.WatchSession, error) {
	sess, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

func (s *WatchService) SetDuration(userID, sessionID uuid.UUID, duration float64) (*models.WatchSession, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return nil, &ValidationError{Fields: map[string]string{"duration": "Must be a positive number of seconds"}}
	}
	sess, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.SetDuration(duration)
	snap := sess.Snapshot()
	return &snap, nil
}

// Sample feeds one playback position. The first sample that reaches the
// threshold queues the lesson completion.
func (s *WatchService) Sample(ctx context.Context, userID, sessionID uuid.UUID, position float64) (*models.WatchProgress, error) {
	return s.SampleBatch(ctx, userID, sessionID, []float64{position})
}

// SampleBatch feeds positions in order. Every position is validated and the
// session resolved before any of them is applied, so a rejected batch leaves
// the session untouched. JustCompleted is set when any sample in the batch
// crossed the threshold.
func (s *WatchService) SampleBatch(ctx context.Context, userID, sessionID uuid.UUID, positions []float64) (*models.WatchProgress, error) {
	if len(positions) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"position": "Required"}}
	}
	for _, pos := range positions {
		if math.IsNaN(pos) || math.IsInf(pos, 0) {
			return nil, &ValidationError{Fields: map[string]string{"position": "Must be a finite number of seconds"}}
		}
	}
	sess, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var p watch.Progress
	justCompleted := false
	for _, pos := range positions {
		p = sess.Sample(pos, now)
		justCompleted = justCompleted || p.JustCompleted
	}
	progress := &models.WatchProgress{
		SessionID:     sess.ID,
		LessonID:      sess.LessonID,
		Percent:       p.Percent,
		Completed:     p.Completed,
		JustCompleted: justCompleted,
	}

	if justCompleted {
		s.onCompleted(ctx, sess, p.Percent, now)
		s.publisher.Publish(ctx, userID, models.WSMessage{Type: models.MessageLessonProgress, Payload: progress})
	}
	return progress, nil
}

func (s *WatchService) onCompleted(ctx context.Context, sess *watch.Session, percent int, now time.Time) {
	job := models.CompletionJob{
		ID:          uuid.New(),
		UserID:      sess.UserID,
		LessonID:    sess.LessonID,
		RoadmapID:   sess.RoadmapID,
		Percent:     percent,
		CompletedAt: now,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log.Error("enqueue lesson completion", "session", sess.ID.String(), "lesson_id", sess.LessonID, "error", err)
		return
	}
	s.log.Info("lesson completion queued", "session", sess.ID.String(), "lesson_id", sess.LessonID, "percent", percent)
}

func (s *WatchService) Stop(userID, sessionID uuid.UUID) (*models.WatchSession, error) {
	sess, err := s.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	s.registry.Remove(sessionID)
	return &snap, nil
}

// Sweep drops sessions that have not been sampled within the session TTL.
func (s *WatchService) Sweep() int {
	if s.sessionTTL <= 0 {
		return 0
	}
	n := s.registry.Sweep(s.now(), s.sessionTTL)
	if n > 0 {
		s.log.Debug("expired watch sessions", "count", n)
	}
	return n
}
