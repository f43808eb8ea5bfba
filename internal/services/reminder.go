package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/repository"
	"orphancare-learning/internal/review"
)

const reminderConcurrency = 8

// ReviewReminder tells connected users which lessons are due, at most once
// per interval per user.
type ReviewReminder struct {
	store     repository.ScheduleStore
	publisher Publisher
	interval  time.Duration
	now       func() time.Time
	log       *logger.Logger

	mu       sync.Mutex
	lastSent map[uuid.UUID]time.Time
}

func NewReviewReminder(store repository.ScheduleStore, publisher Publisher, interval time.Duration, now func() time.Time, log *logger.Logger) *ReviewReminder {
	if now == nil {
		now = time.Now
	}
	return &ReviewReminder{
		store:     store,
		publisher: publisher,
		interval:  interval,
		now:       now,
		log:       log,
		lastSent:  make(map[uuid.UUID]time.Time),
	}
}

func (r *ReviewReminder) Interval() time.Duration {
	return r.interval
}

// Run scans every user with schedules and returns how many reminders went out.
func (r *ReviewReminder) Run(ctx context.Context) (int, error) {
	users, err := r.store.Users(ctx)
	if err != nil {
		return 0, fmt.Errorf("list schedule users: %w", err)
	}

	now := r.now().UTC()
	var sent atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reminderConcurrency)
	for _, userID := range users {
		g.Go(func() error {
			ok, err := r.remind(gctx, userID, now)
			if err != nil {
				// One unreadable user must not stop the scan.
				r.log.Warn("review reminder skipped", "user", userID.String(), "error", err)
				return nil
			}
			if ok {
				sent.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(sent.Load()), err
	}
	return int(sent.Load()), ctx.Err()
}

func (r *ReviewReminder) remind(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	if !shouldSendByLastSent(r.last(userID), r.interval, now) {
		return false, nil
	}

	schedules, err := r.store.All(ctx, userID)
	if err != nil {
		return false, err
	}
	due := review.Due(schedules, now)
	if len(due) == 0 {
		return false, nil
	}

	r.publisher.Publish(ctx, userID, models.WSMessage{
		Type: models.MessageReviewsDue,
		Payload: models.ReviewsDuePayload{
			Count:   len(due),
			Lessons: due,
			SentAt:  now,
		},
	})
	r.markSent(userID, now)
	return true, nil
}

func (r *ReviewReminder) last(userID uuid.UUID) time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSent[userID]
}

func (r *ReviewReminder) markSent(userID uuid.UUID, now time.Time) {
	r.mu.Lock()
	r.lastSent[userID] = now
	r.mu.Unlock()
}

func shouldSendByLastSent(lastSent time.Time, minInterval time.Duration, now time.Time) bool {
	if lastSent.IsZero() {
		return true
	}
	return now.Sub(lastSent) >= minInterval
}
