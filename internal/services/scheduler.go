package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"orphancare-learning/internal/logger"
)

// JobScheduler runs periodic maintenance: review reminders and watch
// session expiry.
type JobScheduler struct {
	cron *gocron.Scheduler
	ctx  context.Context
	stop context.CancelFunc
	log  *logger.Logger
}

func NewJobScheduler(log *logger.Logger) *JobScheduler {
	cron := gocron.NewScheduler(time.UTC)
	cron.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &JobScheduler{cron: cron, ctx: ctx, stop: cancel, log: log}
}

// Every registers fn to run on start and then once per interval.
func (s *JobScheduler) Every(interval time.Duration, name string, fn func(ctx context.Context)) error {
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}
	_, err := s.cron.Every(interval).Do(func() {
		started := time.Now()
		fn(s.ctx)
		s.log.Debug("scheduled job finished", "job", name, "took", time.Since(started).String())
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func (s *JobScheduler) Start() {
	s.cron.StartAsync()
	s.log.Info("job scheduler started", "jobs", len(s.cron.Jobs()))
}

func (s *JobScheduler) Stop() {
	s.stop()
	s.cron.Stop()
}
