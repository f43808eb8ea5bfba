package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/models"
	"orphancare-learning/internal/services"
)

const (
	CompletionQueueName = "queue:lesson-completion"
	maxRetries          = 3
	popTimeout          = 30 * time.Second
	lockTTL             = 2 * time.Minute
)

// Queue is the producer side of the completion queue.
type Queue struct {
	redis *redis.Client
}

func NewQueue(redisClient *redis.Client) *Queue {
	return &Queue{redis: redisClient}
}

func (q *Queue) Enqueue(ctx context.Context, job models.CompletionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode completion job: %w", err)
	}
	if err := q.redis.LPush(ctx, CompletionQueueName, data).Err(); err != nil {
		return fmt.Errorf("push completion job: %w", err)
	}
	return nil
}

type CompletionRecorder interface {
	Record(ctx context.Context, c *models.LessonCompletion) (bool, error)
}

type Pool struct {
	redis       *redis.Client
	recorder    CompletionRecorder
	publisher   services.Publisher
	workerCount int
	log         *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPool(redisClient *redis.Client, recorder CompletionRecorder, publisher services.Publisher, workerCount int, log *logger.Logger) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		redis:       redisClient,
		recorder:    recorder,
		publisher:   publisher,
		workerCount: workerCount,
		log:         log.With("component", "worker"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.log.Info("started workers", "count", p.workerCount, "queue", CompletionQueueName)
}

// Stop interrupts blocked pops and waits for in-flight jobs.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		if p.ctx.Err() != nil {
			p.log.Debug("worker shutting down", "worker", id)
			return
		}

		result, err := p.redis.BLPop(p.ctx, popTimeout, CompletionQueueName).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && p.ctx.Err() == nil {
				p.log.Warn("pop completion job", "worker", id, "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		p.handle(p.ctx, id, result[1])
	}
}

func lockKey(job models.CompletionJob) string {
	return fmt.Sprintf("completion_lock:%s:%s", job.UserID, job.LessonID)
}

func decodeJob(raw string) (models.CompletionJob, error) {
	var job models.CompletionJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return job, fmt.Errorf("parse completion job: %w", err)
	}
	if job.LessonID == "" {
		return job, errors.New("completion job has no lesson id")
	}
	return job, nil
}

func (p *Pool) handle(ctx context.Context, workerID int, raw string) {
	job, err := decodeJob(raw)
	if err != nil {
		p.log.Error("dropping completion job", "worker", workerID, "error", err)
		return
	}

	// One worker per (user, lesson) at a time.
	key := lockKey(job)
	locked, err := p.redis.SetNX(ctx, key, job.ID.String(), lockTTL).Result()
	if err != nil || !locked {
		p.requeue(job, time.Second)
		return
	}
	defer p.redis.Del(context.Background(), key)

	if err := p.process(ctx, job); err != nil {
		p.handleFailure(job, err)
	}
}

// process records the completion and tells the user's clients about it.
// A repeat completion of the same lesson is recorded once and not re-announced.
func (p *Pool) process(ctx context.Context, job models.CompletionJob) error {
	completion := &models.LessonCompletion{
		UserID:      job.UserID,
		LessonID:    job.LessonID,
		RoadmapID:   job.RoadmapID,
		Percent:     job.Percent,
		CompletedAt: job.CompletedAt,
	}
	inserted, err := p.recorder.Record(ctx, completion)
	if err != nil {
		return err
	}
	if !inserted {
		p.log.Debug("lesson already completed", "lesson_id", job.LessonID)
		return nil
	}

	p.publisher.Publish(ctx, job.UserID, models.WSMessage{
		Type:    models.MessageLessonCompleted,
		Payload: completion,
	})
	p.log.Info("lesson completed", "job", job.ID.String(), "lesson_id", job.LessonID, "percent", job.Percent)
	return nil
}

func (p *Pool) handleFailure(job models.CompletionJob, err error) {
	job.RetryCount++
	if job.RetryCount < maxRetries {
		backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
		p.log.Warn("completion job failed, retrying", "job", job.ID.String(), "attempt", job.RetryCount, "error", err)
		p.requeue(job, backoff)
		return
	}

	p.log.Error("completion job failed permanently", "job", job.ID.String(), "lesson_id", job.LessonID, "error", err)
	p.publisher.Publish(context.Background(), job.UserID, models.WSMessage{
		Type: models.MessageError,
		Payload: map[string]string{
			"code":      "COMPLETION_FAILED",
			"lesson_id": job.LessonID,
		},
	})
}

func (p *Pool) requeue(job models.CompletionJob, after time.Duration) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}
	time.AfterFunc(after, func() {
		if err := p.redis.LPush(context.Background(), CompletionQueueName, data).Err(); err != nil {
			p.log.Error("requeue completion job", "job", job.ID.String(), "error", err)
		}
	})
}
