package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orphancare-learning/internal/models"
)

const scheduleUsersKey = "lessonSchedules:users"

func scheduleKey(userID uuid.UUID) string {
	return "lessonSchedules:" + userID.String()
}

// RedisScheduleStore keeps each user's schedules in a hash, field lessonId,
// value the JSON record in the client's lessonSchedules shape.
type RedisScheduleStore struct {
	rdb *redis.Client
}

func NewRedisScheduleStore(rdb *redis.Client) *RedisScheduleStore {
	return &RedisScheduleStore{rdb: rdb}
}

// decodeScheduleField returns nil for a record that cannot be read back.
func decodeScheduleField(lessonID, raw string) *models.LessonSchedule {
	var s models.LessonSchedule
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil
	}
	if s.LessonID == "" {
		s.LessonID = lessonID
	}
	return &s
}

func (r *RedisScheduleStore) Get(ctx context.Context, userID uuid.UUID, lessonID string) (*models.LessonSchedule, error) {
	raw, err := r.rdb.HGet(ctx, scheduleKey(userID), lessonID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %s: %w", lessonID, err)
	}
	return decodeScheduleField(lessonID, raw), nil
}

func (r *RedisScheduleStore) All(ctx context.Context, userID uuid.UUID) (map[string]models.LessonSchedule, error) {
	fields, err := r.rdb.HGetAll(ctx, scheduleKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	out := make(map[string]models.LessonSchedule, len(fields))
	for lessonID, raw := range fields {
		if s := decodeScheduleField(lessonID, raw); s != nil {
			out[lessonID] = *s
		}
	}
	return out, nil
}

func (r *RedisScheduleStore) Put(ctx context.Context, userID uuid.UUID, s models.LessonSchedule) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, scheduleKey(userID), s.LessonID, data)
	pipe.SAdd(ctx, scheduleUsersKey, userID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put schedule %s: %w", s.LessonID, err)
	}
	return nil
}

func (r *RedisScheduleStore) Users(ctx context.Context) ([]uuid.UUID, error) {
	members, err := r.rdb.SMembers(ctx, scheduleUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list schedule users: %w", err)
	}
	out := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
