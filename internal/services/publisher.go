package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"orphancare-learning/internal/logger"
	"orphancare-learning/internal/models"
)

// Publisher delivers a message to every WebSocket connection of a user.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage)
}

func UserChannel(userID uuid.UUID) string {
	return "user_updates:" + userID.String()
}

type RedisPublisher struct {
	redis *redis.Client
	log   *logger.Logger
}

func NewRedisPublisher(redisClient *redis.Client, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{redis: redisClient, log: log}
}

// Publish is fire-and-forget; a lost update only delays what the client sees
// until its next fetch.
func (p *RedisPublisher) Publish(ctx context.Context, userID uuid.UUID, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.log.Error("encode ws message", "type", msg.Type, "error", err)
		return
	}
	if err := p.redis.Publish(ctx, UserChannel(userID), data).Err(); err != nil {
		p.log.Warn("publish ws message", "type", msg.Type, "user", userID.String(), "error", err)
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, uuid.UUID, models.WSMessage) {}
