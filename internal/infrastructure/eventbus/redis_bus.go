package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IgorPchelyakov/streamflow-backend/internal/core/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const chatEventsChannel = "streamflow:chat:events"

// ChatEvent is the wire envelope for fan-out between API instances.
type ChatEvent struct {
	InstanceID string              `json:"instance_id"`
	Timestamp  time.Time           `json:"timestamp"`
	Message    *domain.ChatMessage `json:"message"`
}

// RedisChatBus fans chat messages out across API instances via Redis
// pub/sub, so a viewer connected to one instance sees messages persisted
// by another.
type RedisChatBus struct {
	client     *redis.Client
	instanceID string
	logger     *zap.SugaredLogger
	pubsub     *redis.PubSub
}

func NewRedisClient(address, password string, db, poolSize int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
		PoolSize: poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func NewRedisChatBus(client *redis.Client, instanceID string, logger *zap.SugaredLogger) *RedisChatBus {
	return &RedisChatBus{
		client:     client,
		instanceID: instanceID,
		logger:     logger,
	}
}

func (b *RedisChatBus) PublishMessage(ctx context.Context, message *domain.ChatMessage) error {
	event := &ChatEvent{
		InstanceID: b.instanceID,
		Timestamp:  time.Now(),
		Message:    message,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal chat event: %w", err)
	}

	if err := b.client.Publish(ctx, chatEventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish chat event: %w", err)
	}

	b.logger.Debugw("published chat event",
		"stream_id", message.StreamID,
		"message_id", message.ID,
	)

	return nil
}

// Subscribe blocks until ctx is cancelled, invoking handler for every
// chat message published by any instance, including this one. Local
// delivery also goes through the bus so ordering is uniform.
func (b *RedisChatBus) Subscribe(ctx context.Context, handler func(*domain.ChatMessage)) error {
	if b.pubsub != nil {
		return fmt.Errorf("already subscribed")
	}

	b.pubsub = b.client.Subscribe(ctx, chatEventsChannel)
	defer b.pubsub.Close()

	ch := b.pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event ChatEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal chat event",
					"error", err,
					"payload", msg.Payload,
				)
				continue
			}

			if event.Message != nil {
				handler(event.Message)
			}
		}
	}
}

func (b *RedisChatBus) Close() error {
	if b.pubsub != nil {
		return b.pubsub.Close()
	}
	return nil
}
