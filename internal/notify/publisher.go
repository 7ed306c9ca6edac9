package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/protomem/medicall/internal/model"
	"github.com/redis/go-redis/v9"
)

const DispatchChannel = "notifications.dispatch"

// DispatchEvent asks external delivery workers to push a notification.
type DispatchEvent struct {
	NotificationID model.ID               `json:"notificationId"`
	RecipientID    model.ID               `json:"recipientId"`
	Type           model.NotificationType `json:"type"`
	Title          string                 `json:"title"`
	Channels       []string               `json:"channels"`
}

type Publisher interface {
	Publish(ctx context.Context, event DispatchEvent) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, DispatchEvent) error { return nil }

type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: DispatchChannel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event DispatchEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", p.channel, err)
	}

	return nil
}
