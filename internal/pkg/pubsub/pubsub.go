package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPackageAlerts = "package_alerts"
)

// AlertEvent 已投递的套餐提醒事件，API 进程订阅后推送到 WebSocket
type AlertEvent struct {
	Type        string `json:"type"`
	AlertID     int64  `json:"alert_id"`
	PackageID   int64  `json:"package_id"`
	PackageName string `json:"package_name"`
	ClientID    int64  `json:"client_id"`
	UserID      int64  `json:"user_id,omitempty"` // 客户门户账号，未绑定时为 0
	AlertType   string `json:"alert_type"`
	Level       string `json:"level"`
	Message     string `json:"message"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishAlert 发布提醒事件
func (p *Publisher) PublishAlert(ctx context.Context, event *AlertEvent) error {
	event.Type = "package_alert"

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPackageAlerts, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅提醒事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*AlertEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPackageAlerts)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event AlertEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
