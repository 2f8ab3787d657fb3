package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	pkgkafka "StockCast/pkg/kafka"
)

// KafkaEventPublisher emits prediction lifecycle events keyed by user so a
// user's events land on one partition in order.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, event *models.PredictionEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return p.producer.Publish(ctx, p.topic, []byte(event.UserID), event)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}

// NoopEventPublisher is used when no brokers are configured.
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(context.Context, *models.PredictionEvent) error { return nil }
func (NoopEventPublisher) Close() error                                           { return nil }
