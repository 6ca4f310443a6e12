package repository

import (
	"context"
	"fmt"
	"strconv"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	pkgkafka "AstroCore/pkg/kafka"
)

type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaEventPublisher writes domain events as JSON. Aspect events are keyed
// by body pair and layout events by system and place, so updates for the same
// subject stay ordered within a partition.
type KafkaEventPublisher struct {
	p           producer
	aspectTopic string
	layoutTopic string
}

func NewKafkaEventPublisher(p *pkgkafka.Producer, aspectTopic, layoutTopic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{p: p, aspectTopic: aspectTopic, layoutTopic: layoutTopic}
}

func aspectKey(e models.AspectEvent) []byte {
	return []byte(e.BodyA + "|" + e.BodyB)
}

func layoutEventKey(e models.LayoutEvent) []byte {
	return []byte(string(e.System) + "|" +
		strconv.FormatFloat(e.Latitude, 'f', -1, 64) + "|" +
		strconv.FormatFloat(e.Longitude, 'f', -1, 64))
}

func (k *KafkaEventPublisher) PublishAspect(ctx context.Context, e models.AspectEvent) error {
	if err := k.p.Publish(ctx, k.aspectTopic, aspectKey(e), e); err != nil {
		return fmt.Errorf("publish aspect: %w", err)
	}
	return nil
}

func (k *KafkaEventPublisher) PublishAspects(ctx context.Context, es []models.AspectEvent) error {
	if len(es) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(es))
	for i, e := range es {
		msgs[i] = pkgkafka.Message{Key: aspectKey(e), Value: e}
	}
	if err := k.p.PublishBatch(ctx, k.aspectTopic, msgs); err != nil {
		return fmt.Errorf("publish aspects: %w", err)
	}
	return nil
}

func (k *KafkaEventPublisher) PublishLayout(ctx context.Context, e models.LayoutEvent) error {
	if err := k.p.Publish(ctx, k.layoutTopic, layoutEventKey(e), e); err != nil {
		return fmt.Errorf("publish layout: %w", err)
	}
	return nil
}

func (k *KafkaEventPublisher) Close() error { return k.p.Close() }

var _ domrepo.EventPublisher = (*KafkaEventPublisher)(nil)
