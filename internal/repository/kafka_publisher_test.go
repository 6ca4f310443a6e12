package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AstroCore/internal/domain/models"
	pkgkafka "AstroCore/pkg/kafka"
)

type sent struct {
	topic string
	key   string
	value interface{}
}

type fakeProducer struct {
	sent []sent
	err  error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{topic, string(key), value})
	return nil
}

func (f *fakeProducer) PublishBatch(ctx context.Context, topic string, msgs []pkgkafka.Message) error {
	for _, m := range msgs {
		if err := f.Publish(ctx, topic, m.Key, m.Value); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeProducer) Close() error { return nil }

func TestKafkaEventPublisherKeysAndTopics(t *testing.T) {
	fp := &fakeProducer{}
	pub := &KafkaEventPublisher{p: fp, aspectTopic: "astro.aspects", layoutTopic: "astro.layouts"}
	ctx := context.Background()

	asp := models.AspectEvent{BodyA: "sun", BodyB: "moon", Date: time.Unix(0, 0).UTC(), Orb: 10,
		Aspect: models.Aspect{Kind: models.Square, Remainder: 0.5}}
	require.NoError(t, pub.PublishAspect(ctx, asp))
	require.NoError(t, pub.PublishAspects(ctx, []models.AspectEvent{asp, asp}))
	require.NoError(t, pub.PublishAspects(ctx, nil))
	require.NoError(t, pub.PublishLayout(ctx, models.LayoutEvent{Latitude: 51.5, Longitude: -0.12, System: models.Koch}))

	require.Len(t, fp.sent, 4)
	assert.Equal(t, "astro.aspects", fp.sent[0].topic)
	assert.Equal(t, "sun|moon", fp.sent[0].key)
	assert.Equal(t, asp, fp.sent[0].value)
	assert.Equal(t, "astro.layouts", fp.sent[3].topic)
	assert.Equal(t, "koch|51.5|-0.12", fp.sent[3].key)
}

func TestKafkaEventPublisherWrapsErrors(t *testing.T) {
	cause := errors.New("broker down")
	pub := &KafkaEventPublisher{p: &fakeProducer{err: cause}}
	err := pub.PublishLayout(context.Background(), models.LayoutEvent{})
	assert.ErrorIs(t, err, cause)
}
