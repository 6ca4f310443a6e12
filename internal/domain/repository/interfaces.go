package repository

import (
	"context"

	"AstroCore/internal/domain/models"
)

// LayoutStore persists computed house layouts.
type LayoutStore interface {
	Save(ctx context.Context, l models.StoredLayout) error
	History(ctx context.Context, q models.HistoryQuery) ([]models.StoredLayout, error)
	Health(ctx context.Context) error
	Close() error
}

// EventPublisher emits domain events to downstream consumers.
type EventPublisher interface {
	PublishAspect(ctx context.Context, e models.AspectEvent) error
	PublishAspects(ctx context.Context, es []models.AspectEvent) error
	PublishLayout(ctx context.Context, e models.LayoutEvent) error
	Close() error
}

type Metrics interface {
	RecordAspect(kind string)
	RecordEngineError(engine, reason string)
	RecordCache(result string)
	RecordLatency(op string, seconds float64)
}
