package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"AstroCore/internal/domain/models"
)

type stubEngine struct {
	lons   map[string]float64
	houses func(buf *models.HouseBuffers) error

	mu         sync.Mutex
	houseCalls int
}

func (e *stubEngine) Name() string { return "stub" }

func (e *stubEngine) Longitude(_ context.Context, b models.Body, _ time.Time) (models.Degree, error) {
	v, ok := e.lons[strings.ToLower(b.BodyID())]
	if !ok {
		return models.Degree{}, models.ErrUnknownBody
	}
	return models.NewDegree(v), nil
}

func (e *stubEngine) Houses(_ context.Context, _, _, _ float64, _ models.HouseSystem, buf *models.HouseBuffers) error {
	e.mu.Lock()
	e.houseCalls++
	e.mu.Unlock()
	if e.houses == nil {
		return models.ErrEngineInternal
	}
	return e.houses(buf)
}

func (e *stubEngine) calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.houseCalls
}

func equalHouses(buf *models.HouseBuffers) error {
	buf.ASCMC[0], buf.ASCMC[1] = 15, 285
	for i := 1; i <= 12; i++ {
		buf.Cusps[i] = 15 + float64(i-1)*30
	}
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	aspects []models.AspectEvent
	batches int
	layouts []models.LayoutEvent
	err     error
}

func (p *recordingPublisher) PublishAspect(_ context.Context, e models.AspectEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.aspects = append(p.aspects, e)
	return nil
}

func (p *recordingPublisher) PublishAspects(_ context.Context, es []models.AspectEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.batches++
	p.aspects = append(p.aspects, es...)
	return nil
}

func (p *recordingPublisher) PublishLayout(_ context.Context, e models.LayoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.layouts = append(p.layouts, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMetrics struct {
	mu           sync.Mutex
	aspects      map[string]int
	engineErrors map[string]int
	cache        map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{aspects: map[string]int{}, engineErrors: map[string]int{}, cache: map[string]int{}}
}

func (m *recordingMetrics) RecordAspect(kind string) {
	m.mu.Lock()
	m.aspects[kind]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordEngineError(engine, reason string) {
	m.mu.Lock()
	m.engineErrors[engine+"/"+reason]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordCache(result string) {
	m.mu.Lock()
	m.cache[result]++
	m.mu.Unlock()
}

func (m *recordingMetrics) RecordLatency(string, float64) {}

type failingStore struct{}

func (failingStore) Save(context.Context, models.StoredLayout) error { return errors.New("disk full") }
func (failingStore) History(context.Context, models.HistoryQuery) ([]models.StoredLayout, error) {
	return nil, nil
}
func (failingStore) Health(context.Context) error { return nil }
func (failingStore) Close() error                 { return nil }
