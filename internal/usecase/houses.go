package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	domsvc "AstroCore/internal/domain/service"
	"AstroCore/internal/services/houses"
	"AstroCore/pkg/cache"
	applogger "AstroCore/pkg/logger"
	"AstroCore/pkg/metrics"
	"AstroCore/pkg/util"
)

// HouseService computes house layouts behind a cache, stores every freshly
// computed layout and announces it. Cache and publisher may be nil.
type HouseService struct {
	engine    domsvc.HouseEngine
	name      string
	cache     cache.Service
	cacheTTL  time.Duration
	store     domrepo.LayoutStore
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
	now       func() time.Time
}

type HouseServiceConfig struct {
	EngineName string
	Cache      cache.Service
	CacheTTL   time.Duration
	Store      domrepo.LayoutStore
	Publisher  domrepo.EventPublisher
	Metrics    domrepo.Metrics
	Logger     *applogger.Logger
}

func NewHouseService(engine domsvc.HouseEngine, cfg HouseServiceConfig) *HouseService {
	m := cfg.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	l := cfg.Logger
	if l == nil {
		l = applogger.Nop()
	}
	return &HouseService{
		engine:    engine,
		name:      cfg.EngineName,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		store:     cfg.Store,
		publisher: cfg.Publisher,
		metrics:   m,
		log:       l.With(applogger.String("component", "houses")),
		now:       time.Now,
	}
}

func layoutCacheKey(r models.LayoutRequest) string {
	return cache.GenerateKeyWithParams("houses", r.System, r.Date.UnixNano(), r.Latitude, r.Longitude)
}

// Compute returns the layout for r, from cache when possible.
func (s *HouseService) Compute(ctx context.Context, r models.LayoutRequest) (models.HouseLayout, error) {
	if !r.System.Valid() {
		return models.HouseLayout{}, fmt.Errorf("%w: %q", models.ErrUnsupportedHouseSystem, r.System)
	}
	r.Date = r.Date.UTC()
	start := time.Now()
	defer func() { s.metrics.RecordLatency("houses", time.Since(start).Seconds()) }()

	key := layoutCacheKey(r)
	if layout, ok := s.cached(ctx, key); ok {
		return layout, nil
	}

	layout, err := houses.Compute(ctx, s.engine, r.Date, r.Latitude, r.Longitude, r.System)
	if err != nil {
		s.engineFailed(r, err)
		return models.HouseLayout{}, err
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, key, layout, s.cacheTTL); cerr != nil {
			s.log.Warn("cache set failed", applogger.String("key", key), applogger.Error(cerr))
		}
	}

	if s.store != nil {
		stored := models.StoredLayout{
			Layout:     layout,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
			System:     r.System,
			ComputedAt: s.now().UTC(),
		}
		if err := s.store.Save(ctx, stored); err != nil {
			return models.HouseLayout{}, fmt.Errorf("store layout: %w", err)
		}
	}

	if s.publisher != nil {
		ev := models.LayoutEvent{Layout: layout, Latitude: r.Latitude, Longitude: r.Longitude, System: r.System}
		if perr := s.publisher.PublishLayout(ctx, ev); perr != nil {
			s.log.Warn("publish layout failed", applogger.Error(perr))
		}
	}
	return layout, nil
}

func (s *HouseService) cached(ctx context.Context, key string) (models.HouseLayout, bool) {
	if s.cache == nil {
		return models.HouseLayout{}, false
	}
	layout, err := cache.GetTyped[models.HouseLayout](ctx, s.cache, key)
	switch {
	case err == nil:
		s.metrics.RecordCache("hit")
		return layout, true
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.RecordCache("miss")
	default:
		s.metrics.RecordCache("error")
		s.log.Warn("cache get failed", applogger.String("key", key), applogger.Error(err))
	}
	return models.HouseLayout{}, false
}

// History returns stored layouts for one place and system, newest first.
// A reversed range is swapped.
func (s *HouseService) History(ctx context.Context, q models.HistoryQuery) ([]models.StoredLayout, error) {
	if s.store == nil {
		return nil, fmt.Errorf("layout history is not available")
	}
	q.From, q.To = util.OrderRange(q.From, q.To)
	return s.store.History(ctx, q)
}

func (s *HouseService) engineFailed(r models.LayoutRequest, err error) {
	reason := domrepo.ErrorReason(err)
	s.metrics.RecordEngineError(s.name, reason)
	fields := []applogger.Field{
		applogger.String("engine", s.name),
		applogger.String("system", string(r.System)),
		applogger.Float64("lat", r.Latitude),
		applogger.Float64("lon", r.Longitude),
		applogger.String("reason", reason),
		applogger.Error(err),
	}
	if errors.Is(err, models.ErrEngineInternal) || reason == "other" {
		s.log.Error("house engine failed", fields...)
		return
	}
	s.log.Warn("house engine rejected request", fields...)
}
