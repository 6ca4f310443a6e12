package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"AstroCore/internal/domain/models"
	domrepo "AstroCore/internal/domain/repository"
	domsvc "AstroCore/internal/domain/service"
	"AstroCore/internal/services/aspects"
	applogger "AstroCore/pkg/logger"
	"AstroCore/pkg/metrics"
)

// AspectService exposes the classifier with orb validation, metrics and
// event publication. The publisher may be nil.
type AspectService struct {
	engine    domsvc.PositionEngine
	name      string
	publisher domrepo.EventPublisher
	metrics   domrepo.Metrics
	log       *applogger.Logger
	timeout   time.Duration
}

func NewAspectService(engine domsvc.Engine, publisher domrepo.EventPublisher, m domrepo.Metrics, l *applogger.Logger) *AspectService {
	if m == nil {
		m = metrics.Nop{}
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &AspectService{
		engine:    engine,
		name:      engine.Name(),
		publisher: publisher,
		metrics:   m,
		log:       l.With(applogger.String("component", "aspects")),
		timeout:   10 * time.Second,
	}
}

func checkOrb(orb float64) error {
	if !aspects.ValidOrb(orb) {
		return fmt.Errorf("%w: %v", models.ErrInvalidOrb, orb)
	}
	return nil
}

// ClassifyLongitudes classifies two raw longitudes.
func (s *AspectService) ClassifyLongitudes(a, b, orb float64) (models.Aspect, bool, error) {
	if err := checkOrb(orb); err != nil {
		return models.Aspect{}, false, err
	}
	asp, ok := aspects.Classify(models.NewDegree(a), models.NewDegree(b), orb)
	s.record(asp, ok)
	return asp, ok, nil
}

// ClassifyBodies resolves both bodies at date and classifies them. A found
// aspect is published; publish failures are logged only.
func (s *AspectService) ClassifyBodies(ctx context.Context, pair models.Pair[models.Body, models.Body], date time.Time, orb float64) (models.Aspect, bool, error) {
	if err := checkOrb(orb); err != nil {
		return models.Aspect{}, false, err
	}
	start := time.Now()
	defer func() { s.metrics.RecordLatency("classify_bodies", time.Since(start).Seconds()) }()

	asp, ok, err := aspects.ClassifyPair(ctx, s.engine, pair, date, orb)
	if err != nil {
		s.engineFailed("classify_bodies", err)
		return models.Aspect{}, false, err
	}
	s.record(asp, ok)
	if ok && s.publisher != nil {
		ev := models.AspectEvent{BodyA: pair.A.BodyID(), BodyB: pair.B.BodyID(), Date: date.UTC(), Orb: orb, Aspect: asp}
		if perr := s.publisher.PublishAspect(ctx, ev); perr != nil {
			s.log.Warn("publish aspect failed", applogger.Error(perr))
		}
	}
	return asp, ok, nil
}

// Scan classifies every unordered pair of bodies at date. Each longitude is
// resolved once. Found aspects are returned in input order (i < j).
func (s *AspectService) Scan(ctx context.Context, bodies []models.Body, date time.Time, orb float64) ([]models.AspectEvent, error) {
	if err := checkOrb(orb); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { s.metrics.RecordLatency("scan", time.Since(start).Seconds()) }()

	lons, err := s.resolve(ctx, bodies, date)
	if err != nil {
		s.engineFailed("scan", err)
		return nil, err
	}

	found := make([]models.AspectEvent, 0)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			asp, ok := aspects.Classify(lons[i], lons[j], orb)
			s.record(asp, ok)
			if !ok {
				continue
			}
			found = append(found, models.AspectEvent{
				BodyA:  bodies[i].BodyID(),
				BodyB:  bodies[j].BodyID(),
				Date:   date.UTC(),
				Orb:    orb,
				Aspect: asp,
			})
		}
	}
	if len(found) > 0 && s.publisher != nil {
		if perr := s.publisher.PublishAspects(ctx, found); perr != nil {
			s.log.Warn("publish aspects failed", applogger.Int("count", len(found)), applogger.Error(perr))
		}
	}
	return found, nil
}

// resolve fetches all longitudes concurrently. The first error in input order
// is returned.
func (s *AspectService) resolve(ctx context.Context, bodies []models.Body, date time.Time) ([]models.Degree, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	lons := make([]models.Degree, len(bodies))
	errs := make([]error, len(bodies))
	var wg sync.WaitGroup
	for i, b := range bodies {
		wg.Add(1)
		go func(i int, b models.Body) {
			defer wg.Done()
			lons[i], errs[i] = s.engine.Longitude(ctx, b, date)
		}(i, b)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return lons, nil
}

func (s *AspectService) record(asp models.Aspect, ok bool) {
	if ok {
		s.metrics.RecordAspect(asp.Kind.String())
	} else {
		s.metrics.RecordAspect("none")
	}
}

func (s *AspectService) engineFailed(op string, err error) {
	reason := domrepo.ErrorReason(err)
	s.metrics.RecordEngineError(s.name, reason)
	fields := []applogger.Field{
		applogger.String("op", op),
		applogger.String("engine", s.name),
		applogger.String("reason", reason),
		applogger.Error(err),
	}
	// caller mistakes are not engine faults
	if errors.Is(err, models.ErrUnknownBody) || errors.Is(err, models.ErrOutOfEphemerisRange) {
		s.log.Warn("position lookup rejected", fields...)
		return
	}
	s.log.Error("position engine failed", fields...)
}
