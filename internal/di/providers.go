package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"AstroCore/internal/domain/models"
	"AstroCore/internal/domain/repository"
	domsvc "AstroCore/internal/domain/service"
	"AstroCore/internal/handler/api"
	internalrepo "AstroCore/internal/repository"
	"AstroCore/internal/service/ratelimit"
	"AstroCore/internal/services/ephemeris"
	"AstroCore/internal/services/houses"
	"AstroCore/internal/usecase"
	"AstroCore/pkg/cache"
	pkgch "AstroCore/pkg/clickhouse"
	"AstroCore/pkg/config"
	xhttp "AstroCore/pkg/http"
	pkgkafka "AstroCore/pkg/kafka"
	applogger "AstroCore/pkg/logger"
	"AstroCore/pkg/metrics"
	"AstroCore/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates the Prometheus registry shared by every metric
// family, with the process and Go runtime collectors attached.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideKafkaMetrics creates the producer/consumer metric families.
func ProvideKafkaMetrics(reg *prometheus.Registry) *pkgkafka.Metrics {
	return pkgkafka.NewMetrics(reg)
}

// ProvideEngine creates the ephemeris backend selected by engine.type.
func ProvideEngine(cfg *config.Config) (domsvc.Engine, error) {
	switch cfg.Engine.Type {
	case "http":
		return ephemeris.NewHTTPEngine(cfg.Engine.URL, cfg.Engine.Timeout, cfg.Engine.Retries), nil
	case "fixture":
		e, err := ephemeris.LoadFixtureEngine(cfg.Engine.FixturePath)
		if err != nil {
			return nil, fmt.Errorf("fixture engine: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown engine type %q", cfg.Engine.Type)
	}
}

// ProvideHouseEngine serializes house calls when the engine is not reentrant.
func ProvideHouseEngine(cfg *config.Config, engine domsvc.Engine) domsvc.HouseEngine {
	if cfg.Engine.Reentrant {
		return engine
	}
	return houses.Serialize(engine)
}

// ProvideCache creates the layout cache. cache.type none yields nil.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	switch cfg.Cache.Type {
	case "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}

	rc, err := cache.NewRedisCache(cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.PoolSize / 2,
		Prefix:       cfg.Redis.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	if cfg.Cache.Type == "layered" {
		return cache.NewLayeredCache(rc,
			cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
			cache.WithLayeredMemoryTTL(cfg.Cache.TTL),
		), nil
	}
	return rc, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(cfg.ClickHouse.MaxOpenConns, cfg.ClickHouse.MaxIdleConns),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		pkgch.WithCompression(cfg.ClickHouse.Compress && !cfg.ClickHouse.UseHTTP),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideLayoutStore creates the layout store selected by storage.type. The
// ClickHouse schema is created on startup.
func ProvideLayoutStore(cfg *config.Config, l *applogger.Logger) (repository.LayoutStore, error) {
	if cfg.Storage.Type != "clickhouse" {
		return internalrepo.NewMemoryLayoutStore(), nil
	}
	client, err := ProvideClickHouseClient(cfg)
	if err != nil {
		return nil, err
	}
	store := internalrepo.NewCHLayoutStore(client, l)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is off.
func ProvideKafkaProducer(cfg *config.Config, m *pkgkafka.Metrics, l *applogger.Logger) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithProducerMetrics(m),
		pkgkafka.WithProducerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher wraps the producer, or returns nil when Kafka is off.
func ProvideEventPublisher(cfg *config.Config, p *pkgkafka.Producer) repository.EventPublisher {
	if p == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(p, cfg.Kafka.AspectTopic, cfg.Kafka.LayoutTopic)
}

// ProvideAspectService creates the aspect use case.
func ProvideAspectService(engine domsvc.Engine, pub repository.EventPublisher, m repository.Metrics, l *applogger.Logger) *usecase.AspectService {
	return usecase.NewAspectService(engine, pub, m, l)
}

// ProvideHouseService creates the house use case.
func ProvideHouseService(
	cfg *config.Config,
	engine domsvc.Engine,
	he domsvc.HouseEngine,
	c cache.Service,
	store repository.LayoutStore,
	pub repository.EventPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.HouseService {
	return usecase.NewHouseService(he, usecase.HouseServiceConfig{
		EngineName: engine.Name(),
		Cache:      c,
		CacheTTL:   cfg.Cache.TTL,
		Store:      store,
		Publisher:  pub,
		Metrics:    m,
		Logger:     l,
	})
}

// ProvideLayoutRequestHandler registers the handler for layout requests.
func ProvideLayoutRequestHandler(cfg *config.Config, hs *usecase.HouseService) *usecase.LayoutRequestHandler {
	return usecase.NewLayoutRequestHandler(cfg.Kafka.RequestTopic, hs)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML, or nil
// when consumption is off.
func ProvideKafkaConsumer(cfg *config.Config, m *pkgkafka.Metrics, l *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
		pkgkafka.WithConsumerMetrics(m),
		pkgkafka.WithConsumerLogger(l),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NewHookChain(pkgkafka.TraceHook{}, pkgkafka.LoggingHook{Log: l}))
	return consumer, nil
}

// ProvideRateLimiter creates the per-client limiter, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	rl := cfg.Server.RateLimit
	if !rl.Enabled {
		return nil
	}
	return ratelimit.New(rl.Burst, rl.PerSec, rl.MaxIdle)
}

// ProvideAstroHandler creates the HTTP handler with its health checks.
func ProvideAstroHandler(
	cfg *config.Config,
	as *usecase.AspectService,
	hs *usecase.HouseService,
	store repository.LayoutStore,
	c cache.Service,
	l *applogger.Logger,
) (*api.AstroHandler, error) {
	system, err := models.ParseHouseSystem(cfg.Astro.HouseSystem)
	if err != nil {
		return nil, fmt.Errorf("astro.house_system: %w", err)
	}
	checks := []api.HealthCheck{{Name: "store", Check: store.Health}}
	if p, ok := c.(cache.Pinger); ok {
		checks = append(checks, api.HealthCheck{Name: "cache", Check: p.Ping})
	}
	return api.NewAstroHandler(as, hs, api.AstroHandlerConfig{
		DefaultOrb:    cfg.Astro.DefaultOrb,
		DefaultSystem: system,
		Checks:        checks,
		Logger:        l,
	}), nil
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, h *api.AstroHandler, limiter *ratelimit.Limiter, reg *prometheus.Registry, l *applogger.Logger) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithSlowRequest(cfg.Server.SlowRequest),
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithRateLimit(limiter))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(reg, reg, cfg.Metrics.Path))
	}
	return xhttp.NewServer(h, l, opts...)
}

// ProvideApp assembles the lifecycle. The log digest, when enabled, ships
// through the same producer as domain events.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	consumer *pkgkafka.Consumer,
	requests *usecase.LayoutRequestHandler,
	limiter *ratelimit.Limiter,
	producer *pkgkafka.Producer,
	c cache.Service,
	store repository.LayoutStore,
) *server.App {
	if producer != nil && cfg.Logger.Digest.Enabled {
		l.AttachDigest(&applogger.DigestConfig{
			Interval:  cfg.Logger.Digest.Interval,
			MaxUnique: cfg.Logger.Digest.MaxUnique,
			Topic:     cfg.Logger.Digest.Topic,
			Publisher: producer,
		})
	}

	deps := server.Deps{
		Logger:          l,
		HTTPServer:      srv,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if consumer != nil {
		deps.Consumer = consumer
		deps.Handlers = []pkgkafka.MessageHandler{requests}
	}
	if limiter != nil {
		deps.Background = append(deps.Background, func(stop <-chan struct{}) {
			limiter.Run(cfg.Server.RateLimit.Sweep, stop)
		})
	}
	if producer != nil {
		deps.Closers = append(deps.Closers, server.Closer{Name: "kafka producer", Close: producer.Close})
	}
	if c != nil {
		deps.Closers = append(deps.Closers, server.Closer{Name: "cache", Close: c.Close})
	}
	deps.Closers = append(deps.Closers, server.Closer{Name: "layout store", Close: store.Close})
	return server.New(deps)
}
