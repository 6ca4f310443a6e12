package server

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "AstroCore/pkg/http"
	pkgkafka "AstroCore/pkg/kafka"
	applogger "AstroCore/pkg/logger"
)

// Closer releases one infrastructure resource on shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// Background is a loop that runs until stop is closed.
type Background func(stop <-chan struct{})

// Deps are the components App runs. Consumer may be nil.
type Deps struct {
	Logger          *applogger.Logger
	HTTPServer      *xhttp.Server
	Consumer        *pkgkafka.Consumer
	Handlers        []pkgkafka.MessageHandler
	Background      []Background
	Closers         []Closer
	ShutdownTimeout time.Duration
}

// App encapsulates the entire application lifecycle.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	handlers        []pkgkafka.MessageHandler
	background      []Background
	closers         []Closer
	shutdownTimeout time.Duration
	stop            chan struct{}
}

// New creates a new App instance with all dependencies.
func New(d Deps) *App {
	l := d.Logger
	if l == nil {
		l = applogger.Nop()
	}
	timeout := d.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &App{
		log:             l,
		httpServer:      d.HTTPServer,
		consumer:        d.Consumer,
		handlers:        d.Handlers,
		background:      d.Background,
		closers:         d.Closers,
		shutdownTimeout: timeout,
		stop:            make(chan struct{}),
	}
}

// Run starts the application and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return a.RunContext(ctx)
}

// RunContext starts every component and blocks until ctx is done, then shuts
// down in reverse dependency order.
func (a *App) RunContext(ctx context.Context) error {
	for _, bg := range a.background {
		go bg(a.stop)
	}

	// Start consumer if configured
	if a.consumer != nil && len(a.handlers) > 0 {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			a.log.Info("kafka handler registered", applogger.String("topic", h.Topic()))
		}
		if err := a.consumer.Start(); err != nil {
			a.log.Error("kafka consumer start error", applogger.Error(err))
			a.shutdown()
			return err
		}
	}

	// Start HTTP server
	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			a.shutdown()
			return err
		}
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first (HTTP, consumer), then background loops, then
// releases infrastructure. The log digest is flushed before the closers run
// because it publishes through the Kafka producer.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
			errs = append(errs, err)
		}
	}

	close(a.stop)
	a.log.DetachDigest()

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", c.Name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
