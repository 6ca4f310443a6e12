//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"AstroCore/pkg/config"
	"AstroCore/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,
		ProvideKafkaMetrics,

		// Engines
		ProvideEngine,
		ProvideHouseEngine,

		// Infrastructure
		ProvideCache,
		ProvideLayoutStore,
		ProvideKafkaProducer,
		ProvideEventPublisher,
		ProvideKafkaConsumer,
		ProvideRateLimiter,

		// Use cases
		ProvideAspectService,
		ProvideHouseService,
		ProvideLayoutRequestHandler,

		// Transport
		ProvideAstroHandler,
		ProvideHTTPServer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
