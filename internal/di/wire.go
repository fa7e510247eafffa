//go:build wireinject
// +build wireinject

package di

import (
	"ZoneFlow/pkg/config"
	"ZoneFlow/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideCache,

		// Repositories
		ProvideSampleStore,
		ProvideZoneStorage,
		ProvideZonePublisher,

		// Strategies and use cases
		ProvideShapeStrategy,
		ProvideDivergenceStrategy,
		ProvideVolumeStrategy,
		ProvideFeatureExtractor,
		ProvideZoneRunUseCase,
		ProvideKafkaRunsHandler,

		// HTTP
		ProvideZonesHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
