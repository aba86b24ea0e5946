//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/xsteinzy/betting-analysis-system/pkg/config"
	"github.com/xsteinzy/betting-analysis-system/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideBytesCache,

		// Repositories
		ProvidePredictionStore,
		ProvideResultStore,

		// Use cases
		ProvideOrchestrator,

		// HTTP surface
		ProvideBacktestsHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
