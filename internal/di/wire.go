//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

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
		ProvideEventPublisher,
		ProvideCache,

		// Provider clients
		ProvideMarketData,
		ProvideNewsProvider,
		ProvideSymbolSearch,
		ProvideEstimator,

		// Repositories
		ProvidePredictionStore,

		// Use cases
		ProvideStockDataUseCase,
		ProvidePredictionsUseCase,
		ProvideReconciler,

		// Delivery
		ProvideHub,
		ProvideScheduler,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
