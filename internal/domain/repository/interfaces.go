package repository

import (
	"context"
	"encoding/json"

	"StockCast/internal/domain/models"
)

// PredictionStore persists per-user prediction records.
//
// Create assigns the identifier and server timestamp. ListByUser returns at
// most limit records; callers receive them sorted descending by CreatedAt
// regardless of store order. SetActualPrice is a single-field, set-once
// mutation; the set-once guarantee is enforced by the sweeper's candidate
// selection, not by the store (two concurrent sweeps may both write, last
// write wins).
type PredictionStore interface {
	Create(ctx context.Context, rec *models.PredictionRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.PredictionRecord, error)
	SetActualPrice(ctx context.Context, id string, value string) error
}

// MarketData is the technical-indicator/time-series provider.
type MarketData interface {
	// RSI returns the indicator payload verbatim.
	RSI(ctx context.Context, symbol, interval string) (json.RawMessage, error)
	// TimeSeries returns up to outputSize bars, most recent first.
	TimeSeries(ctx context.Context, symbol, interval string, outputSize int) (*models.TimeSeriesResponse, error)
	// LatestClose returns the close of the single most recent bar.
	LatestClose(ctx context.Context, symbol, interval string) (string, error)
}

// NewsProvider returns stock-market news, payload passed through verbatim.
type NewsProvider interface {
	TopStockNews(ctx context.Context) (json.RawMessage, error)
}

// SymbolSearch resolves a free-text query into quote suggestions.
type SymbolSearch interface {
	Search(ctx context.Context, query string) ([]models.QuoteSuggestion, error)
}

// Estimator turns a historical close series into a forecasted next price.
type Estimator interface {
	Predict(ctx context.Context, input models.EstimateInput) (models.EstimateOutput, error)
}

// EventPublisher emits prediction lifecycle events. Publishing is
// best-effort; failures must never surface to the HTTP caller.
type EventPublisher interface {
	Publish(ctx context.Context, event *models.PredictionEvent) error
	Close() error
}

// UpdateNotifier pushes sweep results to connected history views.
type UpdateNotifier interface {
	NotifyReconciled(userID string, updates []models.ReconciledPrediction)
}

// Metrics records operational measurements.
type Metrics interface {
	RecordPredictionCreated(interval string)
	RecordReconciliation(result string)
	RecordProviderError(provider string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
