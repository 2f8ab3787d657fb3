package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"

	"github.com/shopspring/decimal"
)

// historyBars is how many closes feed the estimate.
const historyBars = 30

// StockDataUseCase fetches indicator and time-series data for one symbol and
// runs the estimate over the close series.
type StockDataUseCase struct {
	market    domrepo.MarketData
	estimator domrepo.Estimator
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewStockDataUseCase(market domrepo.MarketData, estimator domrepo.Estimator) *StockDataUseCase {
	return &StockDataUseCase{market: market, estimator: estimator}
}

// SetLogger injects a structured logger.
func (uc *StockDataUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetMetrics injects a metrics recorder.
func (uc *StockDataUseCase) SetMetrics(m domrepo.Metrics) { uc.metrics = m }

// Get launches the RSI and time-series fetches together and awaits both; if
// either fails the whole request fails. The close series then feeds the
// estimator and the merged payload is returned.
func (uc *StockDataUseCase) Get(ctx context.Context, symbol, interval string) (*models.StockDataResponse, error) {
	start := time.Now()

	var (
		rsi    json.RawMessage
		series *models.TimeSeriesResponse
		rsiErr error
		tsErr  error
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		rsi, rsiErr = uc.market.RSI(ctx, symbol, interval)
	}()
	go func() {
		defer wg.Done()
		series, tsErr = uc.market.TimeSeries(ctx, symbol, interval, historyBars)
	}()
	wg.Wait()

	if rsiErr != nil {
		uc.recordProviderError()
		return nil, fmt.Errorf("fetch rsi: %w", rsiErr)
	}
	if tsErr != nil {
		uc.recordProviderError()
		return nil, fmt.Errorf("fetch time series: %w", tsErr)
	}

	closes, err := series.Closes()
	if err != nil {
		uc.recordProviderError()
		return nil, fmt.Errorf("parse closes: %w", err)
	}
	if len(closes) == 0 {
		uc.recordProviderError()
		return nil, fmt.Errorf("empty time series for %s", symbol)
	}

	est, err := uc.estimator.Predict(ctx, models.EstimateInput{
		HistoricalPrices: closes,
		Symbol:           symbol,
		Interval:         interval,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordLastPrice(symbol, est.LastPrice)
		uc.metrics.RecordLatency("stock_data", time.Since(start).Seconds())
	}
	if uc.l != nil {
		uc.l.Info("stock data assembled",
			applogger.String("symbol", symbol),
			applogger.String("interval", interval),
			applogger.Int("bars", len(closes)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}

	return &models.StockDataResponse{
		RSI:        rsi,
		TimeSeries: series,
		Prediction: models.StockPrediction{
			NextDay:   round2(est.PredictedPrice),
			LastPrice: round2(est.LastPrice),
		},
	}, nil
}

func (uc *StockDataUseCase) recordProviderError() {
	if uc.metrics != nil {
		uc.metrics.RecordProviderError("twelvedata")
	}
}

// round2 rounds to two decimal places through a decimal intermediate to
// avoid float drift at the cent boundary.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
