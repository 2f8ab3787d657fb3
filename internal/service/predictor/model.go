package predictor

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"

	"StockCast/internal/domain/models"
)

// ErrPredictionFailed is returned for input the model cannot price.
var ErrPredictionFailed = errors.New("failed to generate price prediction")

// Model is a simulated inference backend. It averages the last six
// period-over-period changes of the close series, perturbs the result with a
// small random factor, and sleeps for a synthetic inference time. It is a
// stand-in for a real model API; the arithmetic is fixed so behavior stays
// reproducible under an injected random source.
type Model struct {
	rnd   func() float64
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures Model.
type Option func(*Model)

// WithRand injects the uniform [0,1) source.
func WithRand(f func() float64) Option {
	return func(m *Model) { m.rnd = f }
}

// WithClock injects the wall clock used for the market-hours check.
func WithClock(f func() time.Time) Option {
	return func(m *Model) { m.now = f }
}

// WithSleep injects the delay function.
func WithSleep(f func(ctx context.Context, d time.Duration) error) Option {
	return func(m *Model) { m.sleep = f }
}

// New creates a Model with real randomness, clock, and sleeping.
func New(opts ...Option) *Model {
	m := &Model{
		rnd:   rand.Float64,
		now:   time.Now,
		sleep: sleepContext,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Predict forecasts the next price for the series. Index 0 is the most
// recent close. The inference delay is awaited before any result is
// produced; it never influences the output value.
func (m *Model) Predict(ctx context.Context, input models.EstimateInput) (models.EstimateOutput, error) {
	if len(input.HistoricalPrices) == 0 {
		return models.EstimateOutput{}, ErrPredictionFailed
	}

	if err := m.sleep(ctx, m.inferenceTime(len(input.HistoricalPrices))); err != nil {
		return models.EstimateOutput{}, err
	}

	lastPrice := input.HistoricalPrices[0]
	predictedChange := m.inferChange(input.HistoricalPrices)

	return models.EstimateOutput{
		PredictedPrice: lastPrice * (1 + predictedChange),
		LastPrice:      lastPrice,
	}, nil
}

// inferenceTime emulates model latency: a 2s base, up to 3s more for larger
// inputs, 50% slower during market hours, plus ±500ms of jitter.
func (m *Model) inferenceTime(n int) time.Duration {
	const baseMS = 2000.0
	dataFactor := math.Min(float64(n)/10, 3)

	now := m.now()
	marketFactor := 1.0
	if day := now.Weekday(); day >= time.Monday && day <= time.Friday {
		if hour := now.Hour(); hour >= 9 && hour <= 16 {
			marketFactor = 1.5
		}
	}

	jitterMS := m.rnd()*1000 - 500
	ms := (baseMS+dataFactor*1000)*marketFactor + jitterMS
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// inferChange averages the fractional changes across the first seven closes.
// The divisor stays fixed at six even for shorter input.
func (m *Model) inferChange(prices []float64) float64 {
	window := prices
	if len(window) > 7 {
		window = window[:7]
	}

	var sum float64
	for i := 1; i < len(window); i++ {
		sum += (window[i] - window[i-1]) / window[i-1]
	}
	averageChange := sum / 6

	marketFactor := 1 + (m.rnd()*0.02 - 0.01)
	return averageChange * marketFactor
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
