package predictor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"StockCast/internal/domain/models"
)

func noSleep(_ context.Context, _ time.Duration) error { return nil }

// fixedRand returns values from the sequence, then 0.5 forever.
func fixedRand(seq ...float64) func() float64 {
	i := 0
	return func() float64 {
		if i < len(seq) {
			v := seq[i]
			i++
			return v
		}
		return 0.5
	}
}

func TestPredictEchoesLastPrice(t *testing.T) {
	m := New(WithRand(fixedRand()), WithSleep(noSleep))
	prices := []float64{103.2, 101.5, 100.9, 102.3, 99.8, 101.1, 100.0, 98.7, 97.2}

	out, err := m.Predict(context.Background(), models.EstimateInput{
		HistoricalPrices: prices, Symbol: "AAPL", Interval: "1day",
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if out.LastPrice != prices[0] {
		t.Fatalf("lastPrice %v != prices[0] %v", out.LastPrice, prices[0])
	}
}

func TestPredictConstantSeries(t *testing.T) {
	// rnd=0.5 makes the market factor exactly 1, so a flat series must
	// predict the last price unchanged.
	m := New(WithRand(fixedRand(0.5, 0.5)), WithSleep(noSleep))
	prices := []float64{100, 100, 100, 100, 100, 100, 100}

	out, err := m.Predict(context.Background(), models.EstimateInput{HistoricalPrices: prices})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if out.PredictedPrice != 100 {
		t.Fatalf("expected 100, got %v", out.PredictedPrice)
	}
}

func TestPredictConstantSeriesJitterBounds(t *testing.T) {
	prices := []float64{100, 100, 100, 100, 100, 100, 100}
	for _, r := range []float64{0, 0.25, 0.99} {
		m := New(WithRand(fixedRand(r, r)), WithSleep(noSleep))
		out, err := m.Predict(context.Background(), models.EstimateInput{HistoricalPrices: prices})
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if out.PredictedPrice < 99 || out.PredictedPrice > 101 {
			t.Fatalf("rnd=%v: predicted %v outside [99,101]", r, out.PredictedPrice)
		}
	}
}

func TestPredictKnownSeries(t *testing.T) {
	// First seven closes give changes summing to a known value; divisor is
	// fixed at 6 and the market factor is forced to 1.
	m := New(WithRand(fixedRand(0.5, 0.5)), WithSleep(noSleep))
	prices := []float64{110, 100, 110, 100, 110, 100, 110, 55, 10}

	var sum float64
	for i := 1; i < 7; i++ {
		sum += (prices[i] - prices[i-1]) / prices[i-1]
	}
	want := 110 * (1 + sum/6)

	out, err := m.Predict(context.Background(), models.EstimateInput{HistoricalPrices: prices})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(out.PredictedPrice-want) > 1e-9 {
		t.Fatalf("predicted %v, want %v", out.PredictedPrice, want)
	}
}

func TestPredictShortSeriesKeepsDivisorSix(t *testing.T) {
	m := New(WithRand(fixedRand(0.5, 0.5)), WithSleep(noSleep))
	prices := []float64{102, 100}

	want := 102 * (1 + ((100.0-102.0)/102.0)/6)
	out, err := m.Predict(context.Background(), models.EstimateInput{HistoricalPrices: prices})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(out.PredictedPrice-want) > 1e-9 {
		t.Fatalf("predicted %v, want %v", out.PredictedPrice, want)
	}
}

func TestPredictEmptySeries(t *testing.T) {
	m := New(WithSleep(noSleep))
	_, err := m.Predict(context.Background(), models.EstimateInput{})
	if !errors.Is(err, ErrPredictionFailed) {
		t.Fatalf("expected ErrPredictionFailed, got %v", err)
	}
}

func TestInferenceTimeOffHours(t *testing.T) {
	// Saturday noon: no market-hours multiplier; rnd=0.5 zeroes the jitter.
	sat := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := New(WithRand(fixedRand(0.5)), WithClock(func() time.Time { return sat }))

	if d := m.inferenceTime(30); d != 5*time.Second {
		t.Fatalf("30 bars off-hours: %v", d)
	}
}

func TestInferenceTimeMarketHours(t *testing.T) {
	// Tuesday 10:00: the 1.5x market-hours multiplier applies.
	tue := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	m := New(WithRand(fixedRand(0.5)), WithClock(func() time.Time { return tue }))

	if d := m.inferenceTime(30); d != 7500*time.Millisecond {
		t.Fatalf("30 bars market hours: %v", d)
	}
}

func TestInferenceTimeDataFactorCap(t *testing.T) {
	sat := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := New(WithRand(fixedRand(0.5)), WithClock(func() time.Time { return sat }))

	// 500 bars caps the data factor at 3 seconds.
	if d := m.inferenceTime(500); d != 5*time.Second {
		t.Fatalf("capped data factor: %v", d)
	}
}

func TestPredictCancelledContext(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Predict(ctx, models.EstimateInput{HistoricalPrices: []float64{100}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
