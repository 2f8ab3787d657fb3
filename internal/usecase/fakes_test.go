package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"StockCast/internal/domain/models"
)

type fakeStore struct {
	mu        sync.Mutex
	recs      []models.PredictionRecord
	listErr   error
	createErr error
	setErr    map[string]error
	setCalls  []string
}

func (s *fakeStore) Create(_ context.Context, rec *models.PredictionRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("rec-%d", len(s.recs)+1)
	}
	s.recs = append(s.recs, *rec)
	return nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID string, limit int) ([]models.PredictionRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.PredictionRecord, 0)
	for _, r := range s.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) SetActualPrice(_ context.Context, id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls = append(s.setCalls, id)
	if err, ok := s.setErr[id]; ok {
		return err
	}
	for i := range s.recs {
		if s.recs[i].ID == id {
			s.recs[i].ActualPrice = value
		}
	}
	return nil
}

type fakeMarket struct {
	rsi       json.RawMessage
	rsiErr    error
	series    *models.TimeSeriesResponse
	seriesErr error

	closes    map[string]string
	closeErr  map[string]error
	fetchLog  []string
	fetchLock sync.Mutex
}

func (m *fakeMarket) RSI(context.Context, string, string) (json.RawMessage, error) {
	return m.rsi, m.rsiErr
}

func (m *fakeMarket) TimeSeries(context.Context, string, string, int) (*models.TimeSeriesResponse, error) {
	return m.series, m.seriesErr
}

func (m *fakeMarket) LatestClose(_ context.Context, symbol, _ string) (string, error) {
	m.fetchLock.Lock()
	m.fetchLog = append(m.fetchLog, symbol)
	m.fetchLock.Unlock()
	if err, ok := m.closeErr[symbol]; ok {
		return "", err
	}
	return m.closes[symbol], nil
}

type fakeEstimator struct {
	out models.EstimateOutput
	err error
	got models.EstimateInput
}

func (e *fakeEstimator) Predict(_ context.Context, in models.EstimateInput) (models.EstimateOutput, error) {
	e.got = in
	return e.out, e.err
}

type fakeEvents struct {
	mu     sync.Mutex
	events []*models.PredictionEvent
	err    error
}

func (e *fakeEvents) Publish(_ context.Context, event *models.PredictionEvent) error {
	if e.err != nil {
		return e.err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, event)
	return nil
}

func (e *fakeEvents) Close() error { return nil }

type fakeNotifier struct {
	userID  string
	updates []models.ReconciledPrediction
	calls   int
}

func (n *fakeNotifier) NotifyReconciled(userID string, updates []models.ReconciledPrediction) {
	n.userID = userID
	n.updates = updates
	n.calls++
}

type fakeMetrics struct {
	mu              sync.Mutex
	created         []string
	reconciliations []string
	providerErrors  []string
}

func (m *fakeMetrics) RecordPredictionCreated(interval string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, interval)
}

func (m *fakeMetrics) RecordReconciliation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciliations = append(m.reconciliations, result)
}

func (m *fakeMetrics) RecordProviderError(provider string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providerErrors = append(m.providerErrors, provider)
}

func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}

func seriesOf(closes ...string) *models.TimeSeriesResponse {
	values := make([]models.TimeSeriesValue, len(closes))
	for i, c := range closes {
		values[i] = models.TimeSeriesValue{Close: c}
	}
	return &models.TimeSeriesResponse{
		Meta:   models.TimeSeriesMeta{Symbol: "AAPL", Interval: "1day"},
		Values: values,
		Status: "ok",
	}
}
