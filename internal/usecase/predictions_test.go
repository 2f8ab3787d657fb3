package usecase

import (
	"context"
	"errors"
	"testing"

	"StockCast/internal/domain/models"
)

func TestStorePublishesCreatedEvent(t *testing.T) {
	store := &fakeStore{}
	events := &fakeEvents{}
	metrics := &fakeMetrics{}

	uc := NewPredictionsUseCase(store, events)
	uc.SetMetrics(metrics)

	req := &models.StorePredictionRequest{
		UserID:         "u1",
		Symbol:         "AAPL",
		Interval:       "1day",
		LastPrice:      "187.00",
		PredictedPrice: "189.42",
	}
	if err := uc.Store(context.Background(), req); err != nil {
		t.Fatalf("store: %v", err)
	}
	if len(store.recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(store.recs))
	}
	if len(events.events) != 1 || events.events[0].Type != models.EventPredictionCreated {
		t.Fatalf("expected created event, got %+v", events.events)
	}
	if len(metrics.created) != 1 || metrics.created[0] != "1day" {
		t.Fatalf("expected created metric for 1day, got %v", metrics.created)
	}
}

func TestStoreSucceedsWhenPublishFails(t *testing.T) {
	store := &fakeStore{}
	events := &fakeEvents{err: errors.New("brokers unreachable")}

	uc := NewPredictionsUseCase(store, events)

	req := &models.StorePredictionRequest{UserID: "u1", Symbol: "AAPL", Interval: "1day"}
	if err := uc.Store(context.Background(), req); err != nil {
		t.Fatalf("store should not fail on publish error: %v", err)
	}
	if len(store.recs) != 1 {
		t.Fatalf("record not persisted")
	}
}

func TestStorePropagatesWriteFailure(t *testing.T) {
	store := &fakeStore{createErr: errors.New("connection refused")}

	uc := NewPredictionsUseCase(store, nil)

	req := &models.StorePredictionRequest{UserID: "u1", Symbol: "AAPL", Interval: "1day"}
	if err := uc.Store(context.Background(), req); err == nil {
		t.Fatalf("expected error when store write fails")
	}
}

func TestListPropagatesStoreError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("connection refused")}

	uc := NewPredictionsUseCase(store, nil)

	if _, err := uc.List(context.Background(), "u1"); err == nil {
		t.Fatalf("expected error when store read fails")
	}
}

func TestListReturnsUserRecords(t *testing.T) {
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "a", UserID: "u1", Symbol: "AAPL"},
		{ID: "b", UserID: "u2", Symbol: "MSFT"},
		{ID: "c", UserID: "u1", Symbol: "NVDA"},
	}}

	uc := NewPredictionsUseCase(store, nil)

	recs, err := uc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}
