package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestSweepRequiresUser(t *testing.T) {
	r := NewReconciler(&fakeStore{}, &fakeMarket{})

	_, err := r.Sweep(context.Background(), "")
	if err == nil {
		t.Fatalf("expected error for empty user")
	}
	var appErr *xhttp.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Status != 401 || appErr.Message != "Authentication required" {
		t.Fatalf("got status %d message %q", appErr.Status, appErr.Message)
	}
}

func TestSweepUpdatesDueRecords(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "due", UserID: "u1", Symbol: "AAPL", Interval: "1day", CreatedAt: now.Add(-25 * time.Hour)},
		{ID: "fresh", UserID: "u1", Symbol: "MSFT", Interval: "1day", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	market := &fakeMarket{closes: map[string]string{"AAPL": "187.44"}}

	r := NewReconciler(store, market)
	r.SetClock(fixedClock(now))

	updated, err := r.Sweep(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(updated) != 1 {
		t.Fatalf("expected 1 update, got %d", len(updated))
	}
	if updated[0].ID != "due" || updated[0].ActualPrice != "187.44" {
		t.Fatalf("unexpected update: %+v", updated[0])
	}
	if len(market.fetchLog) != 1 || market.fetchLog[0] != "AAPL" {
		t.Fatalf("fetched symbols %v, want only AAPL", market.fetchLog)
	}
	if store.recs[0].ActualPrice != "187.44" {
		t.Fatalf("store not updated: %+v", store.recs[0])
	}
}

func TestSweepSkipsAlreadyReconciled(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "done", UserID: "u1", Symbol: "AAPL", Interval: "1day", CreatedAt: now.Add(-48 * time.Hour), ActualPrice: "180.00"},
	}}
	market := &fakeMarket{closes: map[string]string{"AAPL": "187.44"}}

	r := NewReconciler(store, market)
	r.SetClock(fixedClock(now))

	updated, err := r.Sweep(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(updated) != 0 {
		t.Fatalf("expected no updates, got %d", len(updated))
	}
	if len(market.fetchLog) != 0 {
		t.Fatalf("fetched %v for a reconciled record", market.fetchLog)
	}
}

func TestSweepContinuesPastFetchFailure(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "bad", UserID: "u1", Symbol: "FAIL", Interval: "1day", CreatedAt: now.Add(-30 * time.Hour)},
		{ID: "good", UserID: "u1", Symbol: "AAPL", Interval: "1day", CreatedAt: now.Add(-30 * time.Hour)},
	}}
	market := &fakeMarket{
		closes:   map[string]string{"AAPL": "187.44"},
		closeErr: map[string]error{"FAIL": errors.New("upstream down")},
	}
	metrics := &fakeMetrics{}

	r := NewReconciler(store, market)
	r.SetClock(fixedClock(now))
	r.SetMetrics(metrics)

	updated, err := r.Sweep(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != "good" {
		t.Fatalf("expected good record updated, got %+v", updated)
	}
	if len(metrics.reconciliations) != 2 {
		t.Fatalf("expected skipped+updated, got %v", metrics.reconciliations)
	}
	if metrics.reconciliations[0] != "skipped" || metrics.reconciliations[1] != "updated" {
		t.Fatalf("unexpected reconciliation results %v", metrics.reconciliations)
	}
}

func TestSweepRespectsIntervalHorizon(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		// 1month means 30 days; 25 days elapsed is not due yet.
		{ID: "month", UserID: "u1", Symbol: "AAPL", Interval: "1month", CreatedAt: now.Add(-25 * 24 * time.Hour)},
		{ID: "week", UserID: "u1", Symbol: "MSFT", Interval: "1week", CreatedAt: now.Add(-8 * 24 * time.Hour)},
	}}
	market := &fakeMarket{closes: map[string]string{"MSFT": "420.10", "AAPL": "187.44"}}

	r := NewReconciler(store, market)
	r.SetClock(fixedClock(now))

	updated, err := r.Sweep(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(updated) != 1 || updated[0].ID != "week" {
		t.Fatalf("expected only weekly record due, got %+v", updated)
	}
}

func TestSweepAnnouncesUpdates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "due", UserID: "u1", Symbol: "AAPL", Interval: "1day", CreatedAt: now.Add(-25 * time.Hour)},
	}}
	market := &fakeMarket{closes: map[string]string{"AAPL": "187.44"}}
	events := &fakeEvents{}
	notifier := &fakeNotifier{}

	r := NewReconciler(store, market)
	r.SetClock(fixedClock(now))
	r.SetEvents(events)
	r.SetNotifier(notifier)

	if _, err := r.Sweep(context.Background(), "u1"); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(events.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Type != models.EventPredictionReconciled || ev.UserID != "u1" || len(ev.Reconciled) != 1 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if notifier.calls != 1 || notifier.userID != "u1" || len(notifier.updates) != 1 {
		t.Fatalf("notifier not called as expected: %+v", notifier)
	}
}

func TestSweepNoAnnounceWithoutUpdates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{recs: []models.PredictionRecord{
		{ID: "fresh", UserID: "u1", Symbol: "AAPL", Interval: "1day", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	events := &fakeEvents{}
	notifier := &fakeNotifier{}

	r := NewReconciler(store, &fakeMarket{})
	r.SetClock(fixedClock(now))
	r.SetEvents(events)
	r.SetNotifier(notifier)

	updated, err := r.Sweep(context.Background(), "u1")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(updated) != 0 {
		t.Fatalf("expected no updates, got %+v", updated)
	}
	if len(events.events) != 0 || notifier.calls != 0 {
		t.Fatalf("announced with nothing to announce")
	}
}
