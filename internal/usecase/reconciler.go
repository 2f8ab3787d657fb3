package usecase

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
)

// Reconciler sweeps a user's unresolved prediction records and fills in the
// later-observed price for the ones whose forecast horizon has elapsed.
//
// The sweep is sequential: one external fetch at a time, and any per-record
// failure skips that record without aborting the rest. Scheduling is the
// caller's responsibility; this type only performs a single pass.
type Reconciler struct {
	store    domrepo.PredictionStore
	market   domrepo.MarketData
	events   domrepo.EventPublisher
	notifier domrepo.UpdateNotifier
	metrics  domrepo.Metrics
	l        *applogger.Logger
	now      func() time.Time
}

func NewReconciler(store domrepo.PredictionStore, market domrepo.MarketData) *Reconciler {
	return &Reconciler{store: store, market: market, now: time.Now}
}

// SetLogger injects a structured logger.
func (r *Reconciler) SetLogger(l *applogger.Logger) { r.l = l }

// SetMetrics injects a metrics recorder.
func (r *Reconciler) SetMetrics(m domrepo.Metrics) { r.metrics = m }

// SetEvents injects the lifecycle event publisher.
func (r *Reconciler) SetEvents(e domrepo.EventPublisher) { r.events = e }

// SetNotifier injects the live-update push target.
func (r *Reconciler) SetNotifier(n domrepo.UpdateNotifier) { r.notifier = n }

// SetClock injects the wall clock used for due checks.
func (r *Reconciler) SetClock(now func() time.Time) { r.now = now }

// Sweep examines every record of the user that still lacks an actual price.
// Records whose elapsed time since creation meets the interval's duration get
// the latest close fetched and written back. Returns only the records that
// were successfully updated.
func (r *Reconciler) Sweep(ctx context.Context, userID string) ([]models.ReconciledPrediction, error) {
	if userID == "" {
		return nil, xhttp.UnauthorizedError("Authentication required")
	}

	recs, err := r.store.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("load predictions: %w", err)
	}

	now := r.now()
	updated := make([]models.ReconciledPrediction, 0)

	for i := range recs {
		rec := &recs[i]
		// A record that already carries an observed price is never a
		// candidate; actualPrice is set at most once.
		if rec.Reconciled() {
			continue
		}
		if now.Sub(rec.CreatedAt) < domrepo.IntervalDuration(rec.Interval) {
			continue
		}

		price, err := r.market.LatestClose(ctx, rec.Symbol, rec.Interval)
		if err != nil {
			r.skip(rec.ID, "fetch latest close", err)
			continue
		}

		if err := r.store.SetActualPrice(ctx, rec.ID, price); err != nil {
			r.skip(rec.ID, "write actual price", err)
			continue
		}

		updated = append(updated, models.ReconciledPrediction{
			ID:          rec.ID,
			Symbol:      rec.Symbol,
			ActualPrice: price,
		})
		if r.metrics != nil {
			r.metrics.RecordReconciliation("updated")
		}
	}

	if len(updated) > 0 {
		r.announce(ctx, userID, updated)
	}

	return updated, nil
}

func (r *Reconciler) skip(id, op string, err error) {
	if r.l != nil {
		r.l.Warn("reconciliation skipped record",
			applogger.String("id", id),
			applogger.String("op", op),
			applogger.Error(err),
		)
	}
	if r.metrics != nil {
		r.metrics.RecordReconciliation("skipped")
	}
}

func (r *Reconciler) announce(ctx context.Context, userID string, updated []models.ReconciledPrediction) {
	if r.events != nil {
		event := &models.PredictionEvent{
			Type:       models.EventPredictionReconciled,
			UserID:     userID,
			Reconciled: updated,
			OccurredAt: time.Now().UTC(),
		}
		if err := r.events.Publish(ctx, event); err != nil && r.l != nil {
			r.l.Warn("reconciled event publish failed",
				applogger.String("user_id", userID),
				applogger.Error(err),
			)
		}
	}
	if r.notifier != nil {
		r.notifier.NotifyReconciled(userID, updated)
	}
}
