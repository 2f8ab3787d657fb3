package usecase

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// listLimit caps a single history read.
const listLimit = 100

// PredictionsUseCase creates and lists per-user prediction records.
type PredictionsUseCase struct {
	store   domrepo.PredictionStore
	events  domrepo.EventPublisher
	metrics domrepo.Metrics
	l       *applogger.Logger
}

func NewPredictionsUseCase(store domrepo.PredictionStore, events domrepo.EventPublisher) *PredictionsUseCase {
	return &PredictionsUseCase{store: store, events: events}
}

// SetLogger injects a structured logger.
func (uc *PredictionsUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// SetMetrics injects a metrics recorder.
func (uc *PredictionsUseCase) SetMetrics(m domrepo.Metrics) { uc.metrics = m }

// Store persists an estimate. The store assigns id and creation timestamp;
// the lifecycle event is published best-effort after the write.
func (uc *PredictionsUseCase) Store(ctx context.Context, req *models.StorePredictionRequest) error {
	rec := &models.PredictionRecord{
		UserID:         req.UserID,
		Symbol:         req.Symbol,
		Interval:       req.Interval,
		LastPrice:      req.LastPrice,
		PredictedPrice: req.PredictedPrice,
	}

	if err := uc.store.Create(ctx, rec); err != nil {
		return fmt.Errorf("store prediction: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.RecordPredictionCreated(rec.Interval)
	}

	if uc.events != nil {
		event := &models.PredictionEvent{
			Type:       models.EventPredictionCreated,
			UserID:     rec.UserID,
			Record:     rec,
			OccurredAt: time.Now().UTC(),
		}
		if err := uc.events.Publish(ctx, event); err != nil && uc.l != nil {
			uc.l.Warn("prediction created event publish failed",
				applogger.String("id", rec.ID),
				applogger.Error(err),
			)
		}
	}

	return nil
}

// List returns the user's records, newest first, capped at 100.
func (uc *PredictionsUseCase) List(ctx context.Context, userID string) ([]models.PredictionRecord, error) {
	recs, err := uc.store.ListByUser(ctx, userID, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return recs, nil
}
