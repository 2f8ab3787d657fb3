package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"StockCast/internal/domain/models"
	pkgch "StockCast/pkg/clickhouse"
	applogger "StockCast/pkg/logger"

	"github.com/google/uuid"
)

// CHPredictionStore implements PredictionStore backed by ClickHouse.
type CHPredictionStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
	now   func() time.Time
}

// NewCHPredictionStore creates a store writing to <database>.predictions.
func NewCHPredictionStore(ch *pkgch.Client, database string) *CHPredictionStore {
	return &CHPredictionStore{
		db:    ch.DB(),
		table: database + ".predictions",
		now:   time.Now,
	}
}

// SetLogger injects a structured logger.
func (s *CHPredictionStore) SetLogger(l *applogger.Logger) { s.l = l }

// Schema returns idempotent DDL for the prediction store.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.predictions (
            id String,
            user_id String,
            symbol String,
            interval String,
            last_price String,
            predicted_price String,
            actual_price String DEFAULT '',
            created_at DateTime64(3, 'UTC')
        ) ENGINE = MergeTree ORDER BY (user_id, created_at)`, database),
	}
}

// Create assigns the identifier and server timestamp, then inserts. The
// passed record is updated in place so callers can emit it onward.
func (s *CHPredictionStore) Create(ctx context.Context, rec *models.PredictionRecord) error {
	start := time.Now()
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()

	q := fmt.Sprintf(`
        INSERT INTO %s (id, user_id, symbol, interval, last_price, predicted_price, actual_price, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, s.table)
	_, err := s.db.ExecContext(ctx, q,
		rec.ID, rec.UserID, rec.Symbol, rec.Interval,
		rec.LastPrice, rec.PredictedPrice, rec.ActualPrice, rec.CreatedAt,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse create_prediction error",
				applogger.String("user_id", rec.UserID),
				applogger.String("symbol", rec.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("create prediction: %w", err)
	}
	if s.l != nil {
		s.l.Debug("clickhouse create_prediction ok",
			applogger.String("id", rec.ID),
			applogger.String("user_id", rec.UserID),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// ListByUser reads up to limit records for one user. Store order is
// unspecified; the result is re-sorted descending by created_at here.
func (s *CHPredictionStore) ListByUser(ctx context.Context, userID string, limit int) ([]models.PredictionRecord, error) {
	start := time.Now()
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	q := fmt.Sprintf(`
        SELECT id, user_id, symbol, interval, last_price, predicted_price, actual_price, created_at
        FROM %s
        WHERE user_id = ?
        LIMIT ?
    `, s.table)
	rows, err := s.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_predictions query error",
				applogger.String("user_id", userID),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]models.PredictionRecord, 0, limit)
	for rows.Next() {
		var rec models.PredictionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Symbol, &rec.Interval,
			&rec.LastPrice, &rec.PredictedPrice, &rec.ActualPrice, &rec.CreatedAt); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse list_predictions scan error",
					applogger.String("user_id", userID),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	SortByCreatedAtDesc(out)

	if s.l != nil {
		s.l.Debug("clickhouse list_predictions ok",
			applogger.String("user_id", userID),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// SetActualPrice adds the observed price to one record. The mutation is
// guarded on an empty actual_price so a reconciled record is never rewritten
// by a straggling sweep.
func (s *CHPredictionStore) SetActualPrice(ctx context.Context, id string, value string) error {
	q := fmt.Sprintf(`ALTER TABLE %s UPDATE actual_price = ? WHERE id = ? AND actual_price = ''`, s.table)
	if _, err := s.db.ExecContext(ctx, q, value, id); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse set_actual_price error",
				applogger.String("id", id),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("set actual price: %w", err)
	}
	return nil
}

// SortByCreatedAtDesc orders records newest first.
func SortByCreatedAtDesc(recs []models.PredictionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
}
