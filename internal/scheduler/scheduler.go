package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	applogger "StockCast/pkg/logger"

	"github.com/robfig/cron/v3"
)

// defaultCadence is how often a watched user's records are swept.
const defaultCadence = 5 * time.Minute

// sweepTimeout bounds one full pass over a user's records.
const sweepTimeout = 2 * time.Minute

// Sweeper runs one reconciliation pass for a user.
type Sweeper interface {
	Sweep(ctx context.Context, userID string) ([]models.ReconciledPrediction, error)
}

// Scheduler runs periodic reconciliation sweeps for watched users. A user
// becomes watched when they first touch their prediction history and stays
// watched until Unwatch or shutdown.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	cadence time.Duration
	l       *applogger.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

type Option func(*Scheduler)

// WithCadence overrides the sweep period.
func WithCadence(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cadence = d
		}
	}
}

func New(sweeper Sweeper, opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		cadence: defaultCadence,
		entries: make(map[string]cron.EntryID),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetLogger injects a structured logger.
func (s *Scheduler) SetLogger(l *applogger.Logger) { s.l = l }

// Start begins dispatching scheduled sweeps.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Watch registers a user for periodic sweeps. Watching an already watched
// user is a no-op.
func (s *Scheduler) Watch(userID string) error {
	if userID == "" {
		return fmt.Errorf("watch: empty user id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[userID]; ok {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.cadence)
	id, err := s.cron.AddFunc(spec, func() { s.run(userID) })
	if err != nil {
		return fmt.Errorf("schedule sweep for %s: %w", userID, err)
	}
	s.entries[userID] = id

	if s.l != nil {
		s.l.Info("watching user for reconciliation",
			applogger.String("user_id", userID),
			applogger.Duration("cadence", s.cadence),
		)
	}
	return nil
}

// Unwatch stops periodic sweeps for a user.
func (s *Scheduler) Unwatch(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.entries[userID]
	if !ok {
		return
	}
	s.cron.Remove(id)
	delete(s.entries, userID)
}

// Watched reports whether the user currently has a scheduled sweep.
func (s *Scheduler) Watched(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	return ok
}

// Close stops the scheduler and waits for any in-flight sweep to finish.
func (s *Scheduler) Close() error {
	ctx := s.cron.Stop()
	<-ctx.Done()
	return nil
}

func (s *Scheduler) run(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	updated, err := s.sweeper.Sweep(ctx, userID)
	if err != nil {
		if s.l != nil {
			s.l.Error("scheduled sweep failed",
				applogger.String("user_id", userID),
				applogger.Error(err),
			)
		}
		return
	}
	if len(updated) > 0 && s.l != nil {
		s.l.Info("scheduled sweep updated records",
			applogger.String("user_id", userID),
			applogger.Int("updated", len(updated)),
		)
	}
}
