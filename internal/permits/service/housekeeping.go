package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/permits/internal/permits/store"
	"github.com/aussiebroadwan/permits/pkg/promx"
)

const (
	DefaultHousekeepingInterval = time.Hour
	DefaultAuditRetention       = 90 * 24 * time.Hour
)

// HousekeepingService periodically prunes audit events older than the
// retention period so the table does not grow without bound.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration
	Metrics   *promx.Metrics

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a housekeeping service. Non-positive
// interval or retention fall back to the defaults.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	interval, retention time.Duration,
	metrics *promx.Metrics,
) *HousekeepingService {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	if retention <= 0 {
		retention = DefaultAuditRetention
	}

	return &HousekeepingService{
		Store:     store,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		Metrics:   metrics,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start runs the cleanup loop in the background. Call Stop to end it.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	go s.run()
	s.Logger.Info("housekeeping service started",
		slog.Duration("interval", s.Interval),
		slog.Duration("retention", s.Retention),
	)
}

// Stop ends the background loop and waits for any in-progress cleanup.
// It is a no-op if the loop was never started or is already stopped.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.stopped {
		s.stopped = true
		return
	}
	s.stopped = true

	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	if _, err := s.Cleanup(context.Background(), time.Now()); err != nil {
		s.Logger.Error("housekeeping cleanup failed", slog.Any("error", err))
	}
}

// Cleanup deletes audit events older than now minus the retention period
// and returns how many were removed.
func (s *HousekeepingService) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.Retention)
	n, err := s.Store.AuditEvents().DeleteAuditEventsBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.Metrics.AuditPruned(n)
	s.Logger.Info("housekeeping cleanup completed",
		slog.Int64("audit_events_deleted", n),
		slog.Time("cutoff", cutoff),
	)
	return n, nil
}
