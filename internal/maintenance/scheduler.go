package maintenance

import (
	"context"
	"time"

	"github.com/yourusername/ludbot/internal/output"
)

// EventStore is the part of the database the scheduler prunes
type EventStore interface {
	PruneEvents(cutoff time.Time) (int64, error)
}

// Scheduler removes events older than the retention period on a fixed
// interval
type Scheduler struct {
	store     EventStore
	logger    output.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// New creates a new maintenance scheduler. A zero retention disables pruning.
func New(store EventStore, logger output.Logger, interval, retention time.Duration) *Scheduler {
	return &Scheduler{
		store:     store,
		logger:    logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Enabled reports whether the scheduler has anything to do
func (s *Scheduler) Enabled() bool {
	return s.retention > 0 && s.interval > 0
}

// Run prunes on every tick until ctx is cancelled. It always returns nil;
// cleanup failures are logged.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	s.logger.Info("Starting event cleanup (every %v, keeping %v)", s.interval, s.retention)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RunCleanup(); err != nil {
				s.logger.Error("Event cleanup failed: %v", err)
			}
		}
	}
}

// RunCleanup deletes events past the retention period once
func (s *Scheduler) RunCleanup() (int64, error) {
	startTime := s.now()
	removed, err := s.store.PruneEvents(startTime.Add(-s.retention))
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Success("Event cleanup removed %d events in %.2f seconds",
			removed, s.now().Sub(startTime).Seconds())
	}
	return removed, nil
}
