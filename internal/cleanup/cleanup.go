package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/agrotech/fieldwatch/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const EventReadingsPruned = "readings.pruned"

// CleanupService enforces the reading retention period
type CleanupService struct {
	readings repository.ReadingRepository
	maxAge   time.Duration
	events   *nuts.EventEmitter
	now      func() time.Time
}

// New creates a new CleanupService. A maxAge <= 0 keeps readings forever.
func New(readings repository.ReadingRepository, maxAge time.Duration) *CleanupService {
	return &CleanupService{
		readings: readings,
		maxAge:   maxAge,
		events:   nuts.NewEventEmitter(),
		now:      time.Now,
	}
}

// PruneReadings deletes readings older than the retention period and emits
// EventReadingsPruned with the number of deleted rows.
func (s *CleanupService) PruneReadings(ctx context.Context) (int64, error) {
	if s.maxAge <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.maxAge)
	deleted, err := s.readings.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune readings before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if deleted > 0 {
		s.events.Emit(EventReadingsPruned, deleted)
	}
	return deleted, nil
}

// Run prunes on every tick until ctx is done.
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	nuts.L.Infof("[Cleanup] Retention job started: max age %s, every %s", s.maxAge, interval)
	for {
		select {
		case <-ctx.Done():
			nuts.L.Infof("[Cleanup] Retention job stopped")
			return
		case <-ticker.C:
			if _, err := s.PruneReadings(ctx); err != nil {
				nuts.L.Errorf("[Cleanup] %v", err)
			}
		}
	}
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(count int64)) {
	s.events.On(event, "cleanup_handler", func(args ...interface{}) {
		if len(args) > 0 {
			if count, ok := args[0].(int64); ok {
				handler(count)
			}
		}
	})
}
