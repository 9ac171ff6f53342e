package chathub

import (
	"context"
	"time"

	"videomatch/backend/internal/models"
)

// StatsSink receives periodic hub counters, e.g. Redis for the admin CLI
// and for other instances' dashboards.
type StatsSink interface {
	PublishStats(ctx context.Context, s models.Stats) error
}

// StartStatsPublisher pushes a snapshot of the hub counters to sink every
// interval until ctx is done. A non-positive interval disables it.
func (m *ManagerService) StartStatsPublisher(ctx context.Context, sink StatsSink, interval time.Duration) {
	if sink == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = m.publishStats(ctx, sink)
			}
		}
	}()
}

func (m *ManagerService) publishStats(ctx context.Context, sink StatsSink) error {
	snap, err := m.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := sink.PublishStats(ctx, snap.Stats); err != nil {
		m.log.Warn("failed to publish stats", "err", err)
		return err
	}
	return nil
}
