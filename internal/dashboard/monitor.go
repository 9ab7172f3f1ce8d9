package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// Snapshot is one poll of the batch monitor.
type Snapshot struct {
	At      time.Time
	Batches []types.Batch
	Stats   types.BatchStats
}

// Monitor polls the batches of a system at a fixed interval.
type Monitor struct {
	src      types.BatchSource
	system   types.System
	interval time.Duration
	log      *slog.Logger
}

// NewMonitor returns a monitor of system's batches; an empty system
// watches the unfinished batches of every system. A non-positive interval
// uses types.DefaultPollInterval.
func NewMonitor(src types.BatchSource, system types.System, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = types.DefaultPollInterval
	}
	return &Monitor{src: src, system: system, interval: interval, log: slog.Default()}
}

// Interval returns the poll interval.
func (m *Monitor) Interval() time.Duration { return m.interval }

// Snapshot polls once.
func (m *Monitor) Snapshot(ctx context.Context) (Snapshot, error) {
	batches, err := m.src.ListBatches(ctx, m.system)
	if err != nil {
		return Snapshot{}, err
	}
	s := Snapshot{At: time.Now(), Batches: batches}
	for _, b := range batches {
		s.Stats.Add(b.Status)
	}
	return s, nil
}

// Run polls immediately and then every interval, handing each snapshot or
// error to fn, until ctx is done. Poll errors do not stop the monitor.
func (m *Monitor) Run(ctx context.Context, fn func(Snapshot, error)) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		s, err := m.Snapshot(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Warn("polling batches failed", "system", m.system, "error", err)
		}
		fn(s, err)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Delete removes a batch of the monitored system.
func (m *Monitor) Delete(ctx context.Context, id int64, system types.System) error {
	if system == "" {
		system = m.system
	}
	return m.src.DeleteBatch(ctx, id, system)
}
