package dashboard

import (
	"context"
	"log/slog"

	"github.com/sourcegraph/conc/pool"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// statusFetchers caps the concurrent status requests of Stats.
const statusFetchers = 4

// Overview is the dashboard home: totals across the batches in progress.
type Overview struct {
	Batches []types.Batch
	Stats   types.BatchStats
}

// Stats lists the unfinished batches of every system and aggregates their
// process counts. Batches listed without a status get it fetched in
// parallel; a failed status fetch counts the batch with no processes.
func Stats(ctx context.Context, src types.BatchSource) (Overview, error) {
	batches, err := src.ListBatches(ctx, "")
	if err != nil {
		return Overview{}, err
	}

	p := pool.New().WithMaxGoroutines(statusFetchers)
	for i := range batches {
		if batches[i].Status != nil {
			continue
		}
		p.Go(func() {
			b := &batches[i]
			st, err := src.BatchStatus(ctx, b.ID, b.System)
			if err != nil {
				slog.Warn("loading batch status failed", "batch", b.ID, "error", err)
				return
			}
			b.Status = &st
		})
	}
	p.Wait()

	ov := Overview{Batches: batches}
	for _, b := range batches {
		ov.Stats.Add(b.Status)
	}
	return ov, nil
}
