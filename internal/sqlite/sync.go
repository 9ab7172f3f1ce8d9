// This file implements the sync that fills the local mirror from a remote
// store and records each run in sync_runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// SyncPageSize is the page size used to pull processes.
const SyncPageSize = 200

// SyncSource is the remote side of a sync.
type SyncSource interface {
	types.ProcessSource
	types.BatchSource
}

// SyncRun is one recorded sync.
type SyncRun struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Batches    int
	Processes  int
	Error      string
}

// Sync copies every batch of every system and every process from src into
// the mirror. Local contact edits are overwritten by the remote values.
// The run is recorded even when it fails.
func (b *Backend) Sync(ctx context.Context, src SyncSource) (SyncRun, error) {
	db, err := b.handle()
	if err != nil {
		return SyncRun{}, err
	}
	run := SyncRun{RunID: generateUUID(), StartedAt: time.Now().UTC()}
	if _, err := db.ExecContext(ctx, "INSERT INTO sync_runs (run_id, started_at) VALUES (?, ?)",
		run.RunID, formatTime(run.StartedAt)); err != nil {
		return SyncRun{}, fmt.Errorf("recording sync run: %w", err)
	}

	syncErr := b.pull(ctx, src, &run)
	run.FinishedAt = time.Now().UTC()
	if syncErr != nil {
		run.Error = syncErr.Error()
	}
	// Record the outcome even if ctx was cancelled mid-run.
	_, err = db.ExecContext(context.WithoutCancel(ctx),
		"UPDATE sync_runs SET finished_at = ?, batches = ?, processes = ?, error = ? WHERE run_id = ?",
		formatTime(run.FinishedAt), run.Batches, run.Processes, run.Error, run.RunID,
	)
	if syncErr != nil {
		return run, syncErr
	}
	if err != nil {
		return run, fmt.Errorf("finishing sync run: %w", err)
	}
	return run, nil
}

func (b *Backend) pull(ctx context.Context, src SyncSource, run *SyncRun) error {
	for _, sys := range types.Systems {
		batches, err := src.ListBatches(ctx, sys)
		if err != nil {
			return fmt.Errorf("listing %s batches: %w", sys, err)
		}
		for i := range batches {
			if batches[i].System == "" {
				batches[i].System = sys
			}
		}
		if err := b.UpsertBatches(ctx, batches); err != nil {
			return err
		}
		run.Batches += len(batches)
		slog.Debug("synced batches", "system", sys, "count", len(batches))
	}

	params := types.NewListParams()
	params.Query.PageSize = SyncPageSize
	for page := 1; ; page++ {
		params.Query = params.Query.WithPage(page)
		res, err := src.ListProcesses(ctx, params)
		if err != nil {
			return fmt.Errorf("listing processes page %d: %w", page, err)
		}
		if err := b.UpsertProcesses(ctx, res.Items); err != nil {
			return err
		}
		run.Processes += len(res.Items)
		if page >= res.TotalPages || len(res.Items) == 0 {
			break
		}
	}
	slog.Debug("synced processes", "count", run.Processes)
	return nil
}

// LastSync returns the most recent sync run. Returns types.ErrNotFound if
// the mirror was never synced.
func (b *Backend) LastSync(ctx context.Context) (SyncRun, error) {
	db, err := b.handle()
	if err != nil {
		return SyncRun{}, err
	}
	var (
		run      SyncRun
		started  string
		finished sql.NullString
	)
	err = db.QueryRowContext(ctx,
		"SELECT run_id, started_at, finished_at, batches, processes, error FROM sync_runs ORDER BY started_at DESC, run_id DESC LIMIT 1",
	).Scan(&run.RunID, &started, &finished, &run.Batches, &run.Processes, &run.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SyncRun{}, types.ErrNotFound
		}
		return SyncRun{}, fmt.Errorf("reading last sync: %w", err)
	}
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished.String)
	return run, nil
}
