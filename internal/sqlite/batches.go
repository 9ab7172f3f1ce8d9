package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// batchAggregate selects each batch with its process counts. A process
// that is not processed and has errors counts as errored.
const batchAggregate = `SELECT b.id, b.system, b.state, b.process_date, b.description, b.processed,
    COUNT(p.id),
    COALESCE(SUM(CASE WHEN p.processed = 1 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN p.processed = 0 AND p.error_count > 0 THEN 1 ELSE 0 END), 0)
FROM batches b LEFT JOIN processes p ON p.batch_id = b.id`

// UpsertBatches inserts or replaces batches by ID. The embedded status is
// not stored; it is recomputed from the mirrored processes.
func (b *Backend) UpsertBatches(ctx context.Context, batches []types.Batch) error {
	db, err := b.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, bt := range batches {
		_, err := tx.ExecContext(ctx, `INSERT INTO batches (id, system, state, process_date, description, processed)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    system = excluded.system, state = excluded.state, process_date = excluded.process_date,
    description = excluded.description, processed = excluded.processed`,
			bt.ID, string(bt.System), bt.State, formatTime(bt.ProcessDate), bt.Description, boolToInt(bt.Processed),
		)
		if err != nil {
			return fmt.Errorf("upserting batch %d: %w", bt.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batches: %w", err)
	}
	return nil
}

// ListBatches returns the batches of system, newest first, with their
// computed status. An empty system returns the unfinished batches of every
// system.
func (b *Backend) ListBatches(ctx context.Context, system types.System) ([]types.Batch, error) {
	db, err := b.handle()
	if err != nil {
		return nil, err
	}
	query := batchAggregate
	var args []any
	if system != "" {
		query += " WHERE b.system = ?"
		args = append(args, string(system))
	}
	query += " GROUP BY b.id ORDER BY b.id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	out := []types.Batch{}
	for rows.Next() {
		bt, err := hydrateBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		if system == "" && bt.Status.Status == types.BatchCompleted {
			continue
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

// BatchStatus returns the computed progress of one batch of system.
func (b *Backend) BatchStatus(ctx context.Context, id int64, system types.System) (types.BatchStatus, error) {
	bt, err := b.batch(ctx, id, system)
	if err != nil {
		return types.BatchStatus{}, err
	}
	return *bt.Status, nil
}

// DeleteBatch removes the batch and its processes in one transaction.
func (b *Backend) DeleteBatch(ctx context.Context, id int64, system types.System) error {
	if _, err := b.batch(ctx, id, system); err != nil {
		return err
	}
	db, err := b.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM processes WHERE batch_id = ?", id); err != nil {
		return fmt.Errorf("deleting batch processes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM batches WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting batch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch deletion: %w", err)
	}
	return nil
}

// batch loads one batch. A non-empty system must match the stored one.
func (b *Backend) batch(ctx context.Context, id int64, system types.System) (types.Batch, error) {
	if id <= 0 {
		return types.Batch{}, types.ErrInvalidID
	}
	db, err := b.handle()
	if err != nil {
		return types.Batch{}, err
	}
	query := batchAggregate + " WHERE b.id = ?"
	args := []any{id}
	if system != "" {
		query += " AND b.system = ?"
		args = append(args, string(system))
	}
	query += " GROUP BY b.id"

	bt, err := hydrateBatch(db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Batch{}, types.ErrNotFound
		}
		return types.Batch{}, fmt.Errorf("getting batch %d: %w", id, err)
	}
	return bt, nil
}

func hydrateBatch(s scanner) (types.Batch, error) {
	var (
		bt                      types.Batch
		system, processDate     string
		processed               int
		total, done, withErrors int
	)
	if err := s.Scan(&bt.ID, &system, &bt.State, &processDate, &bt.Description, &processed, &total, &done, &withErrors); err != nil {
		return types.Batch{}, err
	}
	bt.System = types.System(system)
	bt.ProcessDate = parseTime(processDate)
	bt.Processed = processed != 0
	st := types.ComputeBatchStatus(bt.ID, total, done, withErrors)
	bt.Status = &st
	return bt, nil
}
