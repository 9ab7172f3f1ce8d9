// This file implements the process listing and contact edits of the local
// mirror, with the same filter, sort and paging semantics as GET /process.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

const processColumns = `p.id, p.batch_id, p.comarca, p.foro, p.vara, p.classe, p.processo,
    p.valor, p.requerido, p.contato, p.contato_realizado, p.observacoes,
    p.processed, p.error_count, p.last_error, p.created_at, p.updated_at`

const processFrom = ` FROM processes p`

// handle returns the open database or ErrStoreDetached.
func (b *Backend) handle() (*sql.DB, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.db, nil
}

// ListProcesses returns one page of processes matching params. The page
// size defaults to grid.DefaultPageSize and the page to the first.
func (b *Backend) ListProcesses(ctx context.Context, params types.ListParams) (types.ProcessPage, error) {
	db, err := b.handle()
	if err != nil {
		return types.ProcessPage{}, err
	}

	where, err := buildWhere(params)
	if err != nil {
		return types.ProcessPage{}, err
	}
	order, err := orderBy(params.Query.Sort)
	if err != nil {
		return types.ProcessPage{}, err
	}

	q := params.Query
	if q.Page < 1 {
		q.Page = grid.DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = grid.DefaultPageSize
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*)"+processFrom+where.String(), where.args...).Scan(&total); err != nil {
		return types.ProcessPage{}, fmt.Errorf("counting processes: %w", err)
	}

	query := "SELECT " + processColumns + processFrom + where.String() + order + " LIMIT ? OFFSET ?"
	args := append(where.args, q.PageSize, q.Offset())
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.ProcessPage{}, fmt.Errorf("listing processes: %w", err)
	}
	defer rows.Close()

	var items []types.Process
	for rows.Next() {
		p, err := hydrateProcess(rows)
		if err != nil {
			return types.ProcessPage{}, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return types.ProcessPage{}, fmt.Errorf("iterating processes: %w", err)
	}
	return types.NewProcessPage(items, total, q.Page, q.PageSize), nil
}

// UpdateContact applies u to the process and returns the stored row.
func (b *Backend) UpdateContact(ctx context.Context, id int64, u types.ContactUpdate) (types.Process, error) {
	if id <= 0 {
		return types.Process{}, types.ErrInvalidID
	}
	db, err := b.handle()
	if err != nil {
		return types.Process{}, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.Process{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := hydrateProcess(tx.QueryRowContext(ctx, "SELECT "+processColumns+processFrom+" WHERE p.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Process{}, types.ErrNotFound
		}
		return types.Process{}, fmt.Errorf("getting process %d: %w", id, err)
	}
	if u.IsEmpty() {
		return p, nil
	}

	u.Apply(&p)
	p.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		"UPDATE processes SET contato = ?, contato_realizado = ?, observacoes = ?, updated_at = ? WHERE id = ?",
		p.Contato, boolToInt(p.ContatoRealizado), p.Observacoes, formatTime(p.UpdatedAt), id,
	)
	if err != nil {
		return types.Process{}, fmt.Errorf("updating process %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return types.Process{}, fmt.Errorf("committing process %d: %w", id, err)
	}
	return p, nil
}

// UpsertProcesses inserts or replaces processes by ID in one transaction.
func (b *Backend) UpsertProcesses(ctx context.Context, processes []types.Process) error {
	db, err := b.handle()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO processes (
    id, batch_id, comarca, foro, vara, classe, processo, valor, requerido,
    contato, contato_realizado, observacoes, processed, error_count, last_error,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    batch_id = excluded.batch_id, comarca = excluded.comarca, foro = excluded.foro,
    vara = excluded.vara, classe = excluded.classe, processo = excluded.processo,
    valor = excluded.valor, requerido = excluded.requerido, contato = excluded.contato,
    contato_realizado = excluded.contato_realizado, observacoes = excluded.observacoes,
    processed = excluded.processed, error_count = excluded.error_count,
    last_error = excluded.last_error, created_at = excluded.created_at,
    updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing process upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range processes {
		created, updated := p.CreatedAt, p.UpdatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if updated.IsZero() {
			updated = created
		}
		_, err := stmt.ExecContext(ctx,
			p.ID, p.BatchID, p.Comarca, p.Foro, p.Vara, p.Classe, p.Processo,
			nullFloat(p.Valor), nullString(p.Requerido),
			p.Contato, boolToInt(p.ContatoRealizado), p.Observacoes,
			boolToInt(p.Processed), p.ErrorCount, p.LastError,
			formatTime(created), formatTime(updated),
		)
		if err != nil {
			return fmt.Errorf("upserting process %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing processes: %w", err)
	}
	return nil
}

// BatchProcesses returns every process of a batch in ID order.
func (b *Backend) BatchProcesses(ctx context.Context, batchID int64) ([]types.Process, error) {
	db, err := b.handle()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, "SELECT "+processColumns+processFrom+" WHERE p.batch_id = ? ORDER BY p.id", batchID)
	if err != nil {
		return nil, fmt.Errorf("listing batch %d: %w", batchID, err)
	}
	defer rows.Close()

	var out []types.Process
	for rows.Next() {
		p, err := hydrateProcess(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func hydrateProcess(s scanner) (types.Process, error) {
	var (
		p                           types.Process
		valor                       sql.NullFloat64
		requerido                   sql.NullString
		contatoRealizado, processed int
		createdAt, updatedAt        string
	)
	err := s.Scan(
		&p.ID, &p.BatchID, &p.Comarca, &p.Foro, &p.Vara, &p.Classe, &p.Processo,
		&valor, &requerido, &p.Contato, &contatoRealizado, &p.Observacoes,
		&processed, &p.ErrorCount, &p.LastError, &createdAt, &updatedAt,
	)
	if err != nil {
		return types.Process{}, err
	}
	if valor.Valid {
		v := valor.Float64
		p.Valor = &v
	}
	if requerido.Valid {
		r := requerido.String
		p.Requerido = &r
	}
	p.ContatoRealizado = contatoRealizado != 0
	p.Processed = processed != 0
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
