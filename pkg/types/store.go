package types

import (
	"context"
	"errors"
)

// ProcessSource lists and edits processes.
type ProcessSource interface {
	// ListProcesses returns one page of processes matching params.
	ListProcesses(ctx context.Context, params ListParams) (ProcessPage, error)

	// UpdateContact applies u to the process and returns the stored row.
	// Returns ErrNotFound if no process exists with that ID.
	UpdateContact(ctx context.Context, id int64, u ContactUpdate) (Process, error)
}

// BatchSource lists, inspects and deletes import batches.
type BatchSource interface {
	// ListBatches returns every batch of system with its status attached.
	// An empty system lists the batches still being processed across all
	// systems.
	ListBatches(ctx context.Context, system System) ([]Batch, error)

	// BatchStatus returns the progress of one batch.
	BatchStatus(ctx context.Context, id int64, system System) (BatchStatus, error)

	// DeleteBatch removes the batch and all its processes.
	DeleteBatch(ctx context.Context, id int64, system System) error
}

// Store is a backend that serves the dashboard: the remote API gateway or
// the local sqlite mirror. Callers attach, use it, and detach when done.
type Store interface {
	ProcessSource
	BatchSource

	// Attach connects the store to the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
