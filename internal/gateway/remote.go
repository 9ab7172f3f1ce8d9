package gateway

import (
	"context"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// Remote is the types.Store backed by the REST API.
type Remote struct {
	opts      []Option
	client    *Client
	processes *ProcessService
}

// NewRemote returns a detached remote store. opts are applied to the
// client created on Attach.
func NewRemote(opts ...Option) *Remote {
	return &Remote{opts: opts}
}

// Attach creates the API client for config.APIURL.
func (r *Remote) Attach(config types.Config) error {
	if r.client != nil {
		return types.ErrAlreadyAttached
	}
	if config.APIURL == "" {
		return types.ErrAPIURLEmpty
	}
	opts := append([]Option{WithTimeout(config.RequestTimeout)}, r.opts...)
	c, err := New(config.APIURL, opts...)
	if err != nil {
		return err
	}
	r.client = c
	r.processes = NewProcessService(c)
	return nil
}

// Detach drops the client. Idempotent.
func (r *Remote) Detach() error {
	r.client = nil
	r.processes = nil
	return nil
}

// Client returns the attached API client, or nil.
func (r *Remote) Client() *Client { return r.client }

// Processes returns the process endpoints, or nil when detached.
func (r *Remote) Processes() *ProcessService { return r.processes }

// ListProcesses implements types.ProcessSource.
func (r *Remote) ListProcesses(ctx context.Context, params types.ListParams) (types.ProcessPage, error) {
	if r.processes == nil {
		return types.ProcessPage{}, types.ErrStoreDetached
	}
	return r.processes.ListProcesses(ctx, params)
}

// UpdateContact implements types.ProcessSource.
func (r *Remote) UpdateContact(ctx context.Context, id int64, u types.ContactUpdate) (types.Process, error) {
	if r.processes == nil {
		return types.Process{}, types.ErrStoreDetached
	}
	return r.processes.UpdateContact(ctx, id, u)
}

// ListBatches implements types.BatchSource.
func (r *Remote) ListBatches(ctx context.Context, system types.System) ([]types.Batch, error) {
	if r.processes == nil {
		return nil, types.ErrStoreDetached
	}
	return r.processes.ListBatches(ctx, system)
}

// BatchStatus implements types.BatchSource.
func (r *Remote) BatchStatus(ctx context.Context, id int64, system types.System) (types.BatchStatus, error) {
	if r.processes == nil {
		return types.BatchStatus{}, types.ErrStoreDetached
	}
	return r.processes.BatchStatus(ctx, id, system)
}

// DeleteBatch implements types.BatchSource.
func (r *Remote) DeleteBatch(ctx context.Context, id int64, system types.System) error {
	if r.processes == nil {
		return types.ErrStoreDetached
	}
	return r.processes.DeleteBatch(ctx, id, system)
}
