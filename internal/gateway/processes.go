package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// ProcessService wraps the /process endpoints.
type ProcessService struct {
	c *Client
}

// NewProcessService returns the process endpoints of c.
func NewProcessService(c *Client) *ProcessService { return &ProcessService{c: c} }

// ListProcesses returns one page of the process listing.
func (s *ProcessService) ListProcesses(ctx context.Context, params types.ListParams) (types.ProcessPage, error) {
	query, err := params.Values()
	if err != nil {
		return types.ProcessPage{}, fmt.Errorf("listing processes: %w", err)
	}
	var page types.ProcessPage
	if err := s.c.getJSON(ctx, "/process", query, &page); err != nil {
		return types.ProcessPage{}, fmt.Errorf("listing processes: %w", err)
	}
	if page.Items == nil {
		page.Items = []types.Process{}
	}
	if page.TotalPages == 0 {
		page.TotalPages = types.TotalPages(page.Total, page.Limit)
	}
	return page, nil
}

// UpdateContact patches the contact fields of a process.
func (s *ProcessService) UpdateContact(ctx context.Context, id int64, u types.ContactUpdate) (types.Process, error) {
	if id <= 0 {
		return types.Process{}, types.ErrInvalidID
	}
	var p types.Process
	path := "/process/" + strconv.FormatInt(id, 10) + "/contact"
	if err := s.c.sendJSON(ctx, http.MethodPatch, path, nil, u, &p); err != nil {
		return types.Process{}, fmt.Errorf("updating process %d: %w", id, err)
	}
	return p, nil
}

// BatchStatus returns the progress of a batch.
func (s *ProcessService) BatchStatus(ctx context.Context, id int64, system types.System) (types.BatchStatus, error) {
	var st types.BatchStatus
	err := s.c.getJSON(ctx, "/process/batch/"+strconv.FormatInt(id, 10), systemQuery(system), &st)
	return st, err
}

// DeleteBatch removes a batch and its processes.
func (s *ProcessService) DeleteBatch(ctx context.Context, id int64, system types.System) error {
	return s.c.sendJSON(ctx, http.MethodDelete, "/process/batch/"+strconv.FormatInt(id, 10), systemQuery(system), nil, nil)
}

// ListProcessingBatches lists the batches being processed across systems.
func (s *ProcessService) ListProcessingBatches(ctx context.Context) ([]types.Batch, error) {
	var out []types.Batch
	if err := s.c.getJSON(ctx, "/process/batch", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListBatches lists every batch of system through its court endpoint, or
// the batches in processing when system is empty.
func (s *ProcessService) ListBatches(ctx context.Context, system types.System) ([]types.Batch, error) {
	if system == "" {
		return s.ListProcessingBatches(ctx)
	}
	return NewCourtService(s.c, system).ListAllBatches(ctx)
}

// ExportBatch streams the Excel export of a batch to w.
func (s *ProcessService) ExportBatch(ctx context.Context, id int64, w io.Writer) (int64, error) {
	return s.c.download(ctx, "/process/export/batch/"+strconv.FormatInt(id, 10), w)
}

func systemQuery(system types.System) url.Values {
	if system == "" {
		return nil
	}
	return url.Values{"system": {string(system)}}
}
