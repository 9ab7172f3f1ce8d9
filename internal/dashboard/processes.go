package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// LoadRequest is a listing request issued by Processes.Request.
type LoadRequest struct {
	Seq    int
	Params types.ListParams
}

// LoadResult is the outcome of a LoadRequest.
type LoadResult struct {
	Seq  int
	Page types.ProcessPage
	Err  error
}

// Edit is a contact edit applied optimistically to a displayed row and
// awaiting persistence.
type Edit struct {
	Seq      int
	ID       int64
	Field    string
	Value    any
	Previous any
	Update   types.ContactUpdate
}

// cell identifies one editable field of one process.
type cell struct {
	id    int64
	field string
}

// cellEdits tracks the unresolved edits of a cell. base is the last value
// known to be stored; latest is the Seq of the newest commit.
type cellEdits struct {
	latest       int
	open         int
	base         any
	latestFailed bool
}

// EditResult is the outcome of saving an Edit.
type EditResult struct {
	Edit    Edit
	Updated types.Process
	Err     error
}

// Processes hosts the process grid: it owns the engine, the current query
// and the global filters, and turns grid edits into contact updates with
// rollback on failure. Except for Fetch and Save, methods must be called
// from the goroutine that drives the engine.
type Processes struct {
	src     types.ProcessSource
	batches types.BatchSource
	engine  *grid.Engine
	log     *slog.Logger

	query     grid.Query
	processed *bool
	system    types.System
	batchID   *int64
	options   []types.BatchOption

	seq     int
	page    types.ProcessPage
	rows    []*types.Process
	pending []Edit
	editSeq int
	cells   map[cell]*cellEdits
	lastErr error
}

// NewProcesses returns a host listing from src. batches serves the batch
// options of the global batch filter and may be nil.
func NewProcesses(src types.ProcessSource, batches types.BatchSource, pageSize int) *Processes {
	if pageSize < 1 {
		pageSize = types.DefaultPageSize
	}
	p := &Processes{src: src, batches: batches, log: slog.Default(), cells: map[cell]*cellEdits{}}
	p.engine = grid.New(ProcessColumns(),
		grid.WithEditable(true),
		grid.WithPageSize(pageSize),
		grid.WithQueryFunc(p.setQuery),
		grid.WithEditFunc(p.queueEdit),
	)
	p.query = p.engine.Query()
	return p
}

// Engine returns the grid engine the host drives.
func (p *Processes) Engine() *grid.Engine { return p.engine }

// Params returns the listing params for the current state.
func (p *Processes) Params() types.ListParams {
	return types.ListParams{
		Query:     p.query,
		Processed: p.processed,
		BatchID:   p.batchID,
		System:    p.system,
	}
}

// setQuery receives engine query changes; paging restarts at page one.
func (p *Processes) setQuery(q grid.Query) {
	p.query = q.WithPage(1)
}

// SetProcessed sets the processed global filter; nil means all.
func (p *Processes) SetProcessed(v *bool) {
	p.processed = v
	p.query = p.query.WithPage(1)
}

// Processed returns the processed global filter.
func (p *Processes) Processed() *bool { return p.processed }

// SetSystem selects the court system. Changing it clears the batch filter
// and the batch options; load them again with LoadBatchOptions.
func (p *Processes) SetSystem(s types.System) {
	if s == p.system {
		return
	}
	p.system = s
	p.batchID = nil
	p.options = nil
	p.query = p.query.WithPage(1)
}

// System returns the selected court system, or "" for all.
func (p *Processes) System() types.System { return p.system }

// SetBatch sets the batch global filter; nil means all.
func (p *Processes) SetBatch(id *int64) {
	p.batchID = id
	p.query = p.query.WithPage(1)
}

// Batch returns the batch global filter.
func (p *Processes) Batch() *int64 { return p.batchID }

// ClearGlobalFilters resets processed, system and batch.
func (p *Processes) ClearGlobalFilters() {
	p.processed = nil
	p.system = ""
	p.batchID = nil
	p.options = nil
	p.query = p.query.WithPage(1)
}

// LoadBatchOptions loads the batches of the selected system for the batch
// filter. With no system selected the options are empty.
func (p *Processes) LoadBatchOptions(ctx context.Context) ([]types.BatchOption, error) {
	if p.system == "" || p.batches == nil {
		p.options = nil
		return nil, nil
	}
	batches, err := p.batches.ListBatches(ctx, p.system)
	if err != nil {
		p.options = nil
		return nil, fmt.Errorf("loading batch options: %w", err)
	}
	opts := make([]types.BatchOption, 0, len(batches))
	for _, b := range batches {
		opts = append(opts, types.BatchOption{ID: b.ID, Description: b.Description})
	}
	p.options = opts
	return opts, nil
}

// BatchOptions returns the last loaded batch options.
func (p *Processes) BatchOptions() []types.BatchOption { return p.options }

// Request marks a load in flight and returns its params. Results of
// earlier requests are discarded by Loaded.
func (p *Processes) Request() LoadRequest {
	p.seq++
	p.engine.SetLoading(true)
	return LoadRequest{Seq: p.seq, Params: p.Params()}
}

// Fetch runs a request against the source. It touches no host state and
// may run on any goroutine.
func (p *Processes) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	page, err := p.src.ListProcesses(ctx, req.Params)
	return LoadResult{Seq: req.Seq, Page: page, Err: err}
}

// Loaded applies a load result. It reports false for a stale result.
func (p *Processes) Loaded(res LoadResult) bool {
	if res.Seq != p.seq {
		return false
	}
	p.engine.SetLoading(false)
	if res.Err != nil {
		p.lastErr = res.Err
		p.log.Warn("loading processes failed", "error", res.Err)
		return true
	}
	p.lastErr = nil
	p.page = res.Page
	p.rows = make([]*types.Process, len(res.Page.Items))
	data := make([]grid.Row, len(res.Page.Items))
	for i := range res.Page.Items {
		row := res.Page.Items[i]
		p.rows[i] = &row
		data[i] = &row
	}
	p.engine.SetData(data)
	return true
}

// Load requests, fetches and applies the current page synchronously.
func (p *Processes) Load(ctx context.Context) error {
	res := p.Fetch(ctx, p.Request())
	p.Loaded(res)
	return res.Err
}

// Err returns the error of the last load, if it failed.
func (p *Processes) Err() error { return p.lastErr }

// Rows returns the displayed processes.
func (p *Processes) Rows() []*types.Process { return p.rows }

// Total returns the total number of matching processes.
func (p *Processes) Total() int { return p.page.Total }

// Page returns the current page number.
func (p *Processes) Page() int { return p.query.Page }

// TotalPages returns the page count of the last load.
func (p *Processes) TotalPages() int {
	return types.TotalPages(p.page.Total, p.query.PageSize)
}

// HasPrev reports whether there is a page before the current one.
func (p *Processes) HasPrev() bool { return p.query.Page > 1 }

// HasNext reports whether there is a page after the current one.
func (p *Processes) HasNext() bool { return p.query.Page < p.TotalPages() }

// Next moves to the next page. It reports false on the last page.
func (p *Processes) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.query = p.query.WithPage(p.query.Page + 1)
	return true
}

// Prev moves to the previous page. It reports false on the first page.
func (p *Processes) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.query = p.query.WithPage(p.query.Page - 1)
	return true
}

// GoTo moves to page. Once a page has loaded the target is clamped to the
// known page range.
func (p *Processes) GoTo(page int) {
	if p.page.Limit > 0 {
		page = min(page, p.TotalPages())
	}
	p.query = p.query.WithPage(page)
}

// PageLabel returns the paging caption, e.g. "Página 2 de 5".
func (p *Processes) PageLabel() string {
	return fmt.Sprintf("Página %d de %d", p.query.Page, p.TotalPages())
}

// queueEdit receives engine commits. The edit is applied to the row at
// once and queued for Save; edits the source cannot store are dropped.
func (p *Processes) queueEdit(row grid.Row, field string, value any) {
	proc, ok := row.(*types.Process)
	if !ok {
		return
	}
	u, err := types.ContactUpdateFor(field, value)
	if err != nil {
		p.log.Debug("edit dropped", "id", proc.ID, "field", field, "error", err)
		return
	}
	p.editSeq++
	e := Edit{Seq: p.editSeq, ID: proc.ID, Field: field, Value: value, Previous: proc.Value(field), Update: u}
	k := cell{proc.ID, field}
	c, ok := p.cells[k]
	if !ok {
		c = &cellEdits{base: e.Previous}
		p.cells[k] = c
	}
	c.latest = e.Seq
	c.latestFailed = false
	c.open++
	u.Apply(proc)
	p.pending = append(p.pending, e)
}

// PendingEdits returns the queued edits and clears the queue.
func (p *Processes) PendingEdits() []Edit {
	out := p.pending
	p.pending = nil
	return out
}

// Save persists an edit. It touches no host state and may run on any
// goroutine.
func (p *Processes) Save(ctx context.Context, e Edit) EditResult {
	updated, err := p.src.UpdateContact(ctx, e.ID, e.Update)
	return EditResult{Edit: e, Updated: updated, Err: err}
}

// Resolve applies a save result to the displayed row. Results may arrive
// in any order. A cell shows its newest commit until that commit fails,
// and then the last value known to be stored. Other cells of the row with
// unresolved edits keep their displayed values when a save replaces the
// row.
func (p *Processes) Resolve(res EditResult) {
	k := cell{res.Edit.ID, res.Edit.Field}
	c, ok := p.cells[k]
	if !ok {
		c = &cellEdits{latest: res.Edit.Seq, open: 1, base: res.Edit.Previous}
	}
	newest := c.latest == res.Edit.Seq
	if c.open--; c.open <= 0 {
		delete(p.cells, k)
	}

	row := p.row(res.Edit.ID)
	if res.Err != nil {
		p.log.Warn("saving edit failed", "id", res.Edit.ID, "field", res.Edit.Field, "error", res.Err)
		if !newest {
			return
		}
		c.latestFailed = true
		if row != nil {
			p.setCell(row, res.Edit.Field, c.base)
		}
		return
	}
	c.base = res.Updated.Value(res.Edit.Field)
	if row == nil {
		return
	}
	shown := row.Clone()
	*row = res.Updated
	if !newest && !c.latestFailed {
		p.setCell(row, res.Edit.Field, shown.Value(res.Edit.Field))
	}
	for ck := range p.cells {
		if ck.id == row.ID && ck.field != res.Edit.Field {
			p.setCell(row, ck.field, shown.Value(ck.field))
		}
	}
}

func (p *Processes) setCell(row *types.Process, field string, value any) {
	if err := row.SetValue(field, value); err != nil {
		p.log.Debug("cell not restored", "id", row.ID, "field", field, "error", err)
	}
}

// SaveEdits saves and resolves every pending edit synchronously and
// returns the results in order.
func (p *Processes) SaveEdits(ctx context.Context) []EditResult {
	edits := p.PendingEdits()
	out := make([]EditResult, 0, len(edits))
	for _, e := range edits {
		res := p.Save(ctx, e)
		p.Resolve(res)
		out = append(out, res)
	}
	return out
}

// EditCell edits one cell of a displayed row as if typed into the grid
// and saves it. Returns types.ErrNotFound when the row is not displayed.
func (p *Processes) EditCell(ctx context.Context, id int64, field string, value any) (EditResult, error) {
	row := p.row(id)
	if row == nil {
		return EditResult{}, fmt.Errorf("process %d: %w", id, types.ErrNotFound)
	}
	if !p.engine.CanEdit(field) {
		return EditResult{}, fmt.Errorf("%s: %w", field, types.ErrFieldNotEditable)
	}
	if _, err := types.ContactUpdateFor(field, value); err != nil {
		return EditResult{}, err
	}
	p.queueEdit(row, field, value)
	results := p.SaveEdits(ctx)
	res := results[len(results)-1]
	return res, res.Err
}

func (p *Processes) row(id int64) *types.Process {
	for _, r := range p.rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}
