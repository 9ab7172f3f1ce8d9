package grid

import "fmt"

// EditFunc receives a committed cell edit. The engine does not wait for
// the host to persist it and never rolls it back.
type EditFunc func(row Row, field string, value any)

// QueryFunc receives the full query whenever filter or sort state changes.
type QueryFunc func(q Query)

// CellRef identifies one cell.
type CellRef struct {
	RowKey string
	Field  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithEditable sets the global interactivity switch.
func WithEditable(editable bool) Option {
	return func(e *Engine) { e.editable = editable }
}

// WithEditFunc sets the commit callback.
func WithEditFunc(fn EditFunc) Option {
	return func(e *Engine) { e.onEdit = fn }
}

// WithQueryFunc sets the query-change callback.
func WithQueryFunc(fn QueryFunc) Option {
	return func(e *Engine) { e.onQuery = fn }
}

// WithPageSize overrides the page size carried by emitted queries.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// Engine owns the aggregate filter and sort state of a grid, the single
// editing cell, and the presentation of host-supplied rows. It must be
// driven from one goroutine.
type Engine struct {
	columns []Column
	index   map[string]int

	data     []Row
	loading  bool
	editable bool

	filters  map[string]Filter
	sort     *Sort
	controls map[string]*ColumnFilter

	editing *CellRef
	draft   string

	pageSize int
	onEdit   EditFunc
	onQuery  QueryFunc
	format   *Formatter
}

// New returns an engine over columns. Column fields must be unique; a
// duplicate field panics since it is a programming error in the host.
func New(columns []Column, opts ...Option) *Engine {
	e := &Engine{
		columns:  columns,
		index:    make(map[string]int, len(columns)),
		filters:  make(map[string]Filter),
		controls: make(map[string]*ColumnFilter),
		pageSize: DefaultPageSize,
		format:   BrazilianFormatter(),
	}
	for i, c := range columns {
		if _, dup := e.index[c.Field]; dup {
			panic(fmt.Sprintf("grid: duplicate column field %q", c.Field))
		}
		e.index[c.Field] = i
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Columns returns the column descriptors in display order.
func (e *Engine) Columns() []Column { return e.columns }

// Column returns the descriptor for field.
func (e *Engine) Column(field string) (Column, bool) {
	i, ok := e.index[field]
	if !ok {
		return Column{}, false
	}
	return e.columns[i], true
}

// SetData replaces the displayed rows. An edit in progress on a row that
// is no longer present is dropped.
func (e *Engine) SetData(rows []Row) {
	e.data = rows
	if e.editing != nil {
		if _, ok := e.row(e.editing.RowKey); !ok {
			e.editing = nil
			e.draft = ""
		}
	}
}

// Data returns the displayed rows.
func (e *Engine) Data() []Row { return e.data }

// SetLoading toggles the loading placeholder.
func (e *Engine) SetLoading(loading bool) { e.loading = loading }

// Loading reports whether the loading placeholder is shown.
func (e *Engine) Loading() bool { return e.loading }

// Editable reports the global interactivity switch.
func (e *Engine) Editable() bool { return e.editable }

// Formatter returns the formatter used for default cell rendering.
func (e *Engine) Formatter() *Formatter { return e.format }

// Control returns the filter control of field, creating it on first use.
func (e *Engine) Control(field string) (*ColumnFilter, bool) {
	col, ok := e.Column(field)
	if !ok {
		return nil, false
	}
	if c, ok := e.controls[field]; ok {
		return c, true
	}
	c := NewColumnFilter(col, e.filterPtr(field), e.sortPtr(field),
		func(f *Filter) { e.SetFilter(field, f) },
		func(d *Direction) { e.SetSort(field, d) },
	)
	e.controls[field] = c
	return c, true
}

// SetFilter merges one column's filter into the aggregate state and emits
// the resulting query. A nil filter, or the boolean OpAll, removes the
// column's entry.
func (e *Engine) SetFilter(field string, f *Filter) {
	if _, ok := e.index[field]; !ok {
		return
	}
	if f == nil || f.Operator == OpAll {
		delete(e.filters, field)
	} else {
		e.filters[field] = *f
	}
	if c, ok := e.controls[field]; ok {
		c.sync(e.filterPtr(field), e.sortPtr(field))
	}
	e.notify()
}

// SetSort makes field the single sorted column, or clears the sort when d
// is nil, and emits the resulting query.
func (e *Engine) SetSort(field string, d *Direction) {
	if _, ok := e.index[field]; !ok {
		return
	}
	if d == nil {
		if e.sort == nil || e.sort.Field == field {
			e.sort = nil
		}
	} else {
		e.sort = &Sort{Field: field, Direction: *d}
	}
	for f, c := range e.controls {
		c.sync(e.filterPtr(f), e.sortPtr(f))
	}
	e.notify()
}

// Filter returns the active filter of field.
func (e *Engine) Filter(field string) (Filter, bool) {
	f, ok := e.filters[field]
	return f, ok
}

// Sort returns a copy of the active sort, or nil.
func (e *Engine) Sort() *Sort {
	if e.sort == nil {
		return nil
	}
	s := *e.sort
	return &s
}

// ActiveFilterCount returns the number of filtered columns.
func (e *Engine) ActiveFilterCount() int { return len(e.filters) }

// SortedColumn returns the header and direction of the sorted column.
func (e *Engine) SortedColumn() (header string, dir Direction, ok bool) {
	if e.sort == nil {
		return "", "", false
	}
	col, found := e.Column(e.sort.Field)
	if !found {
		return "", "", false
	}
	return col.Header, e.sort.Direction, true
}

// Query builds the query for the current aggregate state, positioned on
// the first page. Filters appear in column order.
func (e *Engine) Query() Query {
	q := NewQuery()
	q.PageSize = e.pageSize
	for _, c := range e.columns {
		if f, ok := e.filters[c.Field]; ok {
			q.Filters = append(q.Filters, QueryFilter{Field: c.Field, Operator: f.Operator, Value: f.Value})
		}
	}
	q.Sort = e.Sort()
	return q
}

func (e *Engine) notify() {
	if e.onQuery != nil {
		e.onQuery(e.Query())
	}
}

func (e *Engine) filterPtr(field string) *Filter {
	f, ok := e.filters[field]
	if !ok {
		return nil
	}
	return &f
}

func (e *Engine) sortPtr(field string) *Direction {
	if e.sort == nil || e.sort.Field != field {
		return nil
	}
	d := e.sort.Direction
	return &d
}

func (e *Engine) row(key string) (Row, bool) {
	for _, r := range e.data {
		if r.Key() == key {
			return r, true
		}
	}
	return nil, false
}
