package grid

import "fmt"

// ViewState selects what the host renders in place of the table body.
type ViewState int

// View states.
const (
	StateTable ViewState = iota
	StateLoading
	StateEmpty
)

// Placeholder texts for the non-table states.
const (
	LoadingText = "Carregando..."
	EmptyText   = "Nenhum registro encontrado"
)

// CellMode is the interaction mode of a rendered cell.
type CellMode int

// Cell modes.
const (
	// CellReadOnly displays formatted text only.
	CellReadOnly CellMode = iota
	// CellEditable displays formatted text and enters edit mode on activation.
	CellEditable
	// CellEditing displays the edit draft.
	CellEditing
	// CellToggle displays a checkbox that flips on activation.
	CellToggle
)

// Cell is one rendered cell.
type Cell struct {
	Ref     CellRef
	Type    ColumnType
	Mode    CellMode
	Text    string // display text, or the draft in CellEditing
	Checked bool   // CellToggle only
}

// Header is one rendered column header.
type Header struct {
	Column   Column
	Filtered bool
	Sort     Direction // empty when the column is not sorted
}

// Summary is the active filter/sort line shown above the table.
type Summary struct {
	ActiveFilters int
	SortHeader    string
	SortDirection Direction
}

// String renders the summary line, e.g.
// "2 filtros ativos • Ordenado por Valor (decrescente)".
func (s Summary) String() string {
	out := ""
	switch {
	case s.ActiveFilters == 1:
		out = "1 filtro ativo"
	case s.ActiveFilters > 1:
		out = fmt.Sprintf("%d filtros ativos", s.ActiveFilters)
	}
	if s.SortHeader != "" {
		if out != "" {
			out += " • "
		}
		out += fmt.Sprintf("Ordenado por %s (%s)", s.SortHeader, s.SortDirection.Label())
	}
	return out
}

// View is the presentation of the grid at one instant.
type View struct {
	State   ViewState
	Summary *Summary // nil when nothing is active or the table is not shown
	Headers []Header
	Rows    [][]Cell
}

// View renders the current state. Headers are always present so filters
// stay reachable while the body shows a placeholder.
func (e *Engine) View() View {
	v := View{Headers: make([]Header, len(e.columns))}
	for i, c := range e.columns {
		_, filtered := e.filters[c.Field]
		h := Header{Column: c, Filtered: filtered}
		if d := e.sortPtr(c.Field); d != nil {
			h.Sort = *d
		}
		v.Headers[i] = h
	}

	switch {
	case e.loading:
		v.State = StateLoading
		return v
	case len(e.data) == 0:
		v.State = StateEmpty
		return v
	}

	v.State = StateTable
	if e.ActiveFilterCount() > 0 || e.sort != nil {
		s := Summary{ActiveFilters: e.ActiveFilterCount()}
		if header, dir, ok := e.SortedColumn(); ok {
			s.SortHeader, s.SortDirection = header, dir
		}
		v.Summary = &s
	}
	v.Rows = make([][]Cell, len(e.data))
	for r, row := range e.data {
		cells := make([]Cell, len(e.columns))
		for i, c := range e.columns {
			cells[i] = e.cell(row, c)
		}
		v.Rows[r] = cells
	}
	return v
}

func (e *Engine) cell(row Row, c Column) Cell {
	cell := Cell{Ref: CellRef{RowKey: row.Key(), Field: c.Field}, Type: c.Type}
	switch {
	case !e.CanEdit(c.Field):
		cell.Mode = CellReadOnly
		cell.Text = c.display(row, e.format)
	case c.Type == TypeBoolean:
		cell.Mode = CellToggle
		cell.Checked = truthy(row.Value(c.Field))
	case e.IsEditing(cell.Ref.RowKey, c.Field):
		cell.Mode = CellEditing
		cell.Text = e.draft
	default:
		cell.Mode = CellEditable
		cell.Text = c.display(row, e.format)
	}
	return cell
}
