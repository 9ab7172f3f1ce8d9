package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type edit struct {
	key   string
	field string
	value any
}

type host struct {
	edits   []edit
	queries []Query
}

func (h *host) engine(cols []Column, opts ...Option) *Engine {
	base := []Option{
		WithEditable(true),
		WithEditFunc(func(row Row, field string, value any) {
			h.edits = append(h.edits, edit{row.Key(), field, value})
		}),
		WithQueryFunc(func(q Query) { h.queries = append(h.queries, q) }),
	}
	return New(cols, append(base, opts...)...)
}

func (h *host) lastQuery(t *testing.T) Query {
	t.Helper()
	require.NotEmpty(t, h.queries)
	return h.queries[len(h.queries)-1]
}

var testColumns = []Column{
	{Field: "name", Header: "Nome", Type: TypeString},
	{Field: "amount", Header: "Valor", Type: TypeCurrency},
	{Field: "contacted", Header: "Contatado", Type: TypeBoolean},
	{Field: "date", Header: "Data", Type: TypeDate, ReadOnly: true},
}

func testRows() []Row {
	return []Row{
		MapRow{"id": 1, "name": "Smith", "amount": 100, "contacted": false, "date": "2025-03-01"},
		MapRow{"id": 2, "name": "Jones", "amount": 250.5, "contacted": true, "date": nil},
	}
}

func TestEngine_DuplicateFieldPanics(t *testing.T) {
	assert.Panics(t, func() {
		New([]Column{{Field: "a"}, {Field: "a"}})
	})
}

func TestEngine_SetFilterOneEntryPerField(t *testing.T) {
	var h host
	e := h.engine(testColumns)

	e.SetFilter("name", &Filter{Operator: OpContains, Value: "Sm"})
	e.SetFilter("name", &Filter{Operator: OpEquals, Value: "Smith"})
	assert.Equal(t, 1, e.ActiveFilterCount())
	f, ok := e.Filter("name")
	require.True(t, ok)
	assert.Equal(t, OpEquals, f.Operator)

	e.SetFilter("name", nil)
	_, ok = e.Filter("name")
	assert.False(t, ok, "nil filter removes the key")
	assert.Equal(t, 0, e.ActiveFilterCount())
	assert.Len(t, h.queries, 3, "every change emits a query")
	assert.Empty(t, h.lastQuery(t).Filters)
}

func TestEngine_BooleanAllIsAbsence(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetFilter("contacted", &Filter{Operator: OpTrue, Value: true})
	e.SetFilter("contacted", &Filter{Operator: OpAll})
	assert.Equal(t, 0, e.ActiveFilterCount())
}

func TestEngine_UnknownFieldIgnored(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetFilter("missing", &Filter{Operator: OpEquals, Value: "x"})
	e.SetSort("missing", ptr(Asc))
	assert.Empty(t, h.queries)
	_, ok := e.Control("missing")
	assert.False(t, ok)
}

func TestEngine_QuerySerialization(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetFilter("name", &Filter{Operator: OpContains, Value: "Smith"})
	e.SetSort("date", ptr(Desc))

	q := h.lastQuery(t)
	assert.Equal(t, []QueryFilter{{Field: "name", Operator: OpContains, Value: "Smith"}}, q.Filters)
	assert.Equal(t, &Sort{Field: "date", Direction: Desc}, q.Sort)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)

	b, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"filters": [{"field": "name", "operator": "contains", "value": "Smith"}],
		"sort": {"field": "date", "direction": "desc"},
		"page": 1,
		"pageSize": 50
	}`, string(b))
}

func TestEngine_QueryFiltersInColumnOrder(t *testing.T) {
	var h host
	e := h.engine(testColumns, WithPageSize(20))
	e.SetFilter("contacted", &Filter{Operator: OpFalse, Value: false})
	e.SetFilter("name", &Filter{Operator: OpEquals, Value: "Smith"})

	q := h.lastQuery(t)
	require.Len(t, q.Filters, 2)
	assert.Equal(t, "name", q.Filters[0].Field)
	assert.Equal(t, "contacted", q.Filters[1].Field)
	assert.Equal(t, 20, q.PageSize)
	assert.Nil(t, q.Sort)
}

func TestEngine_SortExclusiveAcrossColumns(t *testing.T) {
	var h host
	e := h.engine(testColumns)

	name, _ := e.Control("name")
	amount, _ := e.Control("amount")

	name.ToggleSort(Asc)
	assert.Equal(t, &Sort{Field: "name", Direction: Asc}, e.Sort())

	amount.ToggleSort(Desc)
	assert.Equal(t, &Sort{Field: "amount", Direction: Desc}, e.Sort())
	assert.Nil(t, name.SortDirection(), "other column loses its active direction")

	amount.ToggleSort(Desc)
	assert.Nil(t, e.Sort(), "same direction again clears")
}

func TestEngine_ToggleSortAscAsc(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	c, _ := e.Control("amount")

	c.ToggleSort(Asc)
	c.ToggleSort(Asc)
	assert.Nil(t, e.Sort())

	c.ToggleSort(Asc)
	c.ToggleSort(Desc)
	assert.Equal(t, &Sort{Field: "amount", Direction: Desc}, e.Sort())
}

func TestEngine_ControlRoundTrip(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	c, ok := e.Control("name")
	require.True(t, ok)

	c.SetValue("")
	require.NoError(t, c.Apply())
	assert.Equal(t, 0, e.ActiveFilterCount(), "empty string equals clear")

	c.SetValue("Smi")
	require.NoError(t, c.Apply())
	assert.True(t, c.HasActiveFilter())

	again, _ := e.Control("name")
	assert.Same(t, c, again, "controls keep their draft between calls")
}

func TestEngine_CommitCurrencyParsesFloat(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("1", "amount"))
	assert.Equal(t, "100", e.Draft())
	e.SetDraft("150.5")
	require.NoError(t, e.Commit())

	require.Len(t, h.edits, 1)
	assert.Equal(t, edit{"1", "amount", 150.5}, h.edits[0])
	_, editing := e.Editing()
	assert.False(t, editing)
}

func TestEngine_CommitUnchangedSkipsCallback(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("1", "amount"))
	e.SetDraft("100.0")
	require.NoError(t, e.Commit())

	require.True(t, e.BeginEdit("1", "name"))
	require.NoError(t, e.Commit())
	assert.Empty(t, h.edits)
}

func TestEngine_CommitInvalidNumber(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("2", "amount"))
	e.SetDraft("12abc")
	err := e.Commit()
	require.ErrorIs(t, err, ErrInvalidNumber)
	assert.Empty(t, h.edits)
	_, editing := e.Editing()
	assert.False(t, editing)
}

func TestEngine_CommitNonFiniteNumber(t *testing.T) {
	for _, draft := range []string{"Inf", "NaN", "1e400"} {
		t.Run(draft, func(t *testing.T) {
			var h host
			e := h.engine(testColumns)
			e.SetData(testRows())

			require.True(t, e.BeginEdit("1", "amount"))
			e.SetDraft(draft)
			require.ErrorIs(t, e.Commit(), ErrInvalidNumber)
			assert.Empty(t, h.edits)
			_, editing := e.Editing()
			assert.False(t, editing)
		})
	}
}

func TestEngine_CommitBlankNumberClears(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("2", "amount"))
	e.SetDraft(" ")
	require.NoError(t, e.Commit())
	require.Len(t, h.edits, 1)
	assert.Nil(t, h.edits[0].value)
}

func TestEngine_CancelDiscardsDraft(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("1", "name"))
	e.SetDraft("Smythe")
	e.Cancel()
	assert.Empty(t, h.edits)
	assert.Equal(t, "", e.Draft())

	require.True(t, e.BeginEdit("1", "name"))
	assert.Equal(t, "Smith", e.Draft(), "re-entering edit shows the original value")

	cell := e.View().Rows[0][0]
	assert.Equal(t, CellEditing, cell.Mode)
	assert.Equal(t, "Smith", cell.Text)
}

func TestEngine_SingleEditingCell(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	require.True(t, e.BeginEdit("1", "name"))
	e.SetDraft("pending change")
	require.True(t, e.BeginEdit("2", "name"))

	ref, ok := e.Editing()
	require.True(t, ok)
	assert.Equal(t, CellRef{RowKey: "2", Field: "name"}, ref)
	assert.Equal(t, "Jones", e.Draft())
	assert.Empty(t, h.edits, "abandoned cell does not commit")

	editing := 0
	for _, row := range e.View().Rows {
		for _, c := range row {
			if c.Mode == CellEditing {
				editing++
			}
		}
	}
	assert.Equal(t, 1, editing)
}

func TestEngine_BooleanToggle(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())

	assert.False(t, e.BeginEdit("1", "contacted"), "boolean cells have no edit mode")
	require.True(t, e.Toggle("1", "contacted"))
	require.Len(t, h.edits, 1)
	assert.Equal(t, edit{"1", "contacted", true}, h.edits[0])
	_, editing := e.Editing()
	assert.False(t, editing)
}

func TestEngine_NotEditable(t *testing.T) {
	var h host
	e := h.engine(testColumns, WithEditable(false))
	e.SetData(testRows())

	assert.False(t, e.BeginEdit("1", "name"))
	assert.False(t, e.Toggle("1", "contacted"))
	for _, c := range e.View().Rows[0] {
		assert.Equal(t, CellReadOnly, c.Mode)
	}
	assert.Equal(t, "Não", e.View().Rows[0][2].Text)

	e = h.engine(testColumns)
	e.SetData(testRows())
	assert.False(t, e.BeginEdit("1", "date"), "read-only column")
}

func TestEngine_SetDataDropsStaleEdit(t *testing.T) {
	var h host
	e := h.engine(testColumns)
	e.SetData(testRows())
	require.True(t, e.BeginEdit("2", "name"))

	e.SetData(testRows()[:1])
	_, editing := e.Editing()
	assert.False(t, editing)
}
