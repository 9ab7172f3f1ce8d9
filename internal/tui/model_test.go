package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// memSource is an in-memory types.ProcessSource.
type memSource struct {
	mu         sync.Mutex
	rows       []types.Process
	params     []types.ListParams
	failUpdate error
}

func (s *memSource) ListProcesses(_ context.Context, p types.ListParams) (types.ProcessPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = append(s.params, p)
	items := append([]types.Process(nil), s.rows...)
	return types.NewProcessPage(items, len(items), p.Query.Page, p.Query.PageSize), nil
}

func (s *memSource) UpdateContact(_ context.Context, id int64, u types.ContactUpdate) (types.Process, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate != nil {
		return types.Process{}, s.failUpdate
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			u.Apply(&s.rows[i])
			return s.rows[i], nil
		}
	}
	return types.Process{}, types.ErrNotFound
}

func (s *memSource) lastParams() types.ListParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params[len(s.params)-1]
}

func newSource() *memSource {
	valor := 1500.0
	return &memSource{rows: []types.Process{
		{ID: 1, BatchID: 2, Processo: "0001-10", Comarca: "Campinas", Valor: &valor},
		{ID: 2, BatchID: 2, Processo: "0002-20", Comarca: "Santos"},
	}}
}

// run feeds msg to the model and then every message its commands produce.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		updated, cmd := m.Update(next)
		m = updated.(Model)
		queue = append(queue, exec(cmd)...)
	}
	return m
}

func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, exec(c)...)
		}
		return out
	case tea.QuitMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func started(t *testing.T, src *memSource) Model {
	t.Helper()
	host := dashboard.NewProcesses(src, nil, 50)
	m := New(context.Background(), host)
	m = run(t, m, tea.WindowSizeMsg{Width: 160, Height: 30})
	for _, msg := range exec(m.Init()) {
		m = run(t, m, msg)
	}
	return m
}

func TestModel_LoadsAndRenders(t *testing.T) {
	src := newSource()
	m := started(t, src)

	out := m.View()
	assert.Contains(t, out, "0001-10 #2")
	assert.Contains(t, out, "R$ 1.500,00")
	assert.Contains(t, out, "Total: 2 processos")
	assert.Contains(t, out, "Página 1 de 1")
	assert.False(t, m.host.Engine().Loading())
}

func TestModel_EmptyState(t *testing.T) {
	m := started(t, &memSource{})
	assert.Contains(t, m.View(), grid.EmptyText)
}

func TestModel_Navigation(t *testing.T) {
	m := started(t, newSource())
	m = run(t, m, keys("l"))
	m = run(t, m, key(tea.KeyRight))
	m = run(t, m, keys("j"))
	assert.Equal(t, 2, m.cx)
	assert.Equal(t, 1, m.cy)

	m = run(t, m, keys("j"))
	assert.Equal(t, 1, m.cy, "cursor stays on the last row")
	m = run(t, m, keys("k"))
	m = run(t, m, keys("h"))
	assert.Equal(t, 1, m.cx)
	assert.Equal(t, 0, m.cy)
}

func TestModel_EditContact(t *testing.T) {
	src := newSource()
	m := started(t, src)

	for range 4 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, key(tea.KeyEnter))
	require.True(t, m.editing())

	m = run(t, m, keys("Ana"))
	m = run(t, m, key(tea.KeySpace))
	m = run(t, m, keys("Silvax"))
	m = run(t, m, key(tea.KeyBackspace))
	assert.Equal(t, "Ana Silva", m.host.Engine().Draft())

	m = run(t, m, key(tea.KeyEnter))
	assert.False(t, m.editing())
	assert.Equal(t, "Ana Silva", src.rows[0].Contato)
	assert.Equal(t, "Processo atualizado com sucesso", m.status)
	assert.Equal(t, 0, m.saving)
}

func TestModel_EditCancel(t *testing.T) {
	src := newSource()
	m := started(t, src)
	for range 4 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, key(tea.KeyEnter))
	m = run(t, m, keys("x"))
	m = run(t, m, key(tea.KeyEsc))
	assert.False(t, m.editing())
	assert.Equal(t, "", src.rows[0].Contato)
}

func TestModel_ReadOnlyCell(t *testing.T) {
	m := started(t, newSource())
	m = run(t, m, key(tea.KeyEnter))
	assert.False(t, m.editing())
	assert.Contains(t, m.status, "não é editável")
}

func TestModel_ToggleRollsBack(t *testing.T) {
	src := newSource()
	src.failUpdate = errors.New("offline")
	m := started(t, src)
	for range 5 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, key(tea.KeySpace))
	assert.True(t, m.failed)
	assert.Contains(t, m.status, "offline")
	assert.False(t, m.host.Rows()[0].ContatoRealizado)
}

func TestModel_ToggleSaves(t *testing.T) {
	src := newSource()
	m := started(t, src)
	for range 5 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, key(tea.KeyEnter))
	assert.True(t, src.rows[0].ContatoRealizado)
	assert.True(t, m.host.Rows()[0].ContatoRealizado)
}

func TestModel_FilterPopover(t *testing.T) {
	src := newSource()
	m := started(t, src)
	for range 3 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, keys("f"))
	require.NotNil(t, m.popover)
	assert.Contains(t, m.View(), "Filtro: Comarca")

	m = run(t, m, keys("camp"))
	m = run(t, m, key(tea.KeyEnter))
	assert.Nil(t, m.popover)

	p := src.lastParams()
	require.Len(t, p.Query.Filters, 1)
	assert.Equal(t, grid.QueryFilter{Field: types.FieldComarca, Operator: grid.OpContains, Value: "camp"}, p.Query.Filters[0])
	assert.Contains(t, m.View(), "1 filtro ativo")

	m = run(t, m, keys("f"))
	assert.Equal(t, "camp", m.popover.Value(), "draft seeded from the applied filter")
	m = run(t, m, key(tea.KeyCtrlX))
	assert.Nil(t, m.popover)
	assert.Empty(t, src.lastParams().Query.Filters)
}

func TestModel_FilterInvalidNumberKeepsPopover(t *testing.T) {
	src := newSource()
	m := started(t, src)
	m = run(t, m, keys("l"))
	m = run(t, m, keys("l"))
	m = run(t, m, keys("f"))
	m = run(t, m, key(tea.KeyTab))
	assert.Equal(t, grid.OpNotEquals, m.popover.Operator())

	calls := len(src.params)
	m = run(t, m, keys("abc"))
	m = run(t, m, key(tea.KeyEnter))
	require.NotNil(t, m.popover)
	assert.True(t, m.failed)
	assert.Len(t, src.params, calls)

	m = run(t, m, key(tea.KeyEsc))
	assert.Nil(t, m.popover)
}

func TestModel_BooleanFilterAppliesOnCycle(t *testing.T) {
	src := newSource()
	m := started(t, src)
	for range 5 {
		m = run(t, m, keys("l"))
	}
	m = run(t, m, keys("f"))
	m = run(t, m, key(tea.KeyTab))
	p := src.lastParams()
	require.Len(t, p.Query.Filters, 1)
	assert.Equal(t, grid.OpTrue, p.Query.Filters[0].Operator)
	assert.Equal(t, true, p.Query.Filters[0].Value)
}

func TestModel_Sort(t *testing.T) {
	src := newSource()
	m := started(t, src)
	m = run(t, m, keys("l"))
	m = run(t, m, keys("l"))

	m = run(t, m, keys("d"))
	assert.Equal(t, &grid.Sort{Field: types.FieldValor, Direction: grid.Desc}, src.lastParams().Query.Sort)
	assert.Contains(t, m.View(), "Ordenado por Valor (decrescente)")

	m = run(t, m, keys("d"))
	assert.Nil(t, src.lastParams().Query.Sort, "same direction again clears")
}

func TestModel_Quit(t *testing.T) {
	m := started(t, newSource())
	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
