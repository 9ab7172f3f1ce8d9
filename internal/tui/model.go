// Package tui is the terminal host of the process grid. It drives a
// dashboard.Processes host from key presses and renders the grid view.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/grid"
)

// loadedMsg carries a finished listing request.
type loadedMsg dashboard.LoadResult

// savedMsg carries a finished contact edit.
type savedMsg dashboard.EditResult

// Model is the bubbletea model of the process browser.
type Model struct {
	ctx  context.Context
	host *dashboard.Processes

	width, height int
	cx, cy        int // cursor column and row
	scrollY       int

	popover *grid.ColumnFilter
	status  string
	failed  bool
	saving  int
}

// New returns a model browsing host. ctx bounds every request.
func New(ctx context.Context, host *dashboard.Processes) Model {
	return Model{ctx: ctx, host: host}
}

// Init loads the first page.
func (m Model) Init() tea.Cmd { return m.load() }

// load issues a listing request for the host's current state.
func (m Model) load() tea.Cmd {
	req := m.host.Request()
	host, ctx := m.host, m.ctx
	return func() tea.Msg { return loadedMsg(host.Fetch(ctx, req)) }
}

// saveEdits turns the host's queued edits into save commands.
func (m *Model) saveEdits() tea.Cmd {
	edits := m.host.PendingEdits()
	if len(edits) == 0 {
		return nil
	}
	host, ctx := m.host, m.ctx
	cmds := make([]tea.Cmd, 0, len(edits))
	for _, e := range edits {
		cmds = append(cmds, func() tea.Msg { return savedMsg(host.Save(ctx, e)) })
	}
	m.saving += len(edits)
	m.setStatus("Salvando...", false)
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		if !m.host.Loaded(dashboard.LoadResult(msg)) {
			return m, nil
		}
		if msg.Err != nil {
			m.setStatus("Falha ao carregar processos: "+msg.Err.Error(), true)
		}
		m.clampCursor()
		return m, nil

	case savedMsg:
		m.saving--
		res := dashboard.EditResult(msg)
		m.host.Resolve(res)
		if res.Err != nil {
			m.setStatus("Falha ao atualizar processo: "+res.Err.Error(), true)
		} else {
			m.setStatus("Processo atualizado com sucesso", false)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.popover != nil {
			return m.updatePopover(msg)
		}
		if _, ok := m.host.Engine().Editing(); ok {
			return m.updateEdit(msg)
		}
		return m.updateGrid(msg)
	}
	return m, nil
}

// --- Grid (navigation) ---

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.host.Engine()
	cols := e.Columns()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		if m.cx > 0 {
			m.cx--
		}
	case "right", "l":
		if m.cx < len(cols)-1 {
			m.cx++
		}
	case "up", "k":
		if m.cy > 0 {
			m.cy--
		}
	case "down", "j":
		if m.cy < len(e.Data())-1 {
			m.cy++
		}
	case "enter":
		key, field, ok := m.cursorCell()
		if !ok {
			return m, nil
		}
		if col, _ := e.Column(field); col.Type == grid.TypeBoolean {
			e.Toggle(key, field)
			cmd := m.saveEdits()
			return m, cmd
		}
		if !e.BeginEdit(key, field) {
			m.setStatus(fmt.Sprintf("%s não é editável", cols[m.cx].Header), false)
		}
	case " ":
		key, field, ok := m.cursorCell()
		if ok && e.Toggle(key, field) {
			cmd := m.saveEdits()
			return m, cmd
		}
	case "f":
		col := cols[m.cx]
		if !col.IsFilterable() {
			return m, nil
		}
		ctrl, _ := e.Control(col.Field)
		ctrl.Open()
		m.popover = ctrl
	case "a", "d":
		col := cols[m.cx]
		if !col.IsSortable() {
			return m, nil
		}
		dir := grid.Asc
		if msg.String() == "d" {
			dir = grid.Desc
		}
		ctrl, _ := e.Control(col.Field)
		ctrl.ToggleSort(dir)
		return m, m.load()
	case "n":
		if m.host.Next() {
			m.cy = 0
			return m, m.load()
		}
	case "p":
		if m.host.Prev() {
			m.cy = 0
			return m, m.load()
		}
	case "r":
		return m, m.load()
	}
	return m, nil
}

// --- Edit mode ---

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.host.Engine()
	switch msg.Type {
	case tea.KeyEnter:
		if err := e.Commit(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		cmd := m.saveEdits()
		return m, cmd
	case tea.KeyEsc:
		e.Cancel()
	case tea.KeyBackspace:
		e.SetDraft(dropLastRune(e.Draft()))
	case tea.KeySpace:
		e.SetDraft(e.Draft() + " ")
	case tea.KeyRunes:
		e.SetDraft(e.Draft() + string(msg.Runes))
	}
	return m, nil
}

// --- Filter popover ---

func (m Model) updatePopover(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.popover
	boolean := c.Column().Type == grid.TypeBoolean

	switch msg.Type {
	case tea.KeyEsc:
		c.Close()
		m.popover = nil
	case tea.KeyTab, tea.KeyShiftTab:
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = -1
		}
		if err := c.CycleOperator(step); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		if boolean {
			return m, m.load()
		}
	case tea.KeyEnter:
		if err := c.Apply(); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.popover = nil
		m.setStatus("", false)
		return m, m.load()
	case tea.KeyCtrlX:
		c.Clear()
		c.Close()
		m.popover = nil
		return m, m.load()
	case tea.KeyBackspace:
		c.SetValue(dropLastRune(c.Value()))
	case tea.KeySpace:
		c.SetValue(c.Value() + " ")
	case tea.KeyRunes:
		c.SetValue(c.Value() + string(msg.Runes))
	}
	return m, nil
}

// cursorCell returns the row key and field under the cursor.
func (m Model) cursorCell() (key, field string, ok bool) {
	e := m.host.Engine()
	data := e.Data()
	if m.cy >= len(data) || m.cx >= len(e.Columns()) {
		return "", "", false
	}
	return data[m.cy].Key(), e.Columns()[m.cx].Field, true
}

func (m *Model) clampCursor() {
	n := len(m.host.Engine().Data())
	if m.cy >= n {
		m.cy = max(n-1, 0)
	}
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
