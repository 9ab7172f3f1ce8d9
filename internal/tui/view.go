package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/docket/pkg/grid"
)

// styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	editStyle    = lipgloss.NewStyle().Background(lipgloss.Color("3")).Foreground(lipgloss.Color("0"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	popoverStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
)

const (
	defaultWidth    = 120
	defaultColWidth = 20
	chromeLines     = 9 // title, summary, header, footer, status, help and spacing
)

// View renders the browser.
func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	e := m.host.Engine()
	v := e.View()

	var b strings.Builder
	b.WriteString(titleStyle.Render(" Processos"))
	b.WriteString(dimStyle.Render("  " + m.globalLine()))
	b.WriteString("\n")
	if v.Summary != nil {
		b.WriteString(statusStyle.Render(" " + v.Summary.String()))
	}
	b.WriteString("\n")

	widths := columnWidths(v.Headers, width)
	b.WriteString(m.renderHeader(v.Headers, widths))
	b.WriteString("\n")

	if m.popover != nil {
		b.WriteString(m.renderPopover())
		b.WriteString("\n")
	}

	switch v.State {
	case grid.StateLoading:
		b.WriteString(dimStyle.Render(" " + grid.LoadingText))
		b.WriteString("\n")
	case grid.StateEmpty:
		b.WriteString(dimStyle.Render(" " + grid.EmptyText))
		b.WriteString("\n")
	default:
		first, last := m.visibleRows(len(v.Rows))
		for r := first; r < last; r++ {
			b.WriteString(m.renderRow(r, v.Rows[r], widths))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf(" Total: %d processos • %s", m.host.Total(), m.host.PageLabel()))
	b.WriteString("\n")
	if m.status != "" {
		style := statusStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(" " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help()))
	return b.String()
}

func (m Model) globalLine() string {
	parts := []string{}
	if p := m.host.Processed(); p != nil {
		if *p {
			parts = append(parts, "Processado: Sim")
		} else {
			parts = append(parts, "Processado: Não")
		}
	}
	if s := m.host.System(); s != "" {
		parts = append(parts, "Sistema: "+s.Label())
	}
	if id := m.host.Batch(); id != nil {
		parts = append(parts, fmt.Sprintf("Lote: #%d", *id))
	}
	if len(parts) == 0 {
		return "Filtros globais: nenhum"
	}
	return strings.Join(parts, " • ")
}

func (m Model) help() string {
	switch {
	case m.popover != nil:
		return " tab operador  enter aplicar  ctrl+x limpar  esc fechar"
	case m.editing():
		return " enter salvar  esc cancelar"
	default:
		return " hjkl mover  enter editar  espaço alternar  f filtrar  a/d ordenar  n/p página  r recarregar  q sair"
	}
}

func (m Model) editing() bool {
	_, ok := m.host.Engine().Editing()
	return ok
}

// visibleRows returns the window of rows that keeps the cursor in view.
func (m Model) visibleRows(n int) (int, int) {
	height := m.height - chromeLines
	if m.height == 0 || height < 1 {
		return 0, n
	}
	first := 0
	if m.cy >= height {
		first = m.cy - height + 1
	}
	return first, min(first+height, n)
}

func columnWidths(headers []grid.Header, total int) []int {
	widths := make([]int, len(headers))
	used := 0
	flex := -1
	for i, h := range headers {
		w := h.Column.Width
		if w == 0 {
			flex = i
			w = defaultColWidth
		}
		widths[i] = w
		used += w + 1
	}
	if flex >= 0 && used < total {
		widths[flex] += total - used - 1
	}
	return widths
}

func (m Model) renderHeader(headers []grid.Header, widths []int) string {
	cells := make([]string, len(headers))
	for i, h := range headers {
		label := h.Column.Header
		switch h.Sort {
		case grid.Asc:
			label += " ↑"
		case grid.Desc:
			label += " ↓"
		}
		if h.Filtered {
			label += " *"
		}
		cells[i] = headerStyle.Render(fit(label, widths[i]))
	}
	return strings.Join(cells, " ")
}

func (m Model) renderRow(r int, row []grid.Cell, widths []int) string {
	cells := make([]string, len(row))
	for i, c := range row {
		text := c.Text
		switch c.Mode {
		case grid.CellToggle:
			text = "[ ]"
			if c.Checked {
				text = "[x]"
			}
		case grid.CellEditing:
			text += "▏"
		}
		s := fit(text, widths[i])
		switch {
		case c.Mode == grid.CellEditing:
			s = editStyle.Render(s)
		case r == m.cy && i == m.cx:
			s = cursorStyle.Render(s)
		case c.Mode == grid.CellReadOnly:
			s = dimStyle.Render(s)
		}
		cells[i] = s
	}
	return strings.Join(cells, " ")
}

func (m Model) renderPopover() string {
	c := m.popover
	col := c.Column()
	var b strings.Builder
	fmt.Fprintf(&b, "Filtro: %s\n", col.Header)
	ops := c.Operators()
	labels := make([]string, len(ops))
	for i, op := range ops {
		if op == c.Operator() {
			labels[i] = cursorStyle.Render(op.Label())
		} else {
			labels[i] = op.Label()
		}
	}
	b.WriteString("Operador: " + strings.Join(labels, " | "))
	if col.Type != grid.TypeBoolean {
		b.WriteString("\nValor: " + c.Value() + "▏")
	}
	if c.HasActiveFilter() {
		b.WriteString("\n" + dimStyle.Render("filtro ativo"))
	}
	return popoverStyle.Render(b.String())
}

// fit pads or truncates s to exactly w display cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
