package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

var headerCell = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var bodyCell = lipgloss.NewStyle().Padding(0, 1)

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeTable renders rows under headers with a rounded border.
func writeTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// processTable renders processes through the grid view so cells read the
// same as in the browser.
func processTable(w io.Writer, host *dashboard.Processes) error {
	v := host.Engine().View()
	headers := make([]string, len(v.Headers))
	for i, h := range v.Headers {
		headers[i] = h.Column.Header
	}
	if v.State != grid.StateTable {
		if err := writeTable(w, headers, nil); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, grid.EmptyText)
		return err
	}
	format := host.Engine().Formatter()
	rows := make([][]string, len(v.Rows))
	for r, cells := range v.Rows {
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.Text
			if c.Mode == grid.CellToggle {
				row[i] = format.Format(grid.TypeBoolean, c.Checked)
			}
		}
		rows[r] = row
	}
	if err := writeTable(w, headers, rows); err != nil {
		return err
	}
	if v.Summary != nil {
		fmt.Fprintln(w, v.Summary.String())
	}
	_, err := fmt.Fprintf(w, "Total: %d processos • %s\n", host.Total(), host.PageLabel())
	return err
}

// batchRows renders batches as table rows.
func batchRows(batches []types.Batch) [][]string {
	rows := make([][]string, 0, len(batches))
	for _, b := range batches {
		status, progress := "-", "-"
		if b.Status != nil {
			status = types.StatusLabel(b.Status.Status)
			progress = fmt.Sprintf("%d/%d (%s%%)", b.Status.ProcessedProcesses, b.Status.TotalProcesses,
				strconv.FormatFloat(b.Status.PercentComplete, 'f', 1, 64))
		}
		date := "-"
		if !b.ProcessDate.IsZero() {
			date = b.ProcessDate.Format("02/01/2006")
		}
		rows = append(rows, []string{
			strconv.FormatInt(b.ID, 10),
			b.System.Label(),
			b.State,
			b.Description,
			date,
			status,
			progress,
		})
	}
	return rows
}

var batchHeaders = []string{"Lote", "Sistema", "UF", "Descrição", "Data", "Status", "Progresso"}
