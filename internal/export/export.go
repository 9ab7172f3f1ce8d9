// Package export writes process rows to Excel workbooks for the local
// mirror, matching the sheet the remote /process/export endpoint serves.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// SheetName is the worksheet holding the process rows.
const SheetName = "Processos"

// Headers are the sheet column titles in order.
var Headers = []string{
	"ID", "Lote", "Comarca", "Foro", "Vara", "Classe", "Processo", "Valor",
	"Requerido", "Contato", "Contato realizado", "Observações", "Processado",
	"Erros", "Último erro", "Criado em",
}

const (
	currencyFormat = `"R$" #,##0.00`
	dateFormat     = "dd/mm/yyyy hh:mm"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_. ]`)

// FileName returns the download name of a batch export:
// {system}-{description}-{id}.xlsx with unsafe description characters
// replaced by underscores.
func FileName(system types.System, description string, batchID int64) string {
	if description == "" {
		description = "lote"
	}
	safe := unsafeChars.ReplaceAllString(description, "_")
	return fmt.Sprintf("%s-%s-%d.xlsx", strings.ToLower(string(system)), safe, batchID)
}

// WriteProcesses writes processes as a single-sheet workbook to w.
func WriteProcesses(w io.Writer, processes []types.Process) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := styleSheet(f, len(processes)); err != nil {
		return err
	}

	yesNo := grid.BrazilianFormatter()
	for i, p := range processes {
		row := []any{
			p.ID, p.BatchID, p.Comarca, p.Foro, p.Vara, p.Classe, p.Processo,
			nil, "", p.Contato,
			yesNo.Format(grid.TypeBoolean, p.ContatoRealizado),
			p.Observacoes,
			yesNo.Format(grid.TypeBoolean, p.Processed),
			p.ErrorCount, p.LastError, nil,
		}
		if p.Valor != nil {
			row[7] = *p.Valor
		}
		if p.Requerido != nil {
			row[8] = *p.Requerido
		}
		if !p.CreatedAt.IsZero() {
			row[15] = p.CreatedAt
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("writing process %d: %w", p.ID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func styleSheet(f *excelize.File, rows int) error {
	last, err := excelize.ColumnNumberToName(len(Headers))
	if err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last+"1", bold); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", last, 16); err != nil {
		return err
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}
	if rows == 0 {
		return nil
	}

	end := strconv.Itoa(rows + 1)
	money := currencyFormat
	currency, err := f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return fmt.Errorf("creating currency style: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "H2", "H"+end, currency); err != nil {
		return err
	}
	stamp := dateFormat
	date, err := f.NewStyle(&excelize.Style{CustomNumFmt: &stamp})
	if err != nil {
		return fmt.Errorf("creating date style: %w", err)
	}
	return f.SetCellStyle(SheetName, "P2", "P"+end, date)
}
