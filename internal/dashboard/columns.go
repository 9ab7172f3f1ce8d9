// Package dashboard holds the hosts that drive the grid engine and the
// batch views against a store: the process listing with its global
// filters and paging, the batch monitor, the home statistics, PDF import
// and batch export. Hosts hold no terminal or CLI code so the terminal
// model and the commands share them.
package dashboard

import (
	"strconv"

	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// ProcessColumns returns the columns of the process grid. Only the contact
// columns are editable.
func ProcessColumns() []grid.Column {
	return []grid.Column{
		{Field: types.FieldProcesso, Header: "Processo", Type: grid.TypeString, Width: 26, ReadOnly: true,
			Render: grid.CustomRender(renderProcesso)},
		{Field: types.FieldRequerido, Header: "Requerido", Type: grid.TypeString, Width: 24, ReadOnly: true},
		{Field: types.FieldValor, Header: "Valor", Type: grid.TypeCurrency, Width: 14, ReadOnly: true},
		{Field: types.FieldComarca, Header: "Comarca", Type: grid.TypeString, Width: 15, ReadOnly: true},
		{Field: types.FieldContato, Header: "Contato", Type: grid.TypeString, Width: 15},
		{Field: types.FieldContatoRealizado, Header: "Contatado", Type: grid.TypeBoolean, Width: 10},
		{Field: types.FieldObservacoes, Header: "Observações", Type: grid.TypeString},
	}
}

// renderProcesso appends the batch number to the process number.
func renderProcesso(value any, row grid.Row) string {
	s, _ := value.(string)
	if s == "" {
		return grid.Placeholder
	}
	if p, ok := row.(*types.Process); ok && p.BatchID > 0 {
		return s + " #" + strconv.FormatInt(p.BatchID, 10)
	}
	return s
}
