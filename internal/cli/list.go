package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

func newListCmd(a *app) *cobra.Command {
	var (
		g       globalFilters
		filters []string
		sort    string
		page    int
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List processes with column filters, sort and paging",
		Long: `List queries one page of processes.

Filters take the form field:operator:value and may be repeated; boolean
columns take field:true or field:false. Sort takes field:asc or field:desc.

Fields:    processo, requerido, valor, comarca, contato, contatoRealizado, observacoes
Operators: equals, notEquals, contains, startsWith, endsWith (text)
           equals, notEquals, greaterThan, lessThan, greaterOrEqual, lessOrEqual (valor)

Example:
  docket list --filter comarca:contains:campinas --sort valor:desc
  docket list --filter contatoRealizado:false --batch 4 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit %d: must not be negative: %w", limit, types.ErrInvalidPaging)
			}
			if page < 1 {
				return fmt.Errorf("--page %d: must be at least 1: %w", page, types.ErrInvalidPaging)
			}
			size := limit
			if size == 0 {
				size = a.cfg.EffectivePageSize()
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			host := dashboard.NewProcesses(store, store, size)
			if err := applyQuery(host, filters, sort); err != nil {
				return err
			}
			if err := g.apply(host); err != nil {
				return err
			}
			host.GoTo(page)

			if err := host.Load(cmd.Context()); err != nil {
				return fmt.Errorf("listing processes: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), types.NewProcessPage(derefRows(host.Rows()), host.Total(), host.Page(), size))
			}
			return processTable(cmd.OutOrStdout(), host)
		},
	}
	g.register(cmd)
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "column filter field:operator:value (repeatable)")
	cmd.Flags().StringVar(&sort, "sort", "", "sort field:asc or field:desc")
	cmd.Flags().IntVar(&page, "page", grid.DefaultPage, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default: page_size from config)")
	return cmd
}

// applyQuery feeds filter and sort specs to the host's grid as if they
// were applied from the column controls.
func applyQuery(host *dashboard.Processes, filters []string, sort string) error {
	e := host.Engine()
	for _, spec := range filters {
		f, err := grid.ParseFilterSpec(e.Columns(), spec)
		if err != nil {
			return err
		}
		e.SetFilter(f.Field, &grid.Filter{Operator: f.Operator, Value: f.Value})
	}
	if sort != "" {
		s, err := grid.ParseSortSpec(e.Columns(), sort)
		if err != nil {
			return err
		}
		dir := s.Direction
		e.SetSort(s.Field, &dir)
	}
	return nil
}

func derefRows(rows []*types.Process) []types.Process {
	out := make([]types.Process, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}
