package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show process totals across the batches in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			ov, err := dashboard.Stats(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("loading stats: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), ov)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lotes em andamento: %d\n", ov.Stats.Batches)
			fmt.Fprintf(out, "Processos:          %d\n", ov.Stats.Total)
			fmt.Fprintf(out, "Processados:        %d (%.1f%%)\n", ov.Stats.Processed, ov.Stats.ProcessedPercent())
			fmt.Fprintf(out, "Pendentes:          %d\n", ov.Stats.Pending)
			fmt.Fprintf(out, "Erros:              %d\n", ov.Stats.Errors)
			if len(ov.Batches) > 0 {
				return writeTable(out, batchHeaders, batchRows(ov.Batches))
			}
			return nil
		},
	}
}
