package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/types"
)

func newBatchesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batches",
		Aliases: []string{"lotes"},
		Short:   "List, inspect, watch and delete import batches",
	}
	cmd.AddCommand(newBatchesListCmd(a))
	cmd.AddCommand(newBatchesStatusCmd(a))
	cmd.AddCommand(newBatchesWatchCmd(a))
	cmd.AddCommand(newBatchesDeleteCmd(a))
	return cmd
}

func newBatchesListCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List batches of a system, or the unfinished batches of all systems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := parseSystem(system)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			batches, err := store.ListBatches(cmd.Context(), sys)
			if err != nil {
				return fmt.Errorf("listing batches: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), batches)
			}
			if len(batches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhum lote encontrado")
				return nil
			}
			return writeTable(cmd.OutOrStdout(), batchHeaders, batchRows(batches))
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	return cmd
}

func newBatchesStatusCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "status <batch-id>",
		Short: "Show the processing progress of a batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("batch id", args[0])
			if err != nil {
				return err
			}
			sys, err := requireSystem(system)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			st, err := store.BatchStatus(cmd.Context(), id, sys)
			if err != nil {
				return fmt.Errorf("batch %d status: %w", id, err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			writeStatus(cmd.OutOrStdout(), id, st)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	return cmd
}

func writeStatus(w io.Writer, id int64, st types.BatchStatus) {
	fmt.Fprintf(w, "Lote #%d: %s\n", id, types.StatusLabel(st.Status))
	fmt.Fprintf(w, "  Total:       %d\n", st.TotalProcesses)
	fmt.Fprintf(w, "  Processados: %d (%.1f%%)\n", st.ProcessedProcesses, st.PercentComplete)
	fmt.Fprintf(w, "  Pendentes:   %d\n", st.PendingProcesses)
	fmt.Fprintf(w, "  Erros:       %d\n", st.ErrorProcesses)
}

func newBatchesWatchCmd(a *app) *cobra.Command {
	var (
		system   string
		interval time.Duration
		once     bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll batch progress until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := parseSystem(system)
			if err != nil {
				return err
			}
			if interval == 0 {
				interval = a.cfg.EffectivePollInterval()
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			mon := dashboard.NewMonitor(store, sys, interval)
			out := cmd.OutOrStdout()
			if once {
				s, err := mon.Snapshot(cmd.Context())
				if err != nil {
					return fmt.Errorf("polling batches: %w", err)
				}
				return writeSnapshot(out, s, a.flags.jsonMode)
			}
			mon.Run(cmd.Context(), func(s dashboard.Snapshot, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s falha ao consultar lotes: %v\n", time.Now().Format(time.TimeOnly), err)
					return
				}
				_ = writeSnapshot(out, s, a.flags.jsonMode)
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj (default: unfinished batches of all systems)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (default: poll_interval from config)")
	cmd.Flags().BoolVar(&once, "once", false, "poll once and exit")
	return cmd
}

func writeSnapshot(w io.Writer, s dashboard.Snapshot, jsonMode bool) error {
	if jsonMode {
		return writeJSON(w, s)
	}
	fmt.Fprintf(w, "%s  %d lotes • %d processos • %d processados (%.1f%%) • %d pendentes • %d erros\n",
		s.At.Format(time.TimeOnly), s.Stats.Batches, s.Stats.Total, s.Stats.Processed,
		s.Stats.ProcessedPercent(), s.Stats.Pending, s.Stats.Errors)
	if len(s.Batches) == 0 {
		return nil
	}
	return writeTable(w, batchHeaders, batchRows(s.Batches))
}

func newBatchesDeleteCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "delete <batch-id>",
		Short: "Delete a batch and all its processes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("batch id", args[0])
			if err != nil {
				return err
			}
			sys, err := requireSystem(system)
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			if err := dashboard.NewMonitor(store, sys, 0).Delete(cmd.Context(), id, sys); err != nil {
				return fmt.Errorf("deleting batch %d: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lote #%d excluído\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	return cmd
}
