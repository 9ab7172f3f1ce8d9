package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/pkg/types"
)

func newSyncCmd(a *app) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror batches and processes from the API into the local database",
		Long: "Sync pulls every batch and process from the API into the SQLite mirror in\n" +
			"the data directory. Local contact edits are overwritten. With --status it\n" +
			"reports the last run instead.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mirror, err := a.openMirror()
			if err != nil {
				return err
			}
			defer mirror.Detach()
			out := cmd.OutOrStdout()

			if status {
				run, err := mirror.LastSync(cmd.Context())
				if errors.Is(err, types.ErrNotFound) {
					fmt.Fprintln(out, "Nenhuma sincronização registrada")
					return nil
				}
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(out, run)
				}
				fmt.Fprintf(out, "Última sincronização %s em %s: %d lotes, %d processos\n",
					run.RunID, run.StartedAt.Local().Format(time.DateTime), run.Batches, run.Processes)
				if run.Error != "" {
					fmt.Fprintf(out, "Erro: %s\n", run.Error)
				}
				return nil
			}

			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			run, err := mirror.Sync(cmd.Context(), r)
			if err != nil {
				return fmt.Errorf("sync %s: %w", run.RunID, err)
			}
			if a.flags.jsonMode {
				return writeJSON(out, run)
			}
			fmt.Fprintf(out, "Sincronizados %d lotes e %d processos em %s\n",
				run.Batches, run.Processes, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "show the last sync run")
	return cmd
}
