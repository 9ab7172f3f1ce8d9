package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/types"
)

func newImportCmd(a *app) *cobra.Command {
	var system, state string
	cmd := &cobra.Command{
		Use:   "import <pdf>",
		Short: "Upload a court PDF and create a processing batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := requireSystem(system)
			if err != nil {
				return err
			}
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			uploaders := make(map[types.System]dashboard.Uploader)
			for s, c := range courts(r.Client()) {
				uploaders[s] = c
			}
			res, err := dashboard.NewImporter(uploaders).Import(cmd.Context(), sys, args[0], state)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lote #%d criado", res.BatchID)
			if res.Message != "" {
				fmt.Fprintf(cmd.OutOrStdout(), ": %s", res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	cmd.Flags().StringVar(&state, "state", "SP", "state (UF) of the court")
	return cmd
}
