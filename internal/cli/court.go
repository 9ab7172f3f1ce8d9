package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/gateway"
	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// defaultServiceName is the court service the EPROC session belongs to.
const defaultServiceName = "eproc"

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the court session used by the backend",
	}
	cmd.AddCommand(newSessionSetCmd(a))
	return cmd
}

func newSessionSetCmd(a *app) *cobra.Command {
	var system, service string
	cmd := &cobra.Command{
		Use:   "set <session-id>",
		Short: "Hand a court PHPSESSID to the backend (EPROC only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := types.ParseSystem(system)
			if err != nil {
				return err
			}
			r, err := a.openRemote()
			if err != nil {
				return err
			}
			defer r.Detach()

			if err := gateway.NewCourtService(r.Client(), sys).SetSession(cmd.Context(), service, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sessão %s configurada\n", sys.Label())
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", string(types.SystemEproc), "court system")
	cmd.Flags().StringVar(&service, "service", defaultServiceName, "court service name")
	return cmd
}

func newLawsuitCmd(a *app) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "lawsuit <number>",
		Short: "Look up a process number on a court system",
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

			l, err := gateway.NewCourtService(r.Client(), sys).Lookup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), l)
			}
			f := grid.BrazilianFormatter()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Processo:  %s (%s)\n", l.Number, l.System.Label())
			fmt.Fprintf(out, "Requerido: %s\n", f.Format(grid.TypeString, l.Data.Requerido))
			fmt.Fprintf(out, "Valor:     %s\n", f.Format(grid.TypeCurrency, l.Data.Valor))
			fmt.Fprintf(out, "URL:       %s\n", l.URL)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	return cmd
}
