package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/pkg/grid"
	"github.com/mesh-intelligence/docket/pkg/types"
)

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <field> <value>",
		Short: "Update the contact fields of a process",
		Long: `Edit sets one contact field of a process: contato, observacoes or
contatoRealizado (sim/não, true/false). An empty value clears a text field.

Example:
  docket edit 42 contato "Maria - (11) 9999-0000"
  docket edit 42 contatoRealizado sim`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("process id", args[0])
			if err != nil {
				return err
			}
			u, err := contactUpdate(args[1], args[2])
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			p, err := store.UpdateContact(cmd.Context(), id, u)
			if err != nil {
				return fmt.Errorf("updating process %d: %w", id, err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processo %s atualizado\n", p.Processo)
			return nil
		},
	}
}

// contactUpdate types raw against the grid column of field.
func contactUpdate(field, raw string) (types.ContactUpdate, error) {
	var col grid.Column
	for _, c := range dashboard.ProcessColumns() {
		if c.Field == field {
			col = c
		}
	}
	if col.Field == "" || !col.IsEditable() {
		return types.ContactUpdate{}, fmt.Errorf("%s: %w", field, types.ErrFieldNotEditable)
	}
	var value any = raw
	if col.Type == grid.TypeBoolean {
		b, err := parseBool(raw)
		if err != nil {
			return types.ContactUpdate{}, err
		}
		value = b
	}
	return types.ContactUpdateFor(field, value)
}
