package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/internal/gateway"
	"github.com/mesh-intelligence/docket/pkg/types"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		system string
		dir    string
		local  bool
	)
	cmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Write the Excel workbook of a batch",
		Long: "Export downloads the batch workbook from the API, or builds it from the\n" +
			"local mirror with --local (or when the backend is sqlite).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("batch id", args[0])
			if err != nil {
				return err
			}
			sys, err := requireSystem(system)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var (
				exp   *dashboard.Exporter
				batch types.Batch
			)
			if local || a.cfg.Backend == types.BackendSQLite {
				mirror, err := a.openMirror()
				if err != nil {
					return err
				}
				defer mirror.Detach()
				exp = dashboard.NewLocalExporter(mirror)
				batch = findBatch(ctx, mirror, id, sys)
			} else {
				r, err := a.openRemote()
				if err != nil {
					return err
				}
				defer r.Detach()
				exp = dashboard.NewRemoteExporter(gateway.NewCourtService(r.Client(), sys))
				batch = findBatch(ctx, r, id, sys)
			}

			path, err := exp.Export(ctx, batch, dir)
			if err != nil {
				return fmt.Errorf("exporting batch %d: %w", id, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "court system: eproc or esaj")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().BoolVar(&local, "local", false, "build the workbook from the local mirror")
	return cmd
}

// findBatch looks the batch up for its description. A batch the source
// does not list is exported under the default name.
func findBatch(ctx context.Context, src types.BatchSource, id int64, system types.System) types.Batch {
	batches, err := src.ListBatches(ctx, system)
	if err != nil {
		slog.Debug("batch lookup failed", "batch", id, "error", err)
	}
	for _, b := range batches {
		if b.ID == id {
			if b.System == "" {
				b.System = system
			}
			return b
		}
	}
	return types.Batch{ID: id, System: system}
}
