package cli

import (
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/dashboard"
	"github.com/mesh-intelligence/docket/internal/logger"
	"github.com/mesh-intelligence/docket/internal/paths"
	"github.com/mesh-intelligence/docket/internal/tui"
)

// globalFilters are the listing filters that live outside the grid.
type globalFilters struct {
	processed string
	system    string
	batch     int64
}

func (g *globalFilters) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.processed, "processed", "", "only processed (true) or unprocessed (false) processes")
	cmd.Flags().StringVar(&g.system, "system", "", "court system whose batches the batch filter offers: eproc or esaj")
	cmd.Flags().Int64Var(&g.batch, "batch", 0, "only processes of this batch")
}

// apply sets the global filters on host.
func (g *globalFilters) apply(host *dashboard.Processes) error {
	if g.processed != "" {
		v, err := parseBool(g.processed)
		if err != nil {
			return fmt.Errorf("--processed: %w", err)
		}
		host.SetProcessed(&v)
	}
	sys, err := parseSystem(g.system)
	if err != nil {
		return err
	}
	host.SetSystem(sys)
	if g.batch > 0 {
		id := g.batch
		host.SetBatch(&id)
	}
	return nil
}

func newBrowseCmd(a *app) *cobra.Command {
	var g globalFilters
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse, filter and annotate processes in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logFile, err := logger.SetupFile(a.cfg.LogLevel, paths.LogFile(a.cfg.DataDir))
			if err != nil {
				return sysError(err)
			}
			defer logFile.Close()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			host := dashboard.NewProcesses(store, store, a.cfg.EffectivePageSize())
			if err := g.apply(host); err != nil {
				return err
			}
			slog.Info("browse started", "backend", a.cfg.Backend, "system", host.System(), "page_size", a.cfg.EffectivePageSize())

			p := tea.NewProgram(tui.New(cmd.Context(), host),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("running browser: %w", err)
			}
			return nil
		},
	}
	g.register(cmd)
	return cmd
}
