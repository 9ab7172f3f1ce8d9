// Package cli implements the docket command-line interface: the terminal
// process browser and the commands that script the dashboard operations
// against the API or the local mirror.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docket/internal/logger"
	"github.com/mesh-intelligence/docket/internal/paths"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	apiURL    string
	backend   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
}

// NewRootCmd creates the top-level "docket" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "docket",
		Short: "Track legal-process batches imported from court PDFs",
		Long: "docket lists, filters and annotates the processes extracted from court\n" +
			"PDF imports, monitors their batches and exports them to Excel. It talks\n" +
			"to the dashboard API or to a local SQLite mirror of it.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory of the local mirror (default: .docket-db)")
	root.PersistentFlags().StringVar(&a.flags.apiURL, "api-url", "", "dashboard API base URL")
	root.PersistentFlags().StringVar(&a.flags.backend, "backend", "", "store backend: remote or sqlite")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newWhoamiCmd(a))
	root.AddCommand(newUsersCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newBatchesCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newSessionCmd(a))
	root.AddCommand(newLawsuitCmd(a))
	root.AddCommand(newSyncCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := NewRootCmd()
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// setup resolves directories, loads config.yaml and installs the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = dir

	v, err := loadConfig(dir)
	if err != nil {
		return sysError(err)
	}
	cfg, err := configFrom(v, a.flags)
	if err != nil {
		return err
	}
	a.cfg = cfg

	// browse logs to a file once the store is known.
	if cmd.Name() != "browse" {
		logger.Setup(cfg.LogLevel)
	}
	slog.Debug("config loaded", "dir", dir, "backend", cfg.Backend, "data_dir", cfg.DataDir)
	return nil
}

// exitErr carries the exit code of a failure.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

// sysError marks err as an environment failure rather than bad input.
func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &exitErr{code: exitSysError, err: err}
}

func exitCode(err error) int {
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}
