package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/docket/internal/paths"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend string `yaml:"backend"`
	APIURL  string `yaml:"api_url,omitempty"`
	DataDir string `yaml:"data_dir,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize docket configuration and the local mirror",
		Long: "Write config.yaml with the effective backend, API URL and data directory,\n" +
			"then create the local mirror database in the data directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.ConfigFile(a.configDir)
			if err := writeConfig(path, a.cfg, force); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}

			mirror, err := a.openMirror()
			if err != nil {
				return err
			}
			if err := mirror.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize mirror: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:  %s\n", path)
			fmt.Fprintf(out, "mirror:  %s\n", a.cfg.DataDir)
			fmt.Fprintf(out, "backend: %s\n", a.cfg.Backend)
			fmt.Fprintln(out, "docket initialized successfully")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config.yaml")
	return cmd
}

// writeConfig writes cfg to path. The commented first-run default is
// replaced; a config the user already edited is kept unless force is set.
func writeConfig(path string, cfg types.Config, force bool) error {
	existing, err := os.ReadFile(path)
	if err == nil && !force && string(existing) != defaultConfigYAML {
		return nil
	}
	data, err := yaml.Marshal(&configFile{
		Backend: cfg.Backend,
		APIURL:  cfg.APIURL,
		DataDir: cfg.DataDir,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
