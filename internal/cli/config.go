package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/docket/internal/paths"
	"github.com/mesh-intelligence/docket/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyAPIURL         = "api_url"
	cfgKeyPageSize       = "page_size"
	cfgKeyPollInterval   = "poll_interval"
	cfgKeyRequestTimeout = "request_timeout"
	cfgKeyLogLevel       = "log_level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# docket configuration

# Store backend: remote (dashboard API) or sqlite (local mirror)
backend: remote

# Dashboard API base URL (overridable by --api-url or DOCKET_API_URL)
# api_url: http://localhost:3001

# Local mirror directory (overridable by --data-dir or DOCKET_DATA_DIR)
# data_dir:

# page_size: 50
# poll_interval: 5s
# request_timeout: 30s
# log_level: info
`

// loadConfig reads config.yaml from configDir using Viper. It creates the
// directory and a default config.yaml on first run. A missing config.yaml
// is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendRemote)
	v.SetDefault(cfgKeyPageSize, types.DefaultPageSize)
	v.SetDefault(cfgKeyPollInterval, types.DefaultPollInterval)
	v.SetDefault(cfgKeyRequestTimeout, types.DefaultRequestTimeout)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := paths.ConfigFile(configDir)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// configFrom builds the effective config: flags override config.yaml,
// which overrides the environment and the defaults.
func configFrom(v *viper.Viper, flags rootFlags) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	cfg.Backend = strings.ToLower(cfg.Backend)
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	cfg.APIURL = paths.ResolveAPIURL(flags.apiURL, v.GetString(cfgKeyAPIURL))

	dataDir, err := paths.ResolveDataDir(flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
