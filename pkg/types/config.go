package types

import (
	"errors"
	"time"
)

// Config holds backend selection and parameters for Store.Attach and the
// dashboard hosts.
type Config struct {
	Backend        string        `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir        string        `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	APIURL         string        `json:"api_url" yaml:"api_url" mapstructure:"api_url"`
	PageSize       int           `json:"page_size" yaml:"page_size" mapstructure:"page_size"`
	PollInterval   time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout" mapstructure:"request_timeout"`
	LogLevel       string        `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Supported backend names.
const (
	BackendRemote = "remote"
	BackendSQLite = "sqlite"
)

// Defaults applied when the config file leaves a key unset.
const (
	DefaultAPIURL         = "http://localhost:3001"
	DefaultPageSize       = 50
	DefaultPollInterval   = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrAPIURLEmpty         = errors.New("api_url must not be empty for the remote backend")
	ErrPageSizeInvalid     = errors.New("page size must be positive")
	ErrPollIntervalInvalid = errors.New("poll interval must be positive")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendRemote: true,
	BackendSQLite: true,
}

// DefaultConfig returns a remote configuration with every default set.
func DefaultConfig() Config {
	return Config{
		Backend:        BackendRemote,
		APIURL:         DefaultAPIURL,
		PageSize:       DefaultPageSize,
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. Zero PageSize and PollInterval are accepted
// and mean "use the default".
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendRemote && c.APIURL == "" {
		return ErrAPIURLEmpty
	}
	if c.PageSize < 0 {
		return ErrPageSizeInvalid
	}
	if c.PollInterval < 0 {
		return ErrPollIntervalInvalid
	}
	return nil
}

// EffectivePageSize returns PageSize or the default when unset.
func (c Config) EffectivePageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return DefaultPageSize
}

// EffectivePollInterval returns PollInterval or the default when unset.
func (c Config) EffectivePollInterval() time.Duration {
	if c.PollInterval > 0 {
		return c.PollInterval
	}
	return DefaultPollInterval
}
