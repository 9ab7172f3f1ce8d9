// Shared helpers for docket commands: opening the configured store, the
// API gateway and the local mirror, and parsing common arguments.
package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/docket/internal/gateway"
	"github.com/mesh-intelligence/docket/internal/paths"
	"github.com/mesh-intelligence/docket/internal/sqlite"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// Version is the docket release, set at build time with -ldflags.
var Version = "dev"

// clientOptions returns the gateway options shared by every API call.
func (a *app) clientOptions() []gateway.Option {
	return []gateway.Option{
		gateway.WithSessionFile(paths.SessionFile(a.configDir)),
		gateway.WithUserAgent(gateway.DefaultUserAgent + "/" + Version),
		gateway.WithLogger(slog.Default()),
	}
}

// openStore attaches the configured backend. The caller must defer
// store.Detach().
func (a *app) openStore() (types.Store, error) {
	if a.cfg.Backend == types.BackendSQLite {
		return a.openMirror()
	}
	return a.openRemote()
}

// openRemote attaches the API gateway whatever the configured backend.
func (a *app) openRemote() (*gateway.Remote, error) {
	cfg := a.cfg
	cfg.Backend = types.BackendRemote
	r := gateway.NewRemote(a.clientOptions()...)
	if err := r.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach api: %w", err))
	}
	return r, nil
}

// openMirror attaches the local SQLite mirror in the data directory.
func (a *app) openMirror() (*sqlite.Backend, error) {
	cfg := a.cfg
	cfg.Backend = types.BackendSQLite
	b := sqlite.NewBackend()
	if err := b.Attach(cfg); err != nil {
		return nil, sysError(fmt.Errorf("attach mirror: %w", err))
	}
	return b, nil
}

// courts returns the court services of every system on the client.
func courts(c *gateway.Client) map[types.System]*gateway.CourtService {
	out := make(map[types.System]*gateway.CourtService, len(types.Systems))
	for _, s := range types.Systems {
		out[s] = gateway.NewCourtService(c, s)
	}
	return out
}

// parseID parses a positive numeric identifier argument.
func parseID(what, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", what, s, types.ErrInvalidID)
	}
	return id, nil
}

// parseSystem parses an optional --system flag value.
func parseSystem(s string) (types.System, error) {
	if s == "" {
		return "", nil
	}
	return types.ParseSystem(s)
}

// requireSystem parses a mandatory --system flag value.
func requireSystem(s string) (types.System, error) {
	if s == "" {
		return "", fmt.Errorf("--system is required (eproc or esaj): %w", types.ErrInvalidSystem)
	}
	return types.ParseSystem(s)
}

// parseBool accepts the yes/no spellings users type for boolean fields.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "sim", "s", "yes", "y":
		return true, nil
	case "false", "0", "nao", "não", "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
