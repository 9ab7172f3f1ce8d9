package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// Cookie is a persisted session cookie.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Session is the login state kept between runs: the API cookies and the
// user returned at login.
type Session struct {
	Cookies []Cookie    `json:"cookies"`
	User    *types.User `json:"user,omitempty"`
}

// LoadSession reads a session file. A missing file yields an empty session.
func LoadSession(path string) (Session, error) {
	var s Session
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading session: %w", err)
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return Session{}, fmt.Errorf("parsing session %s: %w", path, err)
	}
	return s, nil
}

// Save writes the session to path, readable by the owner only. The file
// is replaced by rename, so readers see the old or the new session.
func (s Session) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming session file: %w", err)
	}
	return nil
}

// RemoveSession deletes the session file. A missing file is not an error.
func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
