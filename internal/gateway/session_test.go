package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docket/pkg/types"
)

func TestSession_SaveReplacesFile(t *testing.T) {
	tests := []struct {
		name  string
		saves []Session
		want  Session
	}{
		{
			name:  "first save",
			saves: []Session{{Cookies: []Cookie{{Name: sessionCookie, Value: "a"}}}},
			want:  Session{Cookies: []Cookie{{Name: sessionCookie, Value: "a"}}},
		},
		{
			name: "overwrite",
			saves: []Session{
				{Cookies: []Cookie{{Name: sessionCookie, Value: "a"}}},
				{
					Cookies: []Cookie{{Name: sessionCookie, Value: "b"}},
					User:    &types.User{ID: 7, Email: "op@example.com", Role: types.RoleUser},
				},
			},
			want: Session{
				Cookies: []Cookie{{Name: sessionCookie, Value: "b"}},
				User:    &types.User{ID: 7, Email: "op@example.com", Role: types.RoleUser},
			},
		},
		{
			name:  "empty session",
			saves: []Session{{Cookies: []Cookie{{Name: sessionCookie, Value: "a"}}}, {}},
			want:  Session{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "docket")
			path := filepath.Join(dir, "session.json")
			for _, s := range tt.saves {
				require.NoError(t, s.Save(path))
			}

			got, err := LoadSession(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1, "no temporary files left behind")
			assert.Equal(t, "session.json", entries[0].Name())

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}
}

func TestSession_SaveFailsOnDirectoryTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.Mkdir(path, 0o700))

	err := Session{}.Save(path)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file removed after failed rename")
}
