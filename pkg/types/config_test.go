package types

import (
	"errors"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{
			name:    "empty backend returns ErrBackendEmpty",
			config:  Config{Backend: "", DataDir: "/tmp/data"},
			wantErr: ErrBackendEmpty,
		},
		{
			name:    "unknown backend returns ErrBackendUnknown",
			config:  Config{Backend: "postgres", DataDir: "/tmp/data"},
			wantErr: ErrBackendUnknown,
		},
		{
			name:    "remote without api url",
			config:  Config{Backend: BackendRemote},
			wantErr: ErrAPIURLEmpty,
		},
		{
			name:    "negative page size",
			config:  Config{Backend: BackendSQLite, PageSize: -1},
			wantErr: ErrPageSizeInvalid,
		},
		{
			name:    "negative poll interval",
			config:  Config{Backend: BackendSQLite, PollInterval: -time.Second},
			wantErr: ErrPollIntervalInvalid,
		},
		{
			name:    "valid sqlite config",
			config:  Config{Backend: "sqlite", DataDir: "/tmp/data"},
			wantErr: nil,
		},
		{
			name:    "sqlite with empty DataDir is valid at config level",
			config:  Config{Backend: "sqlite", DataDir: ""},
			wantErr: nil,
		},
		{
			name:    "default config is valid",
			config:  DefaultConfig(),
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected nil error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %v, got nil", tt.wantErr)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigEffectiveDefaults(t *testing.T) {
	var c Config
	if got := c.EffectivePageSize(); got != DefaultPageSize {
		t.Fatalf("EffectivePageSize() = %d, want %d", got, DefaultPageSize)
	}
	if got := c.EffectivePollInterval(); got != DefaultPollInterval {
		t.Fatalf("EffectivePollInterval() = %v, want %v", got, DefaultPollInterval)
	}
	c.PageSize = 10
	if got := c.EffectivePageSize(); got != 10 {
		t.Fatalf("EffectivePageSize() = %d, want 10", got)
	}
}
