package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBatchStatus(t *testing.T) {
	tests := []struct {
		name                     string
		total, processed, errors int
		wantStatus               string
		wantPending              int
		wantPercent              float64
	}{
		{"empty batch", 0, 0, 0, BatchPending, 0, 0},
		{"untouched", 10, 0, 0, BatchPending, 10, 0},
		{"in progress", 3, 1, 0, BatchProcessing, 2, 33.3},
		{"done", 4, 4, 0, BatchCompleted, 0, 100},
		{"finished with errors", 4, 3, 1, BatchError, 0, 75},
		{"errors while running", 5, 0, 1, BatchProcessing, 4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeBatchStatus(1, tt.total, tt.processed, tt.errors)
			assert.Equal(t, tt.wantStatus, s.Status)
			assert.Equal(t, tt.wantPending, s.PendingProcesses)
			assert.InDelta(t, tt.wantPercent, s.PercentComplete, 0.001)
			assert.Equal(t, tt.processed, s.ProcessedCount)
		})
	}
}

func TestBatchStats(t *testing.T) {
	var s BatchStats
	s.Add(&BatchStatus{TotalProcesses: 10, ProcessedProcesses: 5, PendingProcesses: 4, ErrorProcesses: 1})
	s.Add(nil)
	s.Add(&BatchStatus{TotalProcesses: 6, ProcessedProcesses: 6})
	assert.Equal(t, BatchStats{Batches: 3, Total: 16, Processed: 11, Pending: 4, Errors: 1}, s)
	assert.InDelta(t, 68.8, s.ProcessedPercent(), 0.001)
	assert.Zero(t, BatchStats{}.ProcessedPercent())
}

func TestParseSystem(t *testing.T) {
	s, err := ParseSystem("EPROC")
	require.NoError(t, err)
	assert.Equal(t, SystemEproc, s)
	assert.Equal(t, "ESAJ", SystemEsaj.Label())

	_, err = ParseSystem("pje")
	assert.ErrorIs(t, err, ErrInvalidSystem)
}

func TestBatchJSONSystemCase(t *testing.T) {
	var b Batch
	require.NoError(t, json.Unmarshal([]byte(`{"id": 3, "system": "ESAJ", "description": "Lote março"}`), &b))
	assert.Equal(t, SystemEsaj, b.System)
	assert.Nil(t, b.Status)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Concluído", StatusLabel(BatchCompleted))
	assert.Equal(t, "Pendente", StatusLabel(""))
}

func TestCreateUserDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    CreateUserData
		wantErr error
	}{
		{"valid", CreateUserData{Email: "a@b.com", Password: "secret1"}, nil},
		{"admin", CreateUserData{Email: "a@b.com", Password: "secret1", Role: RoleAdmin}, nil},
		{"bad email", CreateUserData{Email: "ab.com", Password: "secret1"}, ErrInvalidEmail},
		{"short password", CreateUserData{Email: "a@b.com", Password: "12345"}, ErrWeakPassword},
		{"bad role", CreateUserData{Email: "a@b.com", Password: "secret1", Role: "root"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUserIsAdmin(t *testing.T) {
	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
}
