package types

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// System is a court system the backend integrates with.
type System string

// Court systems.
const (
	SystemEproc System = "eproc"
	SystemEsaj  System = "esaj"
)

// Systems lists the supported court systems in display order.
var Systems = []System{SystemEproc, SystemEsaj}

// ParseSystem parses a system name case-insensitively.
func ParseSystem(s string) (System, error) {
	switch sys := System(strings.ToLower(strings.TrimSpace(s))); sys {
	case SystemEproc, SystemEsaj:
		return sys, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidSystem)
}

// Label returns the upper-case display name.
func (s System) Label() string { return strings.ToUpper(string(s)) }

// UnmarshalText accepts any case, so "EPROC" and "eproc" decode alike.
func (s *System) UnmarshalText(b []byte) error {
	*s = System(strings.ToLower(string(b)))
	return nil
}

// Batch status keywords.
const (
	BatchPending    = "pending"
	BatchProcessing = "processing"
	BatchCompleted  = "completed"
	BatchError      = "error"
)

// StatusLabel returns the display label of a batch status keyword.
func StatusLabel(status string) string {
	switch status {
	case BatchCompleted:
		return "Concluído"
	case BatchProcessing:
		return "Processando"
	case BatchError:
		return "Erro"
	default:
		return "Pendente"
	}
}

// BatchStatus is the processing progress of a batch.
type BatchStatus struct {
	ID                 int64     `json:"id"`
	BatchID            int64     `json:"batchId"`
	TotalProcesses     int       `json:"totalProcesses"`
	ProcessedProcesses int       `json:"processedProcesses"`
	ProcessedCount     int       `json:"processedCount"`
	PendingProcesses   int       `json:"pendingProcesses"`
	ErrorProcesses     int       `json:"errorProcesses"`
	PercentComplete    float64   `json:"percentComplete"`
	Progress           float64   `json:"progress"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// ComputeBatchStatus derives a status from process counts. Processes with
// errors that are not processed count as errored, not pending.
func ComputeBatchStatus(batchID int64, total, processed, errored int) BatchStatus {
	pending := max(total-processed-errored, 0)
	s := BatchStatus{
		ID:                 batchID,
		BatchID:            batchID,
		TotalProcesses:     total,
		ProcessedProcesses: processed,
		ProcessedCount:     processed,
		PendingProcesses:   pending,
		ErrorProcesses:     errored,
	}
	if total > 0 {
		s.PercentComplete = math.Round(float64(processed)/float64(total)*1000) / 10
		s.Progress = s.PercentComplete
	}
	switch {
	case total == 0:
		s.Status = BatchPending
	case processed == total:
		s.Status = BatchCompleted
	case pending == 0:
		s.Status = BatchError
	case processed+errored > 0:
		s.Status = BatchProcessing
	default:
		s.Status = BatchPending
	}
	return s
}

// Batch is one imported PDF and the processes extracted from it.
type Batch struct {
	ID          int64        `json:"id"`
	System      System       `json:"system"`
	State       string       `json:"state"`
	ProcessDate time.Time    `json:"processDate"`
	Description string       `json:"description"`
	Processed   bool         `json:"processed"`
	Status      *BatchStatus `json:"status,omitempty"`
}

// BatchOption is a selectable batch in the global batch filter.
type BatchOption struct {
	ID          int64
	Description string
}

// BatchStats aggregates process counts across batches.
type BatchStats struct {
	Batches   int `json:"batches"`
	Total     int `json:"totalProcesses"`
	Processed int `json:"processedProcesses"`
	Pending   int `json:"pendingProcesses"`
	Errors    int `json:"errorProcesses"`
}

// Add accumulates one batch status. A nil status counts the batch only.
func (s *BatchStats) Add(st *BatchStatus) {
	s.Batches++
	if st == nil {
		return
	}
	s.Total += st.TotalProcesses
	s.Processed += st.ProcessedProcesses
	s.Pending += st.PendingProcesses
	s.Errors += st.ErrorProcesses
}

// ProcessedPercent returns the processed share of all processes, rounded
// to one decimal.
func (s BatchStats) ProcessedPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return math.Round(float64(s.Processed)/float64(s.Total)*1000) / 10
}

// ImportResult is the response of a PDF import.
type ImportResult struct {
	BatchID int64  `json:"batchId"`
	Message string `json:"message"`
}

// LawsuitData is the court lookup result for a process number.
type LawsuitData struct {
	Requerido *string  `json:"requerido,omitempty"`
	Valor     *float64 `json:"valor,omitempty"`
}

// LawsuitURL is the court access URL for a process number.
type LawsuitURL struct {
	URL string `json:"url"`
}

// Lawsuit combines the data and URL lookups of one process number.
type Lawsuit struct {
	Number string
	System System
	Data   LawsuitData
	URL    string
}
