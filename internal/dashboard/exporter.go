package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/docket/internal/export"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// Downloader streams the Excel export of a batch.
type Downloader interface {
	ExportBatch(ctx context.Context, id int64, w io.Writer) (int64, error)
}

// BatchReader returns the processes of a batch.
type BatchReader interface {
	BatchProcesses(ctx context.Context, batchID int64) ([]types.Process, error)
}

// ErrNoExportSource is returned by an Exporter with neither source set.
var ErrNoExportSource = errors.New("no export source configured")

// Exporter writes batch workbooks to disk, downloading them from the API
// or building them from the local mirror.
type Exporter struct {
	remote Downloader
	local  BatchReader
}

// NewRemoteExporter exports through the API.
func NewRemoteExporter(d Downloader) *Exporter { return &Exporter{remote: d} }

// NewLocalExporter exports from the local mirror.
func NewLocalExporter(r BatchReader) *Exporter { return &Exporter{local: r} }

// Export writes the workbook of batch into dir under export.FileName and
// returns its path. The file appears only once fully written.
func (e *Exporter) Export(ctx context.Context, batch types.Batch, dir string) (string, error) {
	if e.remote == nil && e.local == nil {
		return "", ErrNoExportSource
	}
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, export.FileName(batch.System, batch.Description, batch.ID))

	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}

	if e.remote != nil {
		if _, err := e.remote.ExportBatch(ctx, batch.ID, tmp); err != nil {
			return fail(fmt.Errorf("downloading batch %d: %w", batch.ID, err))
		}
	} else {
		rows, err := e.local.BatchProcesses(ctx, batch.ID)
		if err != nil {
			return fail(err)
		}
		if err := export.WriteProcesses(tmp, rows); err != nil {
			return fail(err)
		}
	}

	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing export file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("renaming export file: %w", err)
	}
	return path, nil
}
