package dashboard

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/docket/internal/gateway"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// pdfMagic opens every PDF file.
var pdfMagic = []byte("%PDF-")

// Uploader uploads a process list PDF to one court system.
type Uploader interface {
	ImportPDF(ctx context.Context, filename string, r io.Reader, state string) (types.ImportResult, error)
}

// Importer imports process list PDFs through the court services.
type Importer struct {
	courts map[types.System]Uploader
}

// NewImporter returns an importer uploading to courts.
func NewImporter(courts map[types.System]Uploader) *Importer {
	return &Importer{courts: courts}
}

// ValidateImport checks the state and the PDF at path before upload.
func ValidateImport(path, state string) error {
	if _, ok := gateway.SupportedStates[state]; !ok {
		return fmt.Errorf("%q: %w", state, types.ErrStateUnsupported)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("%s: %w", path, types.ErrNotPDF)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%s: %w", path, types.ErrNotPDF)
	}
	return nil
}

// Import validates and uploads the PDF at path to system for state and
// returns the created batch.
func (im *Importer) Import(ctx context.Context, system types.System, path, state string) (types.ImportResult, error) {
	up, ok := im.courts[system]
	if !ok {
		return types.ImportResult{}, fmt.Errorf("%q: %w", system, types.ErrInvalidSystem)
	}
	state = strings.ToUpper(strings.TrimSpace(state))
	if err := ValidateImport(path, state); err != nil {
		return types.ImportResult{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return types.ImportResult{}, err
	}
	defer f.Close()
	return up.ImportPDF(ctx, filepath.Base(path), bufio.NewReader(f), state)
}
