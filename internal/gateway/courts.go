package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// Import states the court endpoints accept.
var SupportedStates = map[string]string{
	"SP": "São Paulo",
}

// CourtService wraps the endpoints of one court system (/eproc or /esaj).
type CourtService struct {
	c      *Client
	system types.System
}

// NewCourtService returns the endpoints of system.
func NewCourtService(c *Client, system types.System) *CourtService {
	return &CourtService{c: c, system: system}
}

// System returns the court system served.
func (s *CourtService) System() types.System { return s.system }

func (s *CourtService) path(p string) string { return "/" + string(s.system) + p }

// LawsuitData fetches the requerido and valor of a process number.
func (s *CourtService) LawsuitData(ctx context.Context, number string) (types.LawsuitData, error) {
	if strings.TrimSpace(number) == "" {
		return types.LawsuitData{}, types.ErrEmptyProcessNumber
	}
	var d types.LawsuitData
	err := s.c.getJSON(ctx, s.path("/lawsuit/"+url.PathEscape(number)), nil, &d)
	return d, err
}

// LawsuitURL fetches the court access URL of a process number.
func (s *CourtService) LawsuitURL(ctx context.Context, number string) (types.LawsuitURL, error) {
	if strings.TrimSpace(number) == "" {
		return types.LawsuitURL{}, types.ErrEmptyProcessNumber
	}
	var u types.LawsuitURL
	err := s.c.getJSON(ctx, s.path("/lawsuit-url/"+url.PathEscape(number)), nil, &u)
	return u, err
}

// Lookup fetches the data and the URL of a process number concurrently.
// The first failure cancels the other request.
func (s *CourtService) Lookup(ctx context.Context, number string) (types.Lawsuit, error) {
	if strings.TrimSpace(number) == "" {
		return types.Lawsuit{}, types.ErrEmptyProcessNumber
	}
	res := types.Lawsuit{Number: number, System: s.system}
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		d, err := s.LawsuitData(ctx, number)
		res.Data = d
		return err
	})
	p.Go(func(ctx context.Context) error {
		u, err := s.LawsuitURL(ctx, number)
		res.URL = u.URL
		return err
	})
	if err := p.Wait(); err != nil {
		return types.Lawsuit{}, fmt.Errorf("looking up %s on %s: %w", number, s.system.Label(), err)
	}
	return res, nil
}

// SetSession hands a court PHPSESSID to the backend. Only EPROC supports it.
func (s *CourtService) SetSession(ctx context.Context, serviceName, sessionID string) error {
	if s.system != types.SystemEproc {
		return fmt.Errorf("set-session on %s: %w", s.system.Label(), ErrUnsupported)
	}
	if strings.TrimSpace(sessionID) == "" {
		return types.ErrEmptySessionID
	}
	body := map[string]string{"service_name": serviceName, "session_id": sessionID}
	return s.c.sendJSON(ctx, http.MethodPost, s.path("/set-session"), nil, body, nil)
}

// ImportPDF uploads a process list PDF for state and returns the new batch.
func (s *CourtService) ImportPDF(ctx context.Context, filename string, r io.Reader, state string) (types.ImportResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return types.ImportResult{}, fmt.Errorf("%s: %w", filename, types.ErrNotPDF)
	}
	if _, ok := SupportedStates[state]; !ok {
		return types.ImportResult{}, fmt.Errorf("%q: %w", state, types.ErrStateUnsupported)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return types.ImportResult{}, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return types.ImportResult{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.WriteField("state", state); err != nil {
		return types.ImportResult{}, fmt.Errorf("building upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return types.ImportResult{}, fmt.Errorf("building upload: %w", err)
	}

	resp, err := s.c.do(ctx, http.MethodPost, s.path("/import-pdf"), nil, &buf, mw.FormDataContentType())
	if err != nil {
		return types.ImportResult{}, err
	}
	defer resp.Body.Close()
	var out types.ImportResult
	if err := decode(resp, &out); err != nil {
		return types.ImportResult{}, err
	}
	return out, nil
}

// BatchStatus returns the progress of one batch.
func (s *CourtService) BatchStatus(ctx context.Context, id int64) (types.BatchStatus, error) {
	var st types.BatchStatus
	err := s.c.getJSON(ctx, s.path("/batch/"+strconv.FormatInt(id, 10)), nil, &st)
	return st, err
}

// DeleteBatch removes a batch and its processes.
func (s *CourtService) DeleteBatch(ctx context.Context, id int64) error {
	return s.c.sendJSON(ctx, http.MethodDelete, s.path("/batch/"+strconv.FormatInt(id, 10)), nil, nil, nil)
}

// ListProcessingBatches lists the batches still being processed. ESAJ
// serves them under /batch/processing, EPROC under /batch.
func (s *CourtService) ListProcessingBatches(ctx context.Context) ([]types.Batch, error) {
	p := "/batch"
	if s.system == types.SystemEsaj {
		p = "/batch/processing"
	}
	var out []types.Batch
	if err := s.c.getJSON(ctx, s.path(p), nil, &out); err != nil {
		return nil, err
	}
	return stampSystem(out, s.system), nil
}

// ListAllBatches lists every batch of the system.
func (s *CourtService) ListAllBatches(ctx context.Context) ([]types.Batch, error) {
	var out []types.Batch
	if err := s.c.getJSON(ctx, s.path("/batch"), nil, &out); err != nil {
		return nil, err
	}
	return stampSystem(out, s.system), nil
}

// ExportBatch streams the Excel export of a batch to w.
func (s *CourtService) ExportBatch(ctx context.Context, id int64, w io.Writer) (int64, error) {
	return s.c.download(ctx, s.path("/export/batch/"+strconv.FormatInt(id, 10)), w)
}

// stampSystem fills the system of batches the API returned without one.
func stampSystem(batches []types.Batch, system types.System) []types.Batch {
	for i := range batches {
		if batches[i].System == "" {
			batches[i].System = system
		}
	}
	return batches
}
